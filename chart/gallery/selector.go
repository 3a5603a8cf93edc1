// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gallery

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudwego/chartagent/llm"
	"github.com/cloudwego/chartagent/llm/log"
	"github.com/cloudwego/chartagent/llm/prompt"
)

//go:embed keywords.yaml
var keywordsYAML []byte

type keywordRule struct {
	Keyword string `yaml:"keyword"`
	Type    string `yaml:"type"`
}

var keywordRules = mustLoadKeywords()

func mustLoadKeywords() []keywordRule {
	var rules []keywordRule
	if err := yaml.Unmarshal(keywordsYAML, &rules); err != nil {
		panic(fmt.Sprintf("embedded keywords.yaml is broken: %v", err))
	}
	return rules
}

// Selector picks a chart type for a description: an explicit hint wins, then
// a model call, then keyword matching, then "Line".
type Selector struct {
	llm     llm.Generator
	gallery *Gallery
}

func NewSelector(g llm.Generator, gal *Gallery) *Selector {
	return &Selector{llm: g, gallery: gal}
}

// Select returns the chosen chart type and a short note on how it was chosen.
func (s *Selector) Select(ctx context.Context, description, hint string) (string, string) {
	if hint != "" {
		if canonical, ok := s.gallery.Has(hint); ok {
			return canonical, "requested by user"
		}
		log.Debug("chart type hint %q not in gallery, ignoring", hint)
	}

	types := s.gallery.Types()
	selected, err := s.selectWithModel(ctx, description, types)
	if err != nil {
		log.Info("model selection failed: %v, using keyword matching", err)
		return matchKeywords(description, types), "keyword match"
	}
	for _, t := range types {
		if t == selected {
			return t, "model selection"
		}
	}
	log.Debug("model picked unknown type %q, defaulting to Line", selected)
	return "Line", "default"
}

func (s *Selector) selectWithModel(ctx context.Context, description string, types []string) (string, error) {
	user := fmt.Sprintf(`User wants to: %s

Available chart types:
%s

Select the single most appropriate chart type.`, description, strings.Join(types, ", "))

	reply, err := s.llm.Call(ctx, prompt.PromptChartSelector, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func matchKeywords(description string, types []string) string {
	lower := strings.ToLower(description)
	available := make(map[string]bool, len(types))
	for _, t := range types {
		available[t] = true
	}
	for _, rule := range keywordRules {
		if strings.Contains(lower, rule.Keyword) && available[rule.Type] {
			return rule.Type
		}
	}
	return "Line"
}
