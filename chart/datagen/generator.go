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

package datagen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/chartagent/internal/utils"
	"github.com/cloudwego/chartagent/llm"
	"github.com/cloudwego/chartagent/llm/prompt"
)

// Generator synthesizes a small demo dataset for a topic with one model call.
type Generator struct {
	llm llm.Generator
}

func NewGenerator(g llm.Generator) *Generator {
	return &Generator{llm: g}
}

// Generate asks the model for a JSON object of parallel arrays about topic
// with roughly rows points. The reply is fence-stripped and brace-matched
// before parsing; callers fall back to Fallback() on error.
func (g *Generator) Generate(ctx context.Context, topic, details string, rows int) (*Dataset, error) {
	user := fmt.Sprintf(`Generate data for: %s

Requirements:
- About %d data points
- Include a time or category dimension for the x-axis
- Include numeric values for the y-axis
- Make the data interesting with trends and variations

Output format: JSON object with arrays for each field
Example structure: {"months": ["Jan", "Feb", ...], "sales": [100, 120, ...]}`, topic, rows)
	if details != "" {
		user += "\n\nAdditional details: " + details
	}

	reply, err := g.llm.Call(ctx, prompt.PromptDataGenerator, user)
	if err != nil {
		return nil, utils.WrapError(err, "data generation call failed")
	}
	raw := llm.ExtractJSONObject(reply)
	if raw == "" {
		return nil, fmt.Errorf("model reply contains no JSON object")
	}
	ds, err := ParseDataset(raw)
	if err != nil {
		return nil, utils.WrapError(err, "parse generated dataset")
	}
	return ds, nil
}

// Fallback is the deterministic dataset used when synthesis fails: six
// months of a mildly trending series.
func Fallback() *Dataset {
	return &Dataset{Fields: []Field{
		{Name: "labels", Values: column("Jan", "Feb", "Mar", "Apr", "May", "Jun")},
		{Name: "values", Values: column(
			json.Number("100"), json.Number("120"), json.Number("115"),
			json.Number("140"), json.Number("135"), json.Number("160"))},
	}}
}

func column(vs ...interface{}) []interface{} { return vs }
