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

// Package codegen turns a dataset and a gallery example into pyecharts code.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/chartagent/chart/datagen"
	"github.com/cloudwego/chartagent/internal/utils"
	"github.com/cloudwego/chartagent/llm"
	"github.com/cloudwego/chartagent/llm/prompt"
)

// Input carries everything the generator needs for one chart.
type Input struct {
	Description string
	Dataset     *datagen.Dataset
	ChartType   string
	ExampleCode string
	OutputPath  string // target HTML path written into .render(...)
}

// Generator produces pyecharts Python code with one model call.
type Generator struct {
	llm llm.Generator
}

func NewGenerator(g llm.Generator) *Generator {
	return &Generator{llm: g}
}

// Generate asks the model for chart code following the example's structure.
// The reply is stripped of markdown fences. Callers fall back to Fallback()
// when the call fails or the reply is empty.
func (g *Generator) Generate(ctx context.Context, in Input) (string, error) {
	dataJSON, err := in.Dataset.PrettyJSON()
	if err != nil {
		return "", utils.WrapError(err, "marshal dataset for prompt")
	}

	user := fmt.Sprintf(`Generate PyEcharts code for: %s

Data to visualize:
%s

Requirements:
1. Convert the JSON data to simple Python lists (x_data, y_data, etc.)
2. Use the %s chart type
3. Follow EXACT PyEcharts gallery structure
4. Set output to: %s
5. Apply an appropriate theme using ThemeType (pick from: LIGHT, DARK, WHITE, CHALK, ESSOS, INFOGRAPHIC, MACARONS, PURPLE_PASSION, ROMA, ROMANTIC, SHINE, VINTAGE, WALDEN, WESTEROS, WONDERLAND, HALLOWEEN)
6. NO pandas, NO csv reading, NO complex imports

Follow this EXACT structure (but with your data):
%s

Use simple, short and professional labels for the chart, and keep the chart
title an empty string.`,
		in.Description, dataJSON, in.ChartType,
		strings.ReplaceAll(in.OutputPath, `\`, "/"), in.ExampleCode)

	reply, err := g.llm.Call(ctx, prompt.PromptCodeGenerator, user)
	if err != nil {
		return "", utils.WrapError(err, "code generation call failed")
	}
	code := llm.CleanCodeResponse(reply)
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("model returned empty code")
	}
	return code, nil
}

// Fallback renders a minimal chart from the first two dataset fields. Only
// the four basic chart classes are safe to emit blind; everything else
// degrades to Line.
func Fallback(chartType string, ds *datagen.Dataset, outputPath string) string {
	class := "Line"
	switch chartType {
	case "Bar", "Pie", "Scatter":
		class = chartType
	}

	x, y := ds.XY()
	return fmt.Sprintf(`from pyecharts import options as opts
from pyecharts.charts import %s

x_data = %s
y_data = %s

(
    %s()
    .add_xaxis(x_data)
    .add_yaxis("", y_data)
    .set_global_opts(
        title_opts=opts.TitleOpts(title="Chart")
    )
    .render(%q)
)
`, class, x.PyLiteral(), y.PyLiteral(), class, outputPath)
}
