/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mcp

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/chartagent/chart"
)

const (
	ToolGenerateChart  = "generate_chart"
	ToolListChartTypes = "list_chart_types"

	DescGenerateChart = "Generate an interactive HTML chart from a natural language description. " +
		"Synthesizes demo data, picks a chart type from the gallery and renders pyecharts code."
	DescListChartTypes = "List the chart types available in the gallery."
)

var SchemaGenerateChart = json.RawMessage(`{
  "type": "object",
  "properties": {
    "chart_description": {
      "type": "string",
      "description": "What chart to create, e.g. 'a bar chart of monthly sales'"
    },
    "data_topic": {
      "type": "string",
      "description": "Topic for synthetic data generation; defaults to the chart description"
    },
    "data_details": {
      "type": "string",
      "description": "Extra constraints for the generated data"
    },
    "data_rows": {
      "type": "integer",
      "description": "Approximate number of data points"
    },
    "input_data_path": {
      "type": "string",
      "description": "Path to an existing JSON data file to chart instead of generating data"
    },
    "chart_type_hint": {
      "type": "string",
      "description": "Preferred chart type, e.g. 'Bar' or 'Pie'"
    }
  },
  "required": ["chart_description"]
}`)

var SchemaListChartTypes = json.RawMessage(`{
  "type": "object",
  "properties": {}
}`)

type listChartTypesRequest struct{}

type listChartTypesResponse struct {
	ChartTypes []string `json:"chart_types"`
}

func chartTools(opts ServerOptions) []Tool {
	return []Tool{
		NewTool(ToolGenerateChart, DescGenerateChart, SchemaGenerateChart,
			func(ctx context.Context, req chart.Request) (*chart.Result, error) {
				req.ApplyDefaults()
				return opts.Pipeline.Generate(ctx, &req)
			}),
		NewTool(ToolListChartTypes, DescListChartTypes, SchemaListChartTypes,
			func(ctx context.Context, _ listChartTypesRequest) (*listChartTypesResponse, error) {
				return &listChartTypesResponse{ChartTypes: opts.Gallery.Types()}, nil
			}),
	}
}
