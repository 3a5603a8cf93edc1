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

package chart

// Request is a user request for chart generation. It is immutable once
// constructed; stages only read it.
type Request struct {
	ChartDescription string `json:"chart_description"`          // what chart to create
	DataTopic        string `json:"data_topic,omitempty"`       // topic for synthetic data generation
	DataDetails      string `json:"data_details,omitempty"`     // extra details for data generation
	DataRows         int    `json:"data_rows,omitempty"`        // approximate number of rows, default 50
	InputDataPath    string `json:"input_data_path,omitempty"`  // path to existing data file
	OutputChartPath  string `json:"output_chart_path,omitempty"`
	OutputCodePath   string `json:"output_code_path,omitempty"`
	ChartTypeHint    string `json:"chart_type_hint,omitempty"` // optional chart type preference
}

const (
	DefaultDataRows        = 50
	DefaultOutputChartPath = "output_chart.html"
	DefaultOutputCodePath  = "generated_chart.py"
)

// NewRequest builds a Request for description with defaults filled in.
func NewRequest(description string) *Request {
	r := &Request{
		ChartDescription: description,
		DataRows:         DefaultDataRows,
	}
	r.ApplyDefaults()
	return r
}

// ApplyDefaults fills empty output paths with their defaults. Requests bound
// from external payloads go through here so the code generation prompt never
// carries an empty target path. Row count is left alone: zero means "use the
// stage default".
func (r *Request) ApplyDefaults() {
	if r.OutputChartPath == "" {
		r.OutputChartPath = DefaultOutputChartPath
	}
	if r.OutputCodePath == "" {
		r.OutputCodePath = DefaultOutputCodePath
	}
}

// Topic is the subject used for data synthesis: the explicit data topic when
// given, otherwise the chart description itself.
func (r *Request) Topic() string {
	if r.DataTopic != "" {
		return r.DataTopic
	}
	return r.ChartDescription
}

// Rows is the requested row count, defaulting to 20 when unset (the data
// synthesizer works with small series).
func (r *Request) Rows() int {
	if r.DataRows > 0 {
		return r.DataRows
	}
	return 20
}
