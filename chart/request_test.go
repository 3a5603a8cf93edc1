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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestDefaults(t *testing.T) {
	r := NewRequest("a line chart")
	assert.Equal(t, DefaultDataRows, r.DataRows)
	assert.Equal(t, DefaultOutputChartPath, r.OutputChartPath)
	assert.Equal(t, DefaultOutputCodePath, r.OutputCodePath)
}

func TestApplyDefaultsOnBoundRequest(t *testing.T) {
	// A request decoded from an external payload carries only the description.
	r := &Request{ChartDescription: "a line chart"}
	r.ApplyDefaults()
	assert.Equal(t, DefaultOutputChartPath, r.OutputChartPath)
	assert.Equal(t, DefaultOutputCodePath, r.OutputCodePath)
	assert.Zero(t, r.DataRows)
	assert.Equal(t, 20, r.Rows())

	r = &Request{ChartDescription: "x", OutputChartPath: "custom.html", OutputCodePath: "custom.py"}
	r.ApplyDefaults()
	assert.Equal(t, "custom.html", r.OutputChartPath)
	assert.Equal(t, "custom.py", r.OutputCodePath)
}

func TestRequestTopicAndRows(t *testing.T) {
	r := NewRequest("monthly sales")
	assert.Equal(t, "monthly sales", r.Topic())
	r.DataTopic = "retail revenue"
	assert.Equal(t, "retail revenue", r.Topic())

	assert.Equal(t, DefaultDataRows, r.Rows())
	r.DataRows = 0
	assert.Equal(t, 20, r.Rows())
}
