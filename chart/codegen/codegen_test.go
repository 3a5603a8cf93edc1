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

package codegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/chartagent/chart/datagen"
)

type generatorFunc func(ctx context.Context, system, user string) (string, error)

func (f generatorFunc) Call(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func testDataset(t *testing.T) *datagen.Dataset {
	t.Helper()
	ds, err := datagen.ParseDataset(`{"months": ["Jan", "Feb"], "sales": [10, 20]}`)
	require.NoError(t, err)
	return ds
}

func TestGenerateStripsFences(t *testing.T) {
	var seenUser string
	g := NewGenerator(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		seenUser = user
		return "```python\nfrom pyecharts.charts import Bar\n```", nil
	}))

	code, err := g.Generate(context.Background(), Input{
		Description: "monthly sales",
		Dataset:     testDataset(t),
		ChartType:   "Bar",
		ExampleCode: "example body",
		OutputPath:  `C:\out\chart.html`,
	})
	require.NoError(t, err)
	assert.Equal(t, "from pyecharts.charts import Bar", code)

	assert.Contains(t, seenUser, "monthly sales")
	assert.Contains(t, seenUser, `"months"`)
	assert.Contains(t, seenUser, "example body")
	assert.Contains(t, seenUser, "C:/out/chart.html") // backslashes normalized
}

func TestGenerateErrors(t *testing.T) {
	g := NewGenerator(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("api down")
	}))
	_, err := g.Generate(context.Background(), Input{Dataset: testDataset(t)})
	assert.Error(t, err)

	g = NewGenerator(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "```python\n\n```", nil
	}))
	_, err = g.Generate(context.Background(), Input{Dataset: testDataset(t)})
	assert.Error(t, err)
}

func TestFallbackUsesFirstTwoFields(t *testing.T) {
	code := Fallback("Bar", testDataset(t), "out.html")
	assert.Contains(t, code, "from pyecharts.charts import Bar")
	assert.Contains(t, code, `x_data = ["Jan", "Feb"]`)
	assert.Contains(t, code, "y_data = [10, 20]")
	assert.Contains(t, code, `.render("out.html")`)
}

func TestFallbackUnknownTypeDegradesToLine(t *testing.T) {
	code := Fallback("Sankey", testDataset(t), "out.html")
	assert.Contains(t, code, "from pyecharts.charts import Line")

	code = Fallback("", nil, "out.html")
	assert.Contains(t, code, "from pyecharts.charts import Line")
	assert.Contains(t, code, `x_data = ["A", "B", "C"]`)
}
