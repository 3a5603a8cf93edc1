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
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/chartagent/chart/codegen"
	"github.com/cloudwego/chartagent/chart/datagen"
	"github.com/cloudwego/chartagent/chart/gallery"
	"github.com/cloudwego/chartagent/chart/output"
)

type generatorFunc func(ctx context.Context, system, user string) (string, error)

func (f generatorFunc) Call(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func erroringGenerator(msg string) generatorFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New(msg)
	}
}

func cannedGenerator(reply string) generatorFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		return reply, nil
	}
}

func testGalleryDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, typ := range []string{"Line", "Bar", "Pie"} {
		path := filepath.Join(dir, typ, "basic.py")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(typ+" example"), 0o644))
	}
	return dir
}

// newTestPipeline wires a pipeline whose runner is a POSIX shell; the canned
// "code" touches its sibling .html file the way a real pyecharts render would.
func newTestPipeline(t *testing.T, data, selector, code generatorFunc) *Pipeline {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh-based pipeline tests need a POSIX shell")
	}
	gal := gallery.New(testGalleryDir(t))
	return &Pipeline{
		Data:     datagen.NewGenerator(data),
		Selector: gallery.NewSelector(selector, gal),
		Gallery:  gal,
		Code:     codegen.NewGenerator(code),
		Writer:   output.NewWriter(t.TempDir()),
		Runner:   &output.Runner{Interpreter: "sh", Timeout: 5 * time.Second},
		Now:      func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) },
	}
}

const renderingShellCode = `touch "${0%.py}.html"`

func TestGenerateHappyPath(t *testing.T) {
	p := newTestPipeline(t,
		cannedGenerator(`{"months": ["Jan", "Feb"], "sales": [10, 20]}`),
		cannedGenerator("Bar"),
		cannedGenerator(renderingShellCode),
	)

	res, err := p.Generate(context.Background(), NewRequest("monthly sales bar chart"))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Bar", res.ChartType)

	assert.Equal(t, "chart_20250314_092653.py", filepath.Base(res.OutputFiles.Code))
	assert.FileExists(t, res.OutputFiles.Code)
	assert.Equal(t, "chart_20250314_092653.html", filepath.Base(res.OutputFiles.Chart))
	assert.FileExists(t, res.OutputFiles.Chart)
	assert.Equal(t, "data_20250314_092653.json", filepath.Base(res.OutputFiles.Data))
	assert.FileExists(t, res.OutputFiles.Data)

	stages := map[Stage]bool{}
	for _, m := range res.Messages {
		stages[m.Stage] = true
	}
	for _, st := range []Stage{StageAnalyzeRequest, StageGenerateData, StageSearchGallery, StageGenerateCode, StageSaveOutputs} {
		assert.True(t, stages[st], "missing message for stage %s", st)
	}
}

func TestGenerateEmptyDescriptionFails(t *testing.T) {
	p := newTestPipeline(t,
		erroringGenerator("must not be called"),
		erroringGenerator("must not be called"),
		erroringGenerator("must not be called"),
	)

	res, err := p.Generate(context.Background(), NewRequest("   "))
	require.NoError(t, err)

	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "description is empty")
	assert.Empty(t, res.ChartType)
	assert.Empty(t, res.OutputFiles.Code)
}

func TestGenerateSurvivesAllModelFailures(t *testing.T) {
	p := newTestPipeline(t,
		erroringGenerator("data api down"),
		erroringGenerator("selector api down"),
		erroringGenerator("codegen api down"),
	)

	res, err := p.Generate(context.Background(), NewRequest("pie chart of market share"))
	require.NoError(t, err)

	// Model failures degrade to fallbacks, the run still succeeds.
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Warnings)

	// "pie" in the description resolves via keyword matching.
	assert.Equal(t, "Pie", res.ChartType)
	assert.Contains(t, res.GeneratedCode, "from pyecharts.charts import Pie")
	assert.Contains(t, res.GeneratedCode, `["Jan", "Feb", "Mar", "Apr", "May", "Jun"]`)

	// The fallback python cannot run under sh, so the chart never appears
	// but the code file is still kept.
	assert.FileExists(t, res.OutputFiles.Code)
	assert.Empty(t, res.OutputFiles.Chart)
	assert.Empty(t, res.OutputFiles.Data) // fallback data is not saved
}

func TestGenerateBarChartDescriptionWithErroringModels(t *testing.T) {
	p := newTestPipeline(t,
		erroringGenerator("api down"),
		erroringGenerator("api down"),
		erroringGenerator("api down"),
	)

	res, err := p.Generate(context.Background(), NewRequest("Create a bar chart showing monthly sales trends"))
	require.NoError(t, err)

	assert.True(t, res.Success)
	// "trend" precedes "bar" in the keyword table.
	assert.Equal(t, "Line", res.ChartType)
	assert.Contains(t, res.GeneratedCode, `[100, 120, 115, 140, 135, 160]`)
	assert.FileExists(t, res.OutputFiles.Code)
}

func TestGenerateHonorsChartTypeHint(t *testing.T) {
	p := newTestPipeline(t,
		cannedGenerator(`{"x": [1], "y": [2]}`),
		erroringGenerator("selector must not be called"),
		cannedGenerator(renderingShellCode),
	)

	req := NewRequest("some numbers")
	req.ChartTypeHint = "pie"
	res, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Pie", res.ChartType)
}

func TestGenerateLoadsInputDataFile(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"regions": ["EU"], "sales": [7]}`), 0o644))

	p := newTestPipeline(t,
		erroringGenerator("data generator must not be called"),
		cannedGenerator("Bar"),
		cannedGenerator(renderingShellCode),
	)

	req := NewRequest("sales by region")
	req.InputDataPath = dataPath
	res, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, dataPath, res.DataSource)
	assert.Equal(t, dataPath, res.OutputFiles.Data)
}

func TestGenerateExecutionFailureIsWarning(t *testing.T) {
	p := newTestPipeline(t,
		cannedGenerator(`{"x": ["a"], "y": [1]}`),
		cannedGenerator("Line"),
		cannedGenerator("exit 7"),
	)

	res, err := p.Generate(context.Background(), NewRequest("a line chart"))
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "execution had issues")
	assert.FileExists(t, res.OutputFiles.Code)
	assert.Empty(t, res.OutputFiles.Chart)
}
