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

// Package output persists generated chart code and runs it with a Python
// interpreter to materialize the HTML chart.
package output

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/chartagent/chart/datagen"
	"github.com/cloudwego/chartagent/internal/utils"
	"github.com/cloudwego/chartagent/llm/log"
)

// renderCallRE matches the .render("...") call in generated code so the
// output path can be pinned to the results directory. Generated code is
// expected to contain exactly one render call; all occurrences are rewritten.
var renderCallRE = regexp.MustCompile(`\.render\(["'].*?["']\)`)

const timestampLayout = "20060102_150405"

// Saved describes the code artifacts one run produced.
type Saved struct {
	CodePath  string // chart_<ts>.py, always set on success
	ChartPath string // chart_<ts>.html, the path the code will render to
}

// Writer saves run artifacts under a results directory.
type Writer struct {
	dir string
}

func NewWriter(resultsDir string) *Writer {
	return &Writer{dir: resultsDir}
}

func (w *Writer) Dir() string { return w.dir }

func (w *Writer) absDir() (string, error) {
	abs, err := filepath.Abs(w.dir)
	if err != nil {
		return "", utils.WrapError(err, "resolve results dir")
	}
	return abs, nil
}

// Save writes code to chart_<timestamp>.py with its render call rewritten to
// the absolute chart_<timestamp>.html path.
func (w *Writer) Save(code string, ts time.Time) (*Saved, error) {
	stamp := ts.Format(timestampLayout)
	absDir, err := w.absDir()
	if err != nil {
		return nil, err
	}
	saved := &Saved{
		CodePath:  filepath.Join(absDir, "chart_"+stamp+".py"),
		ChartPath: filepath.Join(absDir, "chart_"+stamp+".html"),
	}

	rewritten := renderCallRE.ReplaceAllString(code,
		fmt.Sprintf(".render(%q)", filepath.ToSlash(saved.ChartPath)))
	if rewritten == code && !renderCallRE.MatchString(code) {
		log.Info("generated code has no .render() call, chart will not be written")
	}

	if err := utils.MustWriteFile(saved.CodePath, []byte(rewritten)); err != nil {
		return nil, utils.WrapError(err, "write code file")
	}
	log.Debug("saved generated code to %s", saved.CodePath)
	return saved, nil
}

// SaveData writes the dataset to data_<timestamp>.json for reference and
// returns its absolute path.
func (w *Writer) SaveData(ds *datagen.Dataset, ts time.Time) (string, error) {
	absDir, err := w.absDir()
	if err != nil {
		return "", err
	}
	data, err := ds.PrettyJSON()
	if err != nil {
		return "", utils.WrapError(err, "marshal dataset")
	}
	path := filepath.Join(absDir, "data_"+ts.Format(timestampLayout)+".json")
	if err := utils.MustWriteFile(path, data); err != nil {
		return "", utils.WrapError(err, "write data file")
	}
	return path, nil
}

// Runner executes a saved code file with a Python interpreter.
type Runner struct {
	Interpreter string        // defaults to "python3"
	Timeout     time.Duration // defaults to 10s
}

// DefaultTimeout bounds chart script execution; pyecharts renders are fast,
// anything longer means the script hangs.
const DefaultTimeout = 10 * time.Second

// Run executes codePath from its own directory. A non-zero exit or timeout
// returns the combined output and an error; callers record it as a warning
// since the code file itself is already saved.
func (r *Runner) Run(ctx context.Context, codePath string) (string, error) {
	interp := r.Interpreter
	if interp == "" {
		interp = "python3"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, interp, codePath)
	cmd.Dir = filepath.Dir(codePath)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("execution timed out after %s", timeout)
	}
	if err != nil {
		return output, utils.WrapErrorf(err, "execute %s", filepath.Base(codePath))
	}
	return output, nil
}
