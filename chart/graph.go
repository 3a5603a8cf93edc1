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
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/cloudwego/chartagent/chart/codegen"
	"github.com/cloudwego/chartagent/chart/datagen"
	"github.com/cloudwego/chartagent/chart/gallery"
	"github.com/cloudwego/chartagent/chart/output"
	"github.com/cloudwego/chartagent/internal/utils"
	"github.com/cloudwego/chartagent/llm/log"
)

// Graph node names.
const (
	nodeAnalyze      = "analyze_request"
	nodeGenerateData = "generate_data"
	nodeSearch       = "search_gallery"
	nodeGenerateCode = "generate_code"
	nodeSaveOutputs  = "save_outputs"
	nodeErrorHandler = "error_handler"
	nodeFinalize     = "finalize"
)

// Pipeline bundles the stage services and compiles them into a workflow
// graph. Stages that depend on the model degrade to deterministic fallbacks
// with a warning; only an unusable request or an unwritable results
// directory fails a run.
type Pipeline struct {
	Data     *datagen.Generator
	Selector *gallery.Selector
	Gallery  *gallery.Gallery
	Code     *codegen.Generator
	Writer   *output.Writer
	Runner   *output.Runner

	// Now stamps output filenames; tests pin it. Nil means time.Now.
	Now func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Generate runs one request through a freshly compiled graph.
func (p *Pipeline) Generate(ctx context.Context, req *Request) (*Result, error) {
	g, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}
	return g.Invoke(ctx, req)
}

// Build compiles the workflow graph:
//
//	analyze_request -> generate_data -> search_gallery -> generate_code -> save_outputs -> finalize
//
// with a branch after every stage that routes to error_handler once the
// state carries an error. All stage work happens against the graph-local
// *State; node payloads are only stage names.
func (p *Pipeline) Build(ctx context.Context) (compose.Runnable[*Request, *Result], error) {
	g := compose.NewGraph[*Request, *Result](compose.WithGenLocalState(func(ctx context.Context) *State {
		return &State{RunID: uuid.NewString()}
	}))

	if err := g.AddLambdaNode(nodeAnalyze, compose.InvokableLambda(p.analyzeRequest)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeGenerateData, compose.InvokableLambda(p.generateData)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeSearch, compose.InvokableLambda(p.searchGallery)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeGenerateCode, compose.InvokableLambda(p.generateCode)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeSaveOutputs, compose.InvokableLambda(p.saveOutputs)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeErrorHandler, compose.InvokableLambda(p.handleError)); err != nil {
		return nil, err
	}
	if err := g.AddLambdaNode(nodeFinalize, compose.InvokableLambda(p.finalize)); err != nil {
		return nil, err
	}

	if err := g.AddEdge(compose.START, nodeAnalyze); err != nil {
		return nil, err
	}
	for _, hop := range [][2]string{
		{nodeAnalyze, nodeGenerateData},
		{nodeGenerateData, nodeSearch},
		{nodeSearch, nodeGenerateCode},
		{nodeGenerateCode, nodeSaveOutputs},
		{nodeSaveOutputs, nodeFinalize},
	} {
		if err := g.AddBranch(hop[0], continueOrFail(hop[1])); err != nil {
			return nil, err
		}
	}
	if err := g.AddEdge(nodeErrorHandler, nodeFinalize); err != nil {
		return nil, err
	}
	if err := g.AddEdge(nodeFinalize, compose.END); err != nil {
		return nil, err
	}

	return g.Compile(ctx)
}

// continueOrFail routes to next while the state is clean and to the error
// handler once any stage recorded a hard error.
func continueOrFail(next string) *compose.GraphBranch {
	return compose.NewGraphBranch(func(ctx context.Context, _ string) (string, error) {
		failed := false
		if err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
			failed = s.Failed()
			return nil
		}); err != nil {
			return "", err
		}
		if failed {
			return nodeErrorHandler, nil
		}
		return next, nil
	}, map[string]bool{next: true, nodeErrorHandler: true})
}

func (p *Pipeline) analyzeRequest(ctx context.Context, req *Request) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.Request = req
		s.CurrentStage = StageAnalyzeRequest
		if req == nil || strings.TrimSpace(req.ChartDescription) == "" {
			s.AddError("chart description is empty")
			return nil
		}
		log.Info("[%s] analyzing request: %s", s.RunID, req.ChartDescription)
		if err := os.MkdirAll(p.Writer.Dir(), 0755); err != nil {
			s.AddError("cannot create results directory %s: %v", p.Writer.Dir(), err)
			return nil
		}
		s.AddMessage(StageAnalyzeRequest,
			"request analyzed: description=%q topic=%q rows=%d",
			req.ChartDescription, req.Topic(), req.Rows())
		return nil
	})
	return nodeAnalyze, err
}

func (p *Pipeline) generateData(ctx context.Context, _ string) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.CurrentStage = StageGenerateData
		req := s.Request

		if req.InputDataPath != "" {
			if ds, err := loadDataset(req.InputDataPath); err == nil {
				s.Dataset = ds
				s.DataSource = req.InputDataPath
				s.AddMessage(StageGenerateData, "loaded %d fields from %s", len(ds.Fields), req.InputDataPath)
				return nil
			} else {
				s.AddWarning("cannot load data from %s: %v, generating instead", req.InputDataPath, err)
			}
		}

		ds, err := p.Data.Generate(ctx, req.Topic(), req.DataDetails, req.Rows())
		if err != nil {
			log.Error("[%s] data generation failed: %v", s.RunID, err)
			s.AddWarning("data generation error: %v", err)
			s.Dataset = datagen.Fallback()
			s.AddMessage(StageGenerateData, "using fallback data due to error: %v", err)
			return nil
		}
		s.Dataset = ds

		if path, err := p.Writer.SaveData(ds, p.now()); err != nil {
			s.AddWarning("cannot save dataset: %v", err)
		} else {
			s.DataSource = path
		}
		s.AddMessage(StageGenerateData, "generated data with %d fields and about %d points",
			len(ds.Fields), ds.Points())
		return nil
	})
	return nodeGenerateData, err
}

func (p *Pipeline) searchGallery(ctx context.Context, _ string) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.CurrentStage = StageSearchGallery
		req := s.Request

		chartType, reason := p.Selector.Select(ctx, req.ChartDescription, req.ChartTypeHint)
		s.ChartType = chartType
		s.SelectionReason = reason
		s.ExampleCode = p.Gallery.Example(chartType)
		s.AddMessage(StageSearchGallery, "selected %s chart (%s) from %d available types",
			chartType, reason, len(p.Gallery.Types()))
		return nil
	})
	return nodeSearch, err
}

func (p *Pipeline) generateCode(ctx context.Context, _ string) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.CurrentStage = StageGenerateCode
		req := s.Request

		code, err := p.Code.Generate(ctx, codegen.Input{
			Description: req.ChartDescription,
			Dataset:     s.Dataset,
			ChartType:   s.ChartType,
			ExampleCode: s.ExampleCode,
			OutputPath:  req.OutputChartPath,
		})
		if err != nil {
			log.Error("[%s] code generation failed: %v", s.RunID, err)
			s.AddWarning("code generation error: %v", err)
			code = codegen.Fallback(s.ChartType, s.Dataset, req.OutputChartPath)
			s.AddMessage(StageGenerateCode, "using fallback code due to error: %v", err)
		} else {
			s.AddMessage(StageGenerateCode, "generated visualization code (%d chars)", len(code))
		}
		s.GeneratedCode = code
		return nil
	})
	return nodeGenerateCode, err
}

func (p *Pipeline) saveOutputs(ctx context.Context, _ string) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.CurrentStage = StageSaveOutputs

		if strings.TrimSpace(s.GeneratedCode) == "" {
			s.AddWarning("no code to save")
			s.OutputFiles.Data = s.DataSource
			return nil
		}

		saved, err := p.Writer.Save(s.GeneratedCode, p.now())
		if err != nil {
			s.AddError("cannot save generated code: %v", err)
			return nil
		}
		s.OutputFiles.Code = saved.CodePath
		s.OutputFiles.Data = s.DataSource

		out, err := p.Runner.Run(ctx, saved.CodePath)
		if err != nil {
			log.Error("[%s] chart execution failed: %v", s.RunID, err)
			if out != "" {
				s.AddWarning("code saved but execution had issues: %v: %s", err, out)
			} else {
				s.AddWarning("code saved but execution had issues: %v", err)
			}
		}
		if utils.FileExists(saved.ChartPath) {
			s.OutputFiles.Chart = saved.ChartPath
			s.AddMessage(StageSaveOutputs, "chart created at %s", saved.ChartPath)
		} else {
			s.AddMessage(StageSaveOutputs, "code saved to %s, chart was not rendered", saved.CodePath)
		}
		return nil
	})
	return nodeSaveOutputs, err
}

func (p *Pipeline) handleError(ctx context.Context, _ string) (string, error) {
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		s.CurrentStage = StageError
		s.AddMessage(StageError, "process encountered errors: %s", strings.Join(s.Errors, "; "))
		return nil
	})
	return nodeErrorHandler, err
}

func (p *Pipeline) finalize(ctx context.Context, _ string) (*Result, error) {
	var res *Result
	err := compose.ProcessState(ctx, func(ctx context.Context, s *State) error {
		if !s.Failed() {
			s.CurrentStage = StageComplete
		}
		res = s.Result()
		return nil
	})
	return res, err
}

func loadDataset(path string) (*datagen.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return datagen.ParseDataset(string(raw))
}
