// Copyright 2025 CloudWeGo Authors
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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloudwego/chartagent/chart"
	"github.com/cloudwego/chartagent/chart/codegen"
	"github.com/cloudwego/chartagent/chart/datagen"
	"github.com/cloudwego/chartagent/chart/gallery"
	"github.com/cloudwego/chartagent/chart/output"
	"github.com/cloudwego/chartagent/llm"
	"github.com/cloudwego/chartagent/llm/log"
	"github.com/cloudwego/chartagent/mcp"
	"github.com/cloudwego/chartagent/version"
)

const Usage = `chartagent <Action> [Flags]
Action:
   generate     generate a chart from a natural language description
   mcp          run as a MCP server exposing chart generation tools over stdio
   gallery      list the chart types available in the gallery
   version      print the version of chartagent
Environment:
   API_TYPE     LLM provider: openai, claude, ollama, ark, dashscope, deepseek
   API_KEY      provider API key
   MODEL_NAME   model endpoint name, e.g. claude-3-5-haiku-latest
   BASE_URL     custom API base URL (optional)
   CHART_GALLERY       path to the pyecharts gallery checkout
   CHART_RESULTS       directory for generated files (default: ./results)
   CHART_PYTHON        python interpreter used to render charts (default: python3)
   CHART_EXEC_TIMEOUT  chart script timeout in seconds (default: 10)
`

// Stage temperatures: data synthesis is creative, chart-type selection is
// near-deterministic, code generation sits in between.
const (
	tempDataGen   = 0.7
	tempSelection = 0.1
	tempCodeGen   = 0.3
)

func main() {
	// A .env next to the binary is honored but not required.
	_ = godotenv.Load()

	flags := flag.NewFlagSet("chartagent", flag.ExitOnError)

	flagHelp := flags.Bool("h", false, "Show help message.")
	flagVerbose := flags.Bool("verbose", false, "Verbose mode.")
	flagTopic := flags.String("topic", "", "Topic for synthetic data generation (defaults to the description).")
	flagDetails := flags.String("details", "", "Extra constraints for data generation.")
	flagRows := flags.Int("rows", 0, "Approximate number of data points.")
	flagData := flags.String("data", "", "Path to an existing JSON data file to chart.")
	flagType := flags.String("type", "", "Preferred chart type, e.g. Bar or Pie.")

	flags.Usage = func() {
		fmt.Fprint(os.Stderr, Usage)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flags.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flags.Usage()
		os.Exit(1)
	}
	action := strings.ToLower(os.Args[1])

	switch action {
	case "version":
		fmt.Fprintf(os.Stdout, "%s\n", version.Version)

	case "gallery":
		if len(os.Args) > 2 {
			flags.Parse(os.Args[2:])
		}
		gal := gallery.New(galleryDir())
		for _, typ := range gal.Types() {
			fmt.Fprintln(os.Stdout, typ)
		}

	case "generate":
		if len(os.Args) < 3 {
			flags.Usage()
			os.Exit(1)
		}
		description := os.Args[2]
		if len(os.Args) > 3 {
			flags.Parse(os.Args[3:])
		}
		if *flagHelp {
			flags.Usage()
			os.Exit(0)
		}
		if *flagVerbose {
			log.SetLogLevel(log.DebugLevel)
		}

		req := chart.NewRequest(description)
		req.DataTopic = *flagTopic
		req.DataDetails = *flagDetails
		if *flagRows > 0 {
			req.DataRows = *flagRows
		}
		req.InputDataPath = *flagData
		req.ChartTypeHint = *flagType

		p, err := newPipeline(context.Background())
		if err != nil {
			log.Error("Failed to set up pipeline: %v\n", err)
			os.Exit(1)
		}

		res, err := p.Generate(context.Background(), req)
		if err != nil {
			log.Error("Failed to generate chart: %v\n", err)
			os.Exit(1)
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			log.Error("Failed to marshal result: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "%s\n", out)
		if !res.Success {
			os.Exit(1)
		}

	case "mcp":
		if len(os.Args) > 2 {
			flags.Parse(os.Args[2:])
		}
		if *flagVerbose {
			log.SetLogLevel(log.DebugLevel)
		}

		ctx := context.Background()
		p, err := newPipeline(ctx)
		if err != nil {
			log.Error("Failed to set up pipeline: %v\n", err)
			os.Exit(1)
		}
		// Keep the gallery's type cache fresh while serving.
		if err := p.Gallery.Watch(ctx); err != nil {
			log.Info("Gallery watcher unavailable: %v\n", err)
		}

		svr := mcp.NewServer(mcp.ServerOptions{
			ServerName:    "chartagent",
			ServerVersion: version.Version,
			Pipeline:      p,
			Gallery:       p.Gallery,
		})
		if err := svr.ServeStdio(); err != nil {
			log.Error("Failed to run MCP server: %v\n", err)
			os.Exit(1)
		}

	default:
		flags.Usage()
		os.Exit(1)
	}
}

func galleryDir() string {
	if dir := os.Getenv("CHART_GALLERY"); dir != "" {
		return dir
	}
	return "pyecharts-gallery"
}

func resultsDir() string {
	if dir := os.Getenv("CHART_RESULTS"); dir != "" {
		return dir
	}
	return "results"
}

func newPipeline(ctx context.Context) (*chart.Pipeline, error) {
	base := llm.ModelConfig{
		APIType:   llm.NewModelType(os.Getenv("API_TYPE")),
		APIKey:    os.Getenv("API_KEY"),
		ModelName: os.Getenv("MODEL_NAME"),
		BaseURL:   os.Getenv("BASE_URL"),
	}
	if base.APIType == llm.ModelTypeUnknown {
		return nil, fmt.Errorf("env API_TYPE is required")
	}
	if base.ModelName == "" {
		return nil, fmt.Errorf("env MODEL_NAME is required")
	}

	dataClient, err := llm.NewClient(ctx, base.WithTemperature(tempDataGen))
	if err != nil {
		return nil, err
	}
	selectClient, err := llm.NewClient(ctx, base.WithTemperature(tempSelection))
	if err != nil {
		return nil, err
	}
	codeClient, err := llm.NewClient(ctx, base.WithTemperature(tempCodeGen))
	if err != nil {
		return nil, err
	}

	gal := gallery.New(galleryDir())
	runner := &output.Runner{Interpreter: os.Getenv("CHART_PYTHON")}
	if s := os.Getenv("CHART_EXEC_TIMEOUT"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			runner.Timeout = time.Duration(n) * time.Second
		}
	}

	return &chart.Pipeline{
		Data:     datagen.NewGenerator(dataClient),
		Selector: gallery.NewSelector(selectClient, gal),
		Gallery:  gal,
		Code:     codegen.NewGenerator(codeClient),
		Writer:   output.NewWriter(resultsDir()),
		Runner:   runner,
	}, nil
}
