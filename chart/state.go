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
	"fmt"
	"time"

	"github.com/cloudwego/chartagent/chart/datagen"
)

// Stage names one step of the generation workflow.
type Stage string

const (
	StageAnalyzeRequest Stage = "analyze_request"
	StageGenerateData   Stage = "generate_data"
	StageSearchGallery  Stage = "search_gallery"
	StageGenerateCode   Stage = "generate_code"
	StageSaveOutputs    Stage = "save_outputs"
	StageError          Stage = "error"
	StageComplete       Stage = "complete"
)

// StageMessage is an immutable log entry emitted by one stage execution.
type StageMessage struct {
	Stage   Stage     `json:"stage"`
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// OutputFiles holds the paths the output stage produced. Chart stays empty
// when execution did not materialize the HTML file.
type OutputFiles struct {
	Code  string `json:"code,omitempty"`
	Chart string `json:"chart,omitempty"`
	Data  string `json:"data,omitempty"`
}

// State is the accumulating record threaded through the workflow graph. Each
// invocation gets a fresh State; stages mutate it in sequence, never
// concurrently, and each stage consumes only fields prior stages populated.
type State struct {
	RunID   string
	Request *Request

	Messages     []StageMessage
	CurrentStage Stage

	// Data related
	DataSource string // path of the saved dataset, or "" when fallback data was used
	Dataset    *datagen.Dataset

	// Gallery related
	ChartType       string
	ExampleCode     string
	SelectionReason string

	// Code generation related
	GeneratedCode string

	// Results
	OutputFiles OutputFiles
	Errors      []string
	Warnings    []string
}

func (s *State) AddMessage(stage Stage, format string, args ...interface{}) {
	s.Messages = append(s.Messages, StageMessage{
		Stage:   stage,
		Content: fmt.Sprintf(format, args...),
		Time:    time.Now(),
	})
}

func (s *State) AddWarning(format string, args ...interface{}) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

func (s *State) AddError(format string, args ...interface{}) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// Failed reports whether any stage recorded a hard error. Warnings do not
// count; stages that fell back to deterministic output keep the run alive.
func (s *State) Failed() bool {
	return len(s.Errors) > 0
}

// Result is the record handed to the presentation layer.
type Result struct {
	RunID         string         `json:"run_id"`
	Success       bool           `json:"success"`
	ChartType     string         `json:"chart_type,omitempty"`
	DataSource    string         `json:"data_source,omitempty"`
	OutputFiles   OutputFiles    `json:"output_files"`
	GeneratedCode string         `json:"generated_code,omitempty"`
	Messages      []StageMessage `json:"messages,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Result projects the final state into the externally visible record.
func (s *State) Result() *Result {
	return &Result{
		RunID:         s.RunID,
		Success:       !s.Failed(),
		ChartType:     s.ChartType,
		DataSource:    s.DataSource,
		OutputFiles:   s.OutputFiles,
		GeneratedCode: s.GeneratedCode,
		Messages:      s.Messages,
		Errors:        s.Errors,
		Warnings:      s.Warnings,
	}
}
