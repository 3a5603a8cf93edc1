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

// Package prompt holds the system instructions for the three model-backed
// pipeline stages.
package prompt

import _ "embed"

// PromptDataGenerator instructs the model to emit a visualization-ready
// JSON dataset.
//
//go:embed datagen.md
var PromptDataGenerator string

// PromptChartSelector instructs the model to pick one chart type name from
// the gallery listing.
//
//go:embed selector.md
var PromptChartSelector string

// PromptCodeGenerator constrains generated pyecharts code to the exact
// gallery structure.
//
//go:embed codegen.md
var PromptCodeGenerator string
