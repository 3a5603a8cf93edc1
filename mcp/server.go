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

// Package mcp exposes chart generation as Model Context Protocol tools over
// stdio, so any MCP-capable client can drive the pipeline.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cloudwego/chartagent/chart"
	"github.com/cloudwego/chartagent/chart/gallery"
	"github.com/cloudwego/chartagent/internal/utils"
)

type ServerOptions struct {
	ServerName    string
	ServerVersion string

	Pipeline *chart.Pipeline
	Gallery  *gallery.Gallery
}

type Tool struct {
	mcp.Tool
	Handler server.ToolHandlerFunc
}

type Server struct {
	Server *server.MCPServer
}

func NewServer(opts ServerOptions) *Server {
	s := server.NewMCPServer(opts.ServerName, opts.ServerVersion)
	for _, t := range chartTools(opts) {
		s.AddTool(t.Tool, t.Handler)
	}
	return &Server{Server: s}
}

// ServeStdio blocks serving requests on stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.Server)
}

// NewTool wraps a typed handler into an MCP tool: arguments are bound into
// R, and both results and errors come back as a single text content item.
func NewTool[R any, T any](name string, desc string, schema json.RawMessage, handler func(ctx context.Context, req R) (*T, error)) Tool {
	return Tool{
		Tool: mcp.NewToolWithRawSchema(name, desc, schema),
		Handler: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var req R
			if err := request.BindArguments(&req); err != nil {
				return nil, err
			}
			var final string
			var isError bool
			if resp, err := handler(ctx, req); err != nil {
				isError = true
				final = err.Error()
			} else if js, err := utils.MarshalJSONBytes(resp); err != nil {
				isError = true
				final = err.Error()
			} else {
				final = string(js)
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent(final),
				},
				IsError: isError,
			}, nil
		},
	}
}
