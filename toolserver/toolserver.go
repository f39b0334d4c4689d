// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package toolserver exposes the retrieval clients as MCP tools so purple
// agents can look up filings and web results while answering a query.
package toolserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agentbeats/finbench/retrieval"
)

// Server wraps an MCP server offering the edgar_search and web_search tools.
type Server struct {
	mcpServer *mcp.Server
	edgar     *retrieval.EdgarClient
	web       *retrieval.WebClient
	logger    *slog.Logger
}

// Config configures a tool server. Edgar and Web are required.
type Config struct {
	Edgar  *retrieval.EdgarClient
	Web    *retrieval.WebClient
	Logger *slog.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		edgar:  cfg.Edgar,
		web:    cfg.Web,
		logger: logger,
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{Name: "finbench_tools", Version: "v1.0.0"}, nil)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "edgar_search",
		Description: "Full-text search over SEC EDGAR filings within a date window.",
	}, s.edgarSearch)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "web_search",
		Description: "Search the web and return organic results.",
	}, s.webSearch)
	return s
}

type EdgarSearchInput struct {
	Query     string `json:"query" jsonschema:"free-text search query"`
	StartDate string `json:"start_date" jsonschema:"inclusive start date, YYYY-MM-DD"`
	EndDate   string `json:"end_date" jsonschema:"inclusive end date, YYYY-MM-DD"`
}

type EdgarSearchOutput struct {
	Filings []map[string]any `json:"filings"`
}

func (s *Server) edgarSearch(ctx context.Context, req *mcp.CallToolRequest, input EdgarSearchInput) (*mcp.CallToolResult, EdgarSearchOutput, error) {
	filings, err := s.edgar.Search(ctx, input.Query, input.StartDate, input.EndDate)
	if err != nil {
		s.logger.WarnContext(ctx, "edgar_search tool failed", "error", err)
		return nil, EdgarSearchOutput{}, err
	}
	return nil, EdgarSearchOutput{Filings: filings}, nil
}

type WebSearchInput struct {
	Query string `json:"query" jsonschema:"web search query"`
}

type WebSearchOutput struct {
	Results []map[string]any `json:"results"`
}

func (s *Server) webSearch(ctx context.Context, req *mcp.CallToolRequest, input WebSearchInput) (*mcp.CallToolResult, WebSearchOutput, error) {
	results, err := s.web.Search(ctx, input.Query)
	if err != nil {
		s.logger.WarnContext(ctx, "web_search tool failed", "error", err)
		return nil, WebSearchOutput{}, err
	}
	return nil, WebSearchOutput{Results: results}, nil
}

// Handler serves the MCP server over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
}

// Connect attaches the server to a transport. Used for in-process clients.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, transport, nil)
}
