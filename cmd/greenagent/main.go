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

// The greenagent command runs the finance benchmark green agent: an A2A
// service that evaluates a target agent against the benchmark dataset,
// plus an MCP tool server offering retrieval tools.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/agentbeats/finbench/benchmark"
	"github.com/agentbeats/finbench/config"
	"github.com/agentbeats/finbench/evaluation"
	"github.com/agentbeats/finbench/evaluation/llmjudge"
	"github.com/agentbeats/finbench/llm/gemini"
	"github.com/agentbeats/finbench/retrieval"
	"github.com/agentbeats/finbench/server"
	"github.com/agentbeats/finbench/target"
	"github.com/agentbeats/finbench/toolserver"
)

type serveFlags struct {
	host      string
	port      int
	cardURL   string
	dataPath  string
	toolsPort int
}

var flags serveFlags

var rootCmd = &cobra.Command{
	Use:   "greenagent",
	Short: "Runs the finance benchmark green agent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return flags.run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&flags.host, "host", "127.0.0.1", "Host to bind the server")
	rootCmd.Flags().IntVar(&flags.port, "port", 9009, "Port to bind the server")
	rootCmd.Flags().StringVar(&flags.cardURL, "card-url", "", "URL to advertise in the agent card")
	rootCmd.Flags().StringVar(&flags.dataPath, "data-path", "", "Path to the benchmark dataset (overrides DATA_PATH)")
	rootCmd.Flags().IntVar(&flags.toolsPort, "tools-port", 9020, "MCP tool server port (0 to disable)")
}

func (f *serveFlags) run(ctx context.Context) error {
	settings := config.FromEnv()
	logger := settings.NewLogger()
	slog.SetDefault(logger)

	dataPath := settings.DataPath
	if f.dataPath != "" {
		dataPath = f.dataPath
	}
	store, err := benchmark.Load(dataPath)
	if err != nil {
		return fmt.Errorf("loading benchmark dataset: %w", err)
	}
	logger.Info("benchmark dataset loaded", "path", dataPath, "items", store.Len())

	model, err := gemini.NewModel(ctx, settings.JudgeModel, &genai.ClientConfig{
		APIKey:      settings.JudgeAPIKey,
		HTTPOptions: genai.HTTPOptions{BaseURL: settings.JudgeBaseURL},
	})
	if err != nil {
		return fmt.Errorf("creating judge model: %w", err)
	}

	orchestrator := evaluation.New(evaluation.Config{
		Store: store,
		Target: target.NewClient(target.Config{
			Logger: logger,
		}),
		Scorer: llmjudge.NewJudge(llmjudge.Config{
			Model:       model,
			Temperature: settings.JudgeTemperature,
			Logger:      logger,
		}),
		Logger: logger,
	})

	cardURL := f.cardURL
	if cardURL == "" {
		cardURL = fmt.Sprintf("http://%s:%d%s", f.host, f.port, server.InvokePath)
	}
	router := server.NewRouter(server.HandlerConfig{
		ExecutorConfig: server.ExecutorConfig{Evaluator: orchestrator, Logger: logger},
		AgentCard:      server.NewAgentCard(cardURL),
	})

	if f.toolsPort != 0 {
		tools := toolserver.New(toolserver.Config{
			Edgar: retrieval.NewEdgarClient(retrieval.EdgarConfig{
				Endpoint: settings.EdgarURL,
				APIKey:   settings.EdgarAPIKey,
				Logger:   logger,
			}),
			Web: retrieval.NewWebClient(retrieval.WebConfig{
				Endpoint: settings.WebSearchURL,
				APIKey:   settings.SerpAPIKey,
				Logger:   logger,
			}),
			Logger: logger,
		})
		toolsAddr := fmt.Sprintf("%s:%d", f.host, f.toolsPort)
		go func() {
			logger.Info("starting MCP tool server", "addr", toolsAddr)
			if err := http.ListenAndServe(toolsAddr, tools.Handler()); err != nil {
				logger.Error("MCP tool server failed", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", f.host, f.port)
	logger.Info("starting green agent", "addr", addr, "card_url", cardURL)
	return http.ListenAndServe(addr, router)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
