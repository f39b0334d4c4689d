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

// Package evaluation runs benchmark evaluations of a remote agent and
// reduces the per-item outcomes into a single aggregate report.
package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentbeats/finbench/benchmark"
)

// Target dispatches one question to the agent under evaluation and returns
// its raw response text.
type Target interface {
	Ask(ctx context.Context, url, question string) (string, error)
}

// Scorer judges one raw response against a benchmark item.
type Scorer interface {
	Score(ctx context.Context, item benchmark.Item, modelTimeMins float64, response string) (Result, error)
}

// Updater receives progress notifications and the final report artifact.
// Notifications are observational; they are not part of the result contract.
type Updater interface {
	Working(ctx context.Context, message string)
	Artifact(ctx context.Context, name string, data map[string]any)
}

// ResultArtifactName is the name under which the aggregate report is published.
const ResultArtifactName = "Result"

// Orchestrator drives one evaluation request end to end: validation, item
// selection, sequential dispatch-and-judge, aggregation.
type Orchestrator struct {
	store  *benchmark.Store
	target Target
	scorer Scorer
	logger *slog.Logger
	tracer trace.Tracer
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Store  *benchmark.Store
	Target Target
	Scorer Scorer
	Logger *slog.Logger
}

func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:  cfg.Store,
		target: cfg.Target,
		scorer: cfg.Scorer,
		logger: logger,
		tracer: otel.Tracer("finbench/evaluation"),
	}
}

// Evaluate runs the full pipeline for one request and returns the aggregate
// report. A *RejectionError marks a terminal request problem; any other
// error aborts the run with no partial report.
func (o *Orchestrator) Evaluate(ctx context.Context, req *Request, updater Updater) (map[string]any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items, err := o.selectItems(req)
	if err != nil {
		return nil, err
	}

	agentURL := req.Participants[RolePurpleAgent]
	o.logger.InfoContext(ctx, "starting evaluation", "agent_url", agentURL, "items", len(items))

	if len(items) == 1 {
		updater.Working(ctx, fmt.Sprintf("Evaluating query: %s", truncate(items[0].Question, 120)))
	} else {
		updater.Working(ctx, fmt.Sprintf("Starting evaluation of %d financial research queries", len(items)))
	}

	results := make(map[string]map[string]any, len(items))
	for _, item := range items {
		result, err := o.evaluateItem(ctx, agentURL, item)
		if err != nil {
			return nil, fmt.Errorf("evaluation of %s failed: %w", item.ID, err)
		}
		results[item.ID] = result.Fields()
	}

	report := Aggregate(results)
	updater.Artifact(ctx, ResultArtifactName, report)
	return report, nil
}

// selectItems resolves the category filter and the optional single-index
// selection from the request config.
func (o *Orchestrator) selectItems(req *Request) ([]benchmark.Item, error) {
	opts, err := decodeOptions(req.Config)
	if err != nil {
		return nil, err
	}

	items := o.store.Items(opts.Category)
	idx, single, err := opts.queryIndex(len(items))
	if err != nil {
		return nil, err
	}
	if single {
		return items[idx : idx+1], nil
	}
	return items, nil
}

// evaluateItem dispatches one question, times the round trip in minutes and
// judges the raw response.
func (o *Orchestrator) evaluateItem(ctx context.Context, agentURL string, item benchmark.Item) (Result, error) {
	ctx, span := o.tracer.Start(ctx, "evaluation.item",
		trace.WithAttributes(attribute.String("benchmark.item_id", item.ID)))
	defer span.End()

	start := time.Now()
	response, err := o.target.Ask(ctx, agentURL, item.Question)
	if err != nil {
		return Result{}, fmt.Errorf("agent dispatch failed: %w", err)
	}
	elapsedMins := time.Since(start).Minutes()

	o.logger.DebugContext(ctx, "agent response", "item_id", item.ID, "response", response)

	result, err := o.scorer.Score(ctx, item, elapsedMins, response)
	if err != nil {
		return Result{}, fmt.Errorf("judging failed: %w", err)
	}
	return result, nil
}

// truncate clips s to at most n runes. Clipping on rune boundaries keeps
// multibyte question text intact in status messages.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
