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

// Package llmjudge scores candidate answers against benchmark rubrics with
// an LLM judge.
//
// For each rubric entry of an item the judge issues one scoring call with a
// kind-specific prompt, then one final overlap call comparing the candidate
// answer with the expert reference. Every call is biased toward
// deterministic scoring via the configured temperature (default 0).
package llmjudge

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/agentbeats/finbench/benchmark"
	"github.com/agentbeats/finbench/evaluation"
	"github.com/agentbeats/finbench/llm"
)

// Judge is a stateless scoring function over (item, response) pairs.
type Judge struct {
	model  llm.Model
	config *genai.GenerateContentConfig
	logger *slog.Logger
	tracer trace.Tracer
}

// Config contains configuration for the judge.
type Config struct {
	Model llm.Model
	// Temperature biases the judge toward deterministic scoring; zero is
	// the conventional setting.
	Temperature float32
	Logger      *slog.Logger
}

func NewJudge(cfg Config) *Judge {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{
		model: cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:       genai.Ptr(cfg.Temperature),
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
		logger: logger,
		tracer: otel.Tracer("finbench/llmjudge"),
	}
}

// Score judges one candidate response. It issues one model call per rubric
// entry plus the final overlap call, and derives the per-item result from
// the collected scores. A non-numeric judge reply aborts the item.
func (j *Judge) Score(ctx context.Context, item benchmark.Item, modelTimeMins float64, response string) (evaluation.Result, error) {
	ctx, span := j.tracer.Start(ctx, "llmjudge.score")
	defer span.End()

	perf := &evaluation.Performance{
		ExpertTimeMins: item.ExpertTimeMins,
		ModelTimeMins:  modelTimeMins,
	}

	for _, entry := range item.Rubric {
		var prompt string
		switch entry.Kind {
		case benchmark.RubricCorrectness:
			prompt = correctnessPrompt(item.Question, response, entry.Criteria)
		case benchmark.RubricContradiction:
			prompt = contradictionPrompt(item.Question, response, entry.Criteria)
		default:
			j.logger.WarnContext(ctx, "skipping rubric entry of unknown kind", "kind", entry.Kind, "item_id", item.ID)
			continue
		}

		score, err := j.invoke(ctx, prompt)
		if err != nil {
			return evaluation.Result{}, fmt.Errorf("rubric %q scoring failed: %w", entry.Kind, err)
		}
		switch entry.Kind {
		case benchmark.RubricCorrectness:
			perf.Correctness = append(perf.Correctness, score)
		case benchmark.RubricContradiction:
			perf.Contradictions = append(perf.Contradictions, score)
		}
	}

	overlap, err := j.invoke(ctx, overlapPrompt(item.Question, response, item.Answer))
	if err != nil {
		return evaluation.Result{}, fmt.Errorf("overlap scoring failed: %w", err)
	}
	perf.Overlap = overlap

	return perf.Summarize(), nil
}

// invoke issues one judge call and parses the reply as a score.
func (j *Judge) invoke(ctx context.Context, prompt string) (float64, error) {
	req := &llm.Request{
		Contents:       []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		GenerateConfig: j.config,
	}
	resp, err := j.model.Generate(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("judge model call failed: %w", err)
	}

	reply := resp.Text()
	j.logger.DebugContext(ctx, "judge reply", "reply", reply)
	return parseScore(reply)
}

var _ evaluation.Scorer = (*Judge)(nil)
