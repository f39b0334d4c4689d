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

// Package server exposes the evaluation pipeline over the A2A protocol.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"

	"github.com/agentbeats/finbench/evaluation"
)

// Evaluator runs a full evaluation for one inbound request, reporting
// progress and the final report through the updater.
type Evaluator interface {
	Evaluate(ctx context.Context, req *evaluation.Request, updater evaluation.Updater) (map[string]any, error)
}

// ExecutorConfig configures an Executor. Evaluator is required.
type ExecutorConfig struct {
	Evaluator Evaluator
	Logger    *slog.Logger
}

// Executor adapts the evaluation pipeline to the a2asrv.AgentExecutor
// contract: requests arrive as messages, progress and results leave as
// task events on the queue.
type Executor struct {
	evaluator Evaluator
	logger    *slog.Logger
}

var _ a2asrv.AgentExecutor = (*Executor)(nil)

func NewExecutor(config ExecutorConfig) *Executor {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{evaluator: config.Evaluator, logger: logger}
}

// Execute parses the request from the incoming message and runs the
// evaluation. Invalid requests produce a final rejected status; evaluation
// failures produce a final failed status. Partial results are never
// published.
func (e *Executor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	req, err := evaluation.ParseRequest([]byte(messageText(reqCtx.Message)))
	if err != nil {
		return e.reject(ctx, reqCtx, queue, err)
	}

	if err := queue.Write(ctx, a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateWorking, nil)); err != nil {
		return err
	}

	updater := &queueUpdater{reqCtx: reqCtx, queue: queue, logger: e.logger}
	if _, err := e.evaluator.Evaluate(ctx, req, updater); err != nil {
		var rejection *evaluation.RejectionError
		if errors.As(err, &rejection) {
			return e.reject(ctx, reqCtx, queue, rejection)
		}
		e.logger.ErrorContext(ctx, "evaluation failed", "task_id", reqCtx.TaskID, "error", err)
		return writeFinalStatus(ctx, queue, reqCtx, a2a.TaskStateFailed, agentMessage(err.Error()))
	}
	if updater.err != nil {
		return updater.err
	}
	return writeFinalStatus(ctx, queue, reqCtx, a2a.TaskStateCompleted, nil)
}

// Cancel acknowledges cancellation with a single final canceled update.
func (e *Executor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	return writeFinalStatus(ctx, queue, reqCtx, a2a.TaskStateCanceled, nil)
}

func (e *Executor) reject(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue, cause error) error {
	e.logger.WarnContext(ctx, "request rejected", "task_id", reqCtx.TaskID, "reason", cause)
	return writeFinalStatus(ctx, queue, reqCtx, a2a.TaskStateRejected, agentMessage(cause.Error()))
}

// queueUpdater bridges evaluation progress callbacks onto the task event
// queue. The first write failure is sticky; later events are dropped so a
// broken queue does not flood the log.
type queueUpdater struct {
	reqCtx *a2asrv.RequestContext
	queue  eventqueue.Queue
	logger *slog.Logger
	err    error
}

var _ evaluation.Updater = (*queueUpdater)(nil)

func (u *queueUpdater) Working(ctx context.Context, message string) {
	u.write(ctx, a2a.NewStatusUpdateEvent(u.reqCtx, a2a.TaskStateWorking, agentMessage(message)))
}

func (u *queueUpdater) Artifact(ctx context.Context, name string, data map[string]any) {
	event := a2a.NewArtifactEvent(u.reqCtx, a2a.DataPart{Data: data})
	event.Artifact.Name = name
	event.LastChunk = true
	u.write(ctx, event)
}

func (u *queueUpdater) write(ctx context.Context, event a2a.Event) {
	if u.err != nil {
		return
	}
	if err := u.queue.Write(ctx, event); err != nil {
		u.logger.ErrorContext(ctx, "failed to write task event", "task_id", u.reqCtx.TaskID, "error", err)
		u.err = err
	}
}

func writeFinalStatus(ctx context.Context, queue eventqueue.Queue, reqCtx *a2asrv.RequestContext, state a2a.TaskState, msg *a2a.Message) error {
	event := a2a.NewStatusUpdateEvent(reqCtx, state, msg)
	event.Final = true
	return queue.Write(ctx, event)
}

func agentMessage(text string) *a2a.Message {
	return a2a.NewMessage(a2a.MessageRoleAgent, a2a.TextPart{Text: text})
}

// messageText concatenates the text parts of the incoming message.
func messageText(msg *a2a.Message) string {
	if msg == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range msg.Parts {
		if text, ok := part.(a2a.TextPart); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}
