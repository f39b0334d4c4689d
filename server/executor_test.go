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

package server

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"
	"github.com/google/go-cmp/cmp"

	"github.com/agentbeats/finbench/evaluation"
)

type testQueue struct {
	eventqueue.Queue
	events []a2a.Event
}

func (q *testQueue) Write(_ context.Context, e a2a.Event) error {
	q.events = append(q.events, e)
	return nil
}

func newInMemoryQueue(t *testing.T) eventqueue.Queue {
	t.Helper()
	qm := eventqueue.NewInMemoryManager()
	q, err := qm.GetOrCreate(t.Context(), "test")
	if err != nil {
		t.Fatalf("qm.GetOrCreate() error = %v", err)
	}
	return q
}

// fakeEvaluator replays a scripted outcome, optionally reporting progress
// and an artifact through the updater first.
type fakeEvaluator struct {
	progress string
	report   map[string]any
	err      error
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, req *evaluation.Request, updater evaluation.Updater) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.progress != "" {
		updater.Working(ctx, f.progress)
	}
	updater.Artifact(ctx, evaluation.ResultArtifactName, f.report)
	return f.report, nil
}

func newRequestContext() *a2asrv.RequestContext {
	return &a2asrv.RequestContext{
		TaskID:    a2a.NewTaskID(),
		ContextID: a2a.NewContextID(),
		Message:   a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: `{"participants": {"purple_agent": "http://localhost:9019"}, "config": {}}`}),
	}
}

func statusEvent(t *testing.T, event a2a.Event) *a2a.TaskStatusUpdateEvent {
	t.Helper()
	update, ok := event.(*a2a.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("event is %T, want *a2a.TaskStatusUpdateEvent", event)
	}
	return update
}

func statusText(update *a2a.TaskStatusUpdateEvent) string {
	if update.Status.Message == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range update.Status.Message.Parts {
		if text, ok := part.(a2a.TextPart); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}

func TestExecutor_Execute(t *testing.T) {
	report := map[string]any{"num_queries": 2, "correctness": 0.75}
	evaluator := &fakeEvaluator{progress: "Starting evaluation of 2 financial research queries", report: report}
	executor := NewExecutor(ExecutorConfig{Evaluator: evaluator})
	queue := &testQueue{Queue: newInMemoryQueue(t)}

	if err := executor.Execute(t.Context(), newRequestContext(), queue); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if len(queue.events) != 4 {
		t.Fatalf("Execute() wrote %d events, want 4: %v", len(queue.events), queue.events)
	}

	first := statusEvent(t, queue.events[0])
	if first.Status.State != a2a.TaskStateWorking || first.Final {
		t.Errorf("first event = %+v, want non-final working update", first)
	}

	progress := statusEvent(t, queue.events[1])
	if progress.Status.State != a2a.TaskStateWorking {
		t.Errorf("progress event state = %v, want %v", progress.Status.State, a2a.TaskStateWorking)
	}
	if got := statusText(progress); got != evaluator.progress {
		t.Errorf("progress message = %q, want %q", got, evaluator.progress)
	}

	artifact, ok := queue.events[2].(*a2a.TaskArtifactUpdateEvent)
	if !ok {
		t.Fatalf("third event is %T, want *a2a.TaskArtifactUpdateEvent", queue.events[2])
	}
	if artifact.Artifact.Name != evaluation.ResultArtifactName {
		t.Errorf("artifact name = %q, want %q", artifact.Artifact.Name, evaluation.ResultArtifactName)
	}
	if !artifact.LastChunk {
		t.Error("artifact LastChunk = false, want true")
	}
	data, ok := artifact.Artifact.Parts[0].(a2a.DataPart)
	if !ok {
		t.Fatalf("artifact part is %T, want a2a.DataPart", artifact.Artifact.Parts[0])
	}
	if diff := cmp.Diff(report, data.Data); diff != "" {
		t.Errorf("artifact data mismatch (-want +got):\n%s", diff)
	}

	final := statusEvent(t, queue.events[3])
	if final.Status.State != a2a.TaskStateCompleted || !final.Final {
		t.Errorf("final event = %+v, want final completed update", final)
	}
}

func TestExecutor_Execute_MalformedRequest(t *testing.T) {
	executor := NewExecutor(ExecutorConfig{Evaluator: &fakeEvaluator{}})
	queue := &testQueue{Queue: newInMemoryQueue(t)}
	reqCtx := newRequestContext()
	reqCtx.Message = a2a.NewMessage(a2a.MessageRoleUser, a2a.TextPart{Text: "not json"})

	if err := executor.Execute(t.Context(), reqCtx, queue); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if len(queue.events) != 1 {
		t.Fatalf("Execute() wrote %d events, want a single rejection: %v", len(queue.events), queue.events)
	}
	update := statusEvent(t, queue.events[0])
	if update.Status.State != a2a.TaskStateRejected || !update.Final {
		t.Errorf("event = %+v, want final rejected update", update)
	}
	if got := statusText(update); !strings.Contains(got, "Invalid request") {
		t.Errorf("rejection message = %q, want it to contain %q", got, "Invalid request")
	}
}

func TestExecutor_Execute_EvaluationRejection(t *testing.T) {
	evaluator := &fakeEvaluator{err: &evaluation.RejectionError{Reason: "Missing roles: [purple_agent]"}}
	executor := NewExecutor(ExecutorConfig{Evaluator: evaluator})
	queue := &testQueue{Queue: newInMemoryQueue(t)}

	if err := executor.Execute(t.Context(), newRequestContext(), queue); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	final := statusEvent(t, queue.events[len(queue.events)-1])
	if final.Status.State != a2a.TaskStateRejected || !final.Final {
		t.Errorf("final event = %+v, want final rejected update", final)
	}
	if got := statusText(final); got != "Missing roles: [purple_agent]" {
		t.Errorf("rejection message = %q, want %q", got, "Missing roles: [purple_agent]")
	}
}

func TestExecutor_Execute_EvaluationFailure(t *testing.T) {
	evaluator := &fakeEvaluator{err: fmt.Errorf("judge model unavailable")}
	executor := NewExecutor(ExecutorConfig{Evaluator: evaluator})
	queue := &testQueue{Queue: newInMemoryQueue(t)}

	if err := executor.Execute(t.Context(), newRequestContext(), queue); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	final := statusEvent(t, queue.events[len(queue.events)-1])
	if final.Status.State != a2a.TaskStateFailed || !final.Final {
		t.Errorf("final event = %+v, want final failed update", final)
	}
	if got := statusText(final); got != "judge model unavailable" {
		t.Errorf("failure message = %q, want %q", got, "judge model unavailable")
	}
}

func TestExecutor_Cancel(t *testing.T) {
	executor := NewExecutor(ExecutorConfig{Evaluator: &fakeEvaluator{}})
	queue := &testQueue{Queue: newInMemoryQueue(t)}

	if err := executor.Cancel(t.Context(), newRequestContext(), queue); err != nil {
		t.Fatalf("Cancel() error = %v, want nil", err)
	}
	if len(queue.events) != 1 {
		t.Fatalf("Cancel() wrote %d events, want 1", len(queue.events))
	}
	update := statusEvent(t, queue.events[0])
	if update.Status.State != a2a.TaskStateCanceled || !update.Final {
		t.Fatalf("Cancel() event = %+v, want a single final canceled update", update)
	}
}
