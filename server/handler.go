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
	"net/http"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/gorilla/mux"
)

// InvokePath is the JSON-RPC endpoint for agent invocation.
const InvokePath = "/a2a/invoke"

// HandlerConfig configures the A2A HTTP surface.
type HandlerConfig struct {
	ExecutorConfig ExecutorConfig

	// AgentCard is served at the well-known agent card path when set.
	AgentCard *a2a.AgentCard
}

// NewInvocationHandler creates an http.Handler serving A2A requests over
// JSON-RPC transport.
func NewInvocationHandler(config HandlerConfig, opts ...a2asrv.RequestHandlerOption) http.Handler {
	executor := NewExecutor(config.ExecutorConfig)
	requestHandler := a2asrv.NewHandler(executor, opts...)
	return a2asrv.NewJSONRPCHandler(requestHandler)
}

// NewRouter creates a router with the complete A2A surface:
//   - POST /a2a/invoke - JSON-RPC agent invocation
//   - GET /.well-known/agent-card.json - agent card, when configured
func NewRouter(config HandlerConfig, opts ...a2asrv.RequestHandlerOption) *mux.Router {
	router := mux.NewRouter()
	router.Handle(InvokePath, NewInvocationHandler(config, opts...)).Methods(http.MethodPost)
	if config.AgentCard != nil {
		router.Handle(a2asrv.WellKnownAgentCardPath, a2asrv.NewStaticAgentCardHandler(config.AgentCard)).Methods(http.MethodGet)
	}
	return router
}
