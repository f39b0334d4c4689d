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

import "github.com/a2aproject/a2a-go/a2a"

const agentVersion = "0.1.0"

// NewAgentCard builds the agent card advertised at the well-known path.
// url is the externally reachable invocation endpoint.
func NewAgentCard(url string) *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:               "Finance Benchmark Green Agent",
		Description:        "Evaluates agents against a finance research benchmark using an LLM judge.",
		URL:                url,
		Version:            agentVersion,
		PreferredTransport: a2a.TransportProtocolJSONRPC,
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Capabilities:       a2a.AgentCapabilities{Streaming: true},
		Skills: []a2a.AgentSkill{{
			ID:          "assess",
			Name:        "Finance benchmark assessment",
			Description: "Assesses agent responses to financial research queries and reports graded results.",
			Tags:        []string{"green agent", "assessment hosting", "finance benchmark"},
			Examples: []string{
				`{"participants": {"purple_agent": "http://localhost:9019"}, "config": {"type": "all"}}`,
			},
		}},
	}
}
