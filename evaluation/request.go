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

package evaluation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// RolePurpleAgent names the participant under evaluation.
const RolePurpleAgent = "purple_agent"

// requiredRoles and requiredConfigKeys gate request acceptance.
var (
	requiredRoles      = []string{RolePurpleAgent}
	requiredConfigKeys = []string{}
)

// Request is the inbound evaluation request sent by the platform.
type Request struct {
	// Participants maps role names to agent endpoints.
	Participants map[string]string `json:"participants"`
	// Config carries free-form run configuration. Recognized keys are
	// "type" (category filter) and "query_index" (single-item selection).
	Config map[string]any `json:"config"`
}

// RejectionError is a terminal request error: the request is rejected with
// a human-readable reason and never retried.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// ParseRequest decodes the JSON body of an inbound request. A malformed
// body is a RejectionError, not a retryable condition.
func ParseRequest(raw []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, &RejectionError{Reason: fmt.Sprintf("Invalid request: %v", err)}
	}
	return &req, nil
}

// Validate checks that every required role and config key is present.
func (r *Request) Validate() error {
	var missingRoles []string
	for _, role := range requiredRoles {
		if _, ok := r.Participants[role]; !ok {
			missingRoles = append(missingRoles, role)
		}
	}
	if len(missingRoles) > 0 {
		return &RejectionError{Reason: fmt.Sprintf("Missing roles: %v", missingRoles)}
	}

	var missingKeys []string
	for _, key := range requiredConfigKeys {
		if _, ok := r.Config[key]; !ok {
			missingKeys = append(missingKeys, key)
		}
	}
	if len(missingKeys) > 0 {
		return &RejectionError{Reason: fmt.Sprintf("Missing config keys: %v", missingKeys)}
	}
	return nil
}

// runOptions is the typed view of the recognized config keys.
type runOptions struct {
	Category   string   `mapstructure:"type"`
	QueryIndex *float64 `mapstructure:"query_index"`
}

// decodeOptions decodes the free-form config map. Unrecognized keys are
// ignored; recognized keys of the wrong type reject the request.
func decodeOptions(config map[string]any) (runOptions, error) {
	var opts runOptions
	if err := mapstructure.Decode(config, &opts); err != nil {
		return runOptions{}, &RejectionError{Reason: fmt.Sprintf("Invalid config: %v", err)}
	}
	return opts, nil
}

// queryIndex resolves the optional single-item selection against the item
// count of the already-filtered selection. JSON numbers arrive as floats,
// so integrality is checked explicitly; the range check stays in float
// space because converting a huge float to int overflows instead of
// saturating.
func (o runOptions) queryIndex(itemCount int) (int, bool, error) {
	if o.QueryIndex == nil {
		return 0, false, nil
	}
	idx := *o.QueryIndex
	if itemCount == 0 {
		return 0, false, &RejectionError{
			Reason: fmt.Sprintf("query_index %v out of range, no items match the current selection", idx),
		}
	}
	if idx != math.Trunc(idx) || idx < 0 || idx >= float64(itemCount) {
		return 0, false, &RejectionError{
			Reason: fmt.Sprintf("query_index %v out of range, valid range is 0..%d", idx, itemCount-1),
		}
	}
	return int(idx), true, nil
}
