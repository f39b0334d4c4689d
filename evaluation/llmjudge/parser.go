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

package llmjudge

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseError reports a judge reply that could not be read as a score.
// It aborts scoring for the current item and is not retried.
type ParseError struct {
	Reply string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("judge reply %q is not a score: %v", e.Reply, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// parseScore reads the judge reply strictly as a float. Replies outside
// [0, 1] are clamped into range; anything non-numeric is a *ParseError.
// "NaN" parses as a float but is not a score: it would pass through the
// clamp (min/max propagate NaN) and poison every mean downstream.
func parseScore(reply string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, &ParseError{Reply: reply, Err: err}
	}
	if math.IsNaN(score) {
		return 0, &ParseError{Reply: reply, Err: errors.New("not a number")}
	}
	return min(max(score, 0), 1), nil
}
