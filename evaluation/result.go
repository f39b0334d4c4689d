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

// Performance accumulates the raw judge outcomes for a single benchmark
// item. It is created fresh per item and consumed into a Result.
type Performance struct {
	ExpertTimeMins float64
	ModelTimeMins  float64

	Correctness    []float64
	Contradictions []float64
	Overlap        float64
}

// Summarize derives the immutable per-item result.
func (p *Performance) Summarize() Result {
	return Result{
		TimeRatio:      timeRatio(p.ModelTimeMins, p.ExpertTimeMins),
		Overlap:        p.Overlap,
		Correctness:    mean(p.Correctness),
		Contradictions: mean(p.Contradictions),
	}
}

// Result is the read-only per-item evaluation summary.
type Result struct {
	// TimeRatio relates the measured wall time to the expert solve time.
	// A zero expert time yields a ratio of 0 rather than an undefined value.
	TimeRatio      float64 `json:"time_ratio"`
	Overlap        float64 `json:"overlap"`
	Correctness    float64 `json:"correctness"`
	Contradictions float64 `json:"contradictions"`
}

// Fields returns the result as the dictionary shape consumed by Aggregate.
func (r Result) Fields() map[string]any {
	return map[string]any{
		"time_ratio":     r.TimeRatio,
		"overlap":        r.Overlap,
		"correctness":    r.Correctness,
		"contradictions": r.Contradictions,
	}
}

func timeRatio(modelMins, expertMins float64) float64 {
	if expertMins == 0 {
		return 0
	}
	return modelMins / expertMins
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
