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
	"fmt"
	"slices"
)

// NumQueriesKey is the entry-count field added at every aggregation level.
const NumQueriesKey = "num_queries"

// Aggregate reduces a mapping of per-item result dictionaries into one
// report. Entries are processed in ascending key order so the output is
// deterministic for a given input mapping.
func Aggregate(results map[string]map[string]any) map[string]any {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	entries := make([]map[string]any, 0, len(results))
	for _, k := range keys {
		entries = append(entries, results[k])
	}
	return aggregateEntries(entries)
}

// aggregateEntries reduces a list of dictionary-shaped entries field by
// field. Each recursion level re-derives num_queries from its own entry
// list, so nested reports carry their own counts.
//
// Per-field reduction picks one of three closed variants, in priority order:
// every value a dict (recurse), every value numeric (mean), anything else
// (collapse to the shared value or a deduplicated list).
func aggregateEntries(entries []map[string]any) map[string]any {
	report := map[string]any{NumQueriesKey: len(entries)}
	if len(entries) == 0 {
		return report
	}

	for _, key := range unionKeys(entries) {
		values := make([]any, len(entries))
		for i, entry := range entries {
			values[i] = entry[key] // absent key stays nil
		}

		if nested, ok := asNested(values); ok {
			report[key] = aggregateEntries(nested)
		} else if nums, ok := asNumeric(values); ok {
			report[key] = mean(nums)
		} else {
			report[key] = collapse(values)
		}
	}
	return report
}

func unionKeys(entries []map[string]any) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, entry := range entries {
		for k := range entry {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// asNested succeeds only if every value is itself a dictionary.
func asNested(values []any) ([]map[string]any, bool) {
	nested := make([]map[string]any, len(values))
	for i, v := range values {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		nested[i] = m
	}
	return nested, true
}

// asNumeric succeeds only if every value is numeric. Booleans are not
// part of the numeric class even though they marshal as numbers elsewhere.
func asNumeric(values []any) ([]float64, bool) {
	nums := make([]float64, len(values))
	for i, v := range values {
		switch n := v.(type) {
		case float64:
			nums[i] = n
		case float32:
			nums[i] = float64(n)
		case int:
			nums[i] = float64(n)
		case int32:
			nums[i] = float64(n)
		case int64:
			nums[i] = float64(n)
		case uint:
			nums[i] = float64(n)
		case uint64:
			nums[i] = float64(n)
		default:
			return nil, false
		}
	}
	return nums, true
}

// collapse reduces opaque values: the single shared value when all agree by
// string identity, otherwise an ordered list of the distinct values. A nil
// placeholder from a missing key participates like any other value, so one
// absent key across otherwise-identical entries still forces list form.
func collapse(values []any) any {
	seen := make(map[string]bool)
	var distinct []any
	for _, v := range values {
		s := fmt.Sprint(v)
		if !seen[s] {
			seen[s] = true
			distinct = append(distinct, v)
		}
	}
	if len(distinct) == 1 {
		return distinct[0]
	}
	return distinct
}
