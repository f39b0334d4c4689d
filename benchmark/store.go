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

// Package benchmark loads and indexes the finance research benchmark.
//
// The benchmark is a tabular dataset of research questions, each carrying a
// reference answer written by a domain expert, the time the expert needed,
// and a rubric describing how a candidate answer should be scored. The store
// is populated once at startup and is safe for concurrent reads.
package benchmark

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ErrDatasetNotFound reports a missing benchmark source file.
// The service cannot serve evaluation requests without its benchmark loaded.
var ErrDatasetNotFound = errors.New("benchmark dataset not found")

// RubricKind distinguishes the two scoring instructions a rubric entry can carry.
type RubricKind string

const (
	// RubricCorrectness asks to what degree a criteria statement holds in the answer.
	RubricCorrectness RubricKind = "correctness"
	// RubricContradiction asks to what degree a piece of evidence contradicts the answer.
	RubricContradiction RubricKind = "contradiction"
)

// RubricEntry is a single scoring instruction attached to an item.
type RubricEntry struct {
	Kind     RubricKind
	Criteria string
}

// Item is one benchmark question with its reference answer and rubric.
// Items are immutable after load.
type Item struct {
	ID             string
	Question       string
	Answer         string
	Category       string
	ExpertTimeMins float64
	Rubric         []RubricEntry
}

// CorrectnessRubrics returns the correctness entries in rubric order.
func (it *Item) CorrectnessRubrics() []RubricEntry {
	var entries []RubricEntry
	for _, r := range it.Rubric {
		if r.Kind == RubricCorrectness {
			entries = append(entries, r)
		}
	}
	return entries
}

// ContradictionRubric returns the contradiction entry if the item has one.
// An item carries at most one contradiction entry by dataset convention.
func (it *Item) ContradictionRubric() (RubricEntry, bool) {
	for _, r := range it.Rubric {
		if r.Kind == RubricContradiction {
			return r, true
		}
	}
	return RubricEntry{}, false
}

// Categories lists the question types present in the public benchmark.
var Categories = []string{
	"Quantitative Retrieval",
	"Qualitative Retrieval",
	"Numerical Reasoning",
	"Complex Retrieval",
	"Adjustments",
	"Beat or Miss",
	"Trends",
	"Financial Modeling",
	"Market Analysis",
}

// Store holds the loaded benchmark items.
type Store struct {
	items []Item
}

// Column names of the benchmark CSV.
const (
	colQuestion   = "Question"
	colAnswer     = "Answer"
	colCategory   = "Question Type"
	colExpertTime = "Expert time (mins)"
	colRubric     = "Rubric"
)

// Load reads the benchmark CSV at path and builds the store.
// Item ids are derived from row position (item_000, item_001, ...), so they
// are stable across runs of the same file but not across reordered files.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to open benchmark dataset: %w", err)
	}
	defer f.Close()

	items, err := parseItems(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse benchmark dataset %s: %w", path, err)
	}
	return &Store{items: items}, nil
}

func parseItems(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var items []Item
	for idx := 0; ; idx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		items = append(items, Item{
			ID:             fmt.Sprintf("item_%03d", idx),
			Question:       field(colQuestion),
			Answer:         field(colAnswer),
			Category:       field(colCategory),
			ExpertTimeMins: parseExpertTime(field(colExpertTime)),
			Rubric:         parseRubric(field(colRubric)),
		})
	}
	return items, nil
}

// parseExpertTime tolerates blank or malformed times, defaulting to zero.
func parseExpertTime(s string) float64 {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || t < 0 {
		return 0
	}
	return t
}

// parseRubric decodes the loosely-structured rubric blob. The dataset mixes
// single- and double-quoted JSON, so quote style is normalized first. A blob
// that still fails to parse yields an empty rubric rather than failing the load.
func parseRubric(blob string) []RubricEntry {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil
	}
	normalized := strings.ReplaceAll(blob, "'", `"`)

	var raw []struct {
		Operator string `json:"operator"`
		Criteria string `json:"criteria"`
	}
	if err := json.Unmarshal([]byte(normalized), &raw); err != nil {
		return nil
	}

	entries := make([]RubricEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, RubricEntry{Kind: RubricKind(r.Operator), Criteria: r.Criteria})
	}
	return entries
}

// Items returns items filtered by category. A category that is not one of
// the known labels disables filtering and all items are returned; the
// dataset treats unrecognized filters as "run everything" rather than an error.
func (s *Store) Items(category string) []Item {
	if !slices.Contains(Categories, category) {
		return slices.Clone(s.items)
	}
	var filtered []Item
	for _, it := range s.items {
		if it.Category == category {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// ItemByID returns the item with the given id.
func (s *Store) ItemByID(id string) (Item, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Len reports the total number of loaded items.
func (s *Store) Len() int {
	return len(s.items)
}

// All iterates over every loaded item in row order.
func (s *Store) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, it := range s.items {
			if !yield(it) {
				return
			}
		}
	}
}
