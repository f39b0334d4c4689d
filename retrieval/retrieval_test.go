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

package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// recordSleeps replaces real backoff sleeping and records requested delays.
func recordSleeps(r *retrier) *[]time.Duration {
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return &slept
}

func TestEdgarSearch(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"filings": []map[string]any{
				{"accessionNo": "0001-23-000045", "formType": "10-K"},
			},
		})
	}))
	defer server.Close()

	client := NewEdgarClient(EdgarConfig{Endpoint: server.URL, APIKey: "test-key"})
	filings, err := client.Search(context.Background(), "revenue guidance", "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}

	wantBody := map[string]any{
		"query":     "revenue guidance",
		"formTypes": []any{},
		"ciks":      []any{},
		"startDate": "2024-01-01",
		"endDate":   "2024-12-31",
		"page":      float64(1),
	}
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
	wantFilings := []map[string]any{
		{"accessionNo": "0001-23-000045", "formType": "10-K"},
	}
	if diff := cmp.Diff(wantFilings, filings); diff != "" {
		t.Errorf("filings mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgarSearch_RateLimitExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewEdgarClient(EdgarConfig{Endpoint: server.URL, APIKey: "test-key"})
	slept := recordSleeps(client.retrier)

	_, err := client.Search(context.Background(), "revenue", "2024-01-01", "2024-12-31")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Search() error = %v, want ErrRateLimited", err)
	}
	if calls != maxAttempts {
		t.Errorf("server saw %d calls, want %d", calls, maxAttempts)
	}
	wantSleeps := []time.Duration{baseRetryDelay, 2 * baseRetryDelay}
	if diff := cmp.Diff(wantSleeps, *slept); diff != "" {
		t.Errorf("backoff delays mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgarSearch_RateLimitThenSuccess(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"filings": []map[string]any{{"formType": "8-K"}}})
	}))
	defer server.Close()

	client := NewEdgarClient(EdgarConfig{Endpoint: server.URL, APIKey: "test-key"})
	slept := recordSleeps(client.retrier)

	filings, err := client.Search(context.Background(), "merger", "2024-01-01", "2024-06-30")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}
	if len(filings) != 1 {
		t.Errorf("got %d filings, want 1", len(filings))
	}
	// The server's Retry-After hint overrides the computed delay.
	if diff := cmp.Diff([]time.Duration{5 * time.Second}, *slept); diff != "" {
		t.Errorf("backoff delays mismatch (-want +got):\n%s", diff)
	}
}

func TestEdgarSearch_ServerErrorIsFatal(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewEdgarClient(EdgarConfig{Endpoint: server.URL, APIKey: "test-key"})
	_, err := client.Search(context.Background(), "revenue", "2024-01-01", "2024-12-31")

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Search() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, http.StatusInternalServerError)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on server errors)", calls)
	}
}

func TestWebSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("engine"); got != "google" {
			t.Errorf("engine = %q, want %q", got, "google")
		}
		if got := query.Get("api_key"); got != "serp-key" {
			t.Errorf("api_key = %q, want %q", got, "serp-key")
		}
		if got := query.Get("q"); got != "fed rate decision" {
			t.Errorf("q = %q, want %q", got, "fed rate decision")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]any{
				{"title": "Fed holds rates steady", "link": "https://example.com/fed"},
			},
		})
	}))
	defer server.Close()

	client := NewWebClient(WebConfig{Endpoint: server.URL, APIKey: "serp-key"})
	results, err := client.Search(context.Background(), "fed rate decision")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}
	want := []map[string]any{
		{"title": "Fed holds rates steady", "link": "https://example.com/fed"},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestWebSearch_MissingResultsYieldsEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"search_metadata": map[string]any{"status": "Success"}})
	}))
	defer server.Close()

	client := NewWebClient(WebConfig{Endpoint: server.URL, APIKey: "serp-key"})
	results, err := client.Search(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("Search() returned unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil list", results)
	}
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		hint    time.Duration
		want    time.Duration
	}{
		{name: "first attempt", attempt: 0, want: baseRetryDelay},
		{name: "doubles per attempt", attempt: 2, want: 4 * baseRetryDelay},
		{name: "clamped to ceiling", attempt: 10, want: maxRetryDelay},
		{name: "hint overrides", attempt: 0, hint: 7 * time.Second, want: 7 * time.Second},
		{name: "hint clamped", attempt: 0, hint: time.Hour, want: maxRetryDelay},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryDelay(tc.attempt, tc.hint); got != tc.want {
				t.Errorf("retryDelay(%d, %v) = %v, want %v", tc.attempt, tc.hint, got, tc.want)
			}
		})
	}
}
