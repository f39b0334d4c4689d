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
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// WebClient runs general web searches through a SerpAPI-compatible endpoint.
type WebClient struct {
	endpoint string
	apiKey   string
	logger   *slog.Logger
	retrier  *retrier
}

// WebConfig configures a WebClient. Endpoint and APIKey are required.
type WebConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewWebClient(cfg WebConfig) *WebClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WebClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		logger:   logger,
		retrier:  newRetrier(cfg.HTTPClient),
	}
}

// Search runs a Google-engine web search and returns the organic results.
// A response without organic results yields an empty list, not an error.
func (c *WebClient) Search(ctx context.Context, query string) ([]map[string]any, error) {
	resp, err := c.retrier.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
		if err != nil {
			return nil, err
		}
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		params.Set("engine", "google")
		params.Set("q", query)
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("web search %q: %w", query, err)
	}
	defer resp.Body.Close()

	var result struct {
		OrganicResults []map[string]any `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding web search response: %w", err)
	}
	c.logger.DebugContext(ctx, "web search completed", "query", query, "results", len(result.OrganicResults))
	if result.OrganicResults == nil {
		return []map[string]any{}, nil
	}
	return result.OrganicResults, nil
}
