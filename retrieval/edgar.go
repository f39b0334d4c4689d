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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// EdgarClient queries the SEC EDGAR full-text search API for filings.
type EdgarClient struct {
	endpoint string
	apiKey   string
	logger   *slog.Logger
	retrier  *retrier
}

// EdgarConfig configures an EdgarClient. Endpoint and APIKey are required.
type EdgarConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewEdgarClient(cfg EdgarConfig) *EdgarClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EdgarClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		logger:   logger,
		retrier:  newRetrier(cfg.HTTPClient),
	}
}

// edgarQuery is the full-text search request body. Form type and CIK
// filters are sent empty; the free-text query carries the search.
type edgarQuery struct {
	Query     string   `json:"query"`
	FormTypes []string `json:"formTypes"`
	CIKs      []string `json:"ciks"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Page      int      `json:"page"`
}

// Search runs a full-text search over EDGAR filings in the given date
// window (YYYY-MM-DD, inclusive). It returns the raw filing records.
func (c *EdgarClient) Search(ctx context.Context, query, startDate, endDate string) ([]map[string]any, error) {
	body, err := json.Marshal(edgarQuery{
		Query:     query,
		FormTypes: []string{},
		CIKs:      []string{},
		StartDate: startDate,
		EndDate:   endDate,
		Page:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding edgar query: %w", err)
	}

	resp, err := c.retrier.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("edgar search %q: %w", query, err)
	}
	defer resp.Body.Close()

	var result struct {
		Filings []map[string]any `json:"filings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding edgar response: %w", err)
	}
	c.logger.DebugContext(ctx, "edgar search completed", "query", query, "filings", len(result.Filings))
	if result.Filings == nil {
		return []map[string]any{}, nil
	}
	return result.Filings, nil
}
