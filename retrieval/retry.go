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

// Package retrieval provides the outbound information-retrieval lookups the
// purple agents use as tools: SEC EDGAR full-text search and web search.
// Rate-limited calls are retried with bounded exponential backoff.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Retry configuration. The delay doubles per attempt and is clamped to
// maxRetryDelay; a server-supplied Retry-After hint takes precedence.
const (
	maxAttempts    = 3
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 30 * time.Second
)

// ErrRateLimited is surfaced once the retry budget for a rate-limited call
// is exhausted.
var ErrRateLimited = errors.New("rate limited")

// HTTPError reports a non-retryable HTTP failure of a retrieval call.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("retrieval call failed: %s", e.Status)
}

// retrier drives HTTP calls with the shared retry policy. A nil sleep
// uses real clock sleeping; tests inject their own.
type retrier struct {
	client *http.Client
	sleep  func(ctx context.Context, d time.Duration) error
}

func newRetrier(client *http.Client) *retrier {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &retrier{client: client, sleep: sleepContext}
}

// do executes the request built by build, retrying rate limits and timeouts
// up to the attempt cap. Requests must be rebuilt per attempt since bodies
// are consumed. Other 4xx/5xx responses fail immediately.
func (r *retrier) do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			if isTimeout(err) && attempt < maxAttempts-1 {
				if serr := r.sleep(ctx, retryDelay(attempt, 0)); serr != nil {
					return nil, serr
				}
				continue
			}
			return nil, fmt.Errorf("retrieval call failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			hint := retryAfterHint(resp)
			resp.Body.Close()
			if attempt >= maxAttempts-1 {
				return nil, fmt.Errorf("retry budget exhausted after %d attempts: %w", maxAttempts, ErrRateLimited)
			}
			if serr := r.sleep(ctx, retryDelay(attempt, hint)); serr != nil {
				return nil, serr
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		return resp, nil
	}
}

// retryDelay doubles the base delay per attempt, clamped to the ceiling.
// A positive server hint overrides the computed delay but not the ceiling.
func retryDelay(attempt int, hint time.Duration) time.Duration {
	delay := baseRetryDelay << attempt
	if hint > 0 {
		delay = hint
	}
	return min(delay, maxRetryDelay)
}

// retryAfterHint reads the Retry-After header as a second count.
func retryAfterHint(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
