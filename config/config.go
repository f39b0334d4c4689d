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

// Package config loads the process-wide settings once at startup.
// Settings are immutable after construction and passed by value into
// every component that needs them.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultJudgeModel   = "gemini-2.5-flash"
	DefaultDataPath     = "data/public.csv"
	DefaultEdgarURL     = "https://efts.sec.gov/LATEST/search-index"
	DefaultWebSearchURL = "https://serpapi.com/search"
)

// Settings holds the full configuration surface of the green agent.
type Settings struct {
	LogLevel slog.Level

	// Judge model settings.
	JudgeModel       string
	JudgeAPIKey      string
	JudgeBaseURL     string
	JudgeTemperature float32

	// Retrieval tool settings.
	EdgarAPIKey  string
	EdgarURL     string
	SerpAPIKey   string
	WebSearchURL string

	// Benchmark dataset location.
	DataPath string
}

// FromEnv builds Settings from the environment. A .env file in the working
// directory is loaded first when present, matching local development setups.
func FromEnv() Settings {
	_ = godotenv.Load()

	return Settings{
		LogLevel:         parseLevel(os.Getenv("LOG_LEVEL")),
		JudgeModel:       envOr("MODEL_NAME", DefaultJudgeModel),
		JudgeAPIKey:      os.Getenv("JUDGE_API_KEY"),
		JudgeBaseURL:     os.Getenv("JUDGE_BASE_URL"),
		JudgeTemperature: parseTemperature(os.Getenv("JUDGE_TEMPERATURE")),
		EdgarAPIKey:      os.Getenv("EDGAR_API_KEY"),
		EdgarURL:         envOr("EDGAR_URL", DefaultEdgarURL),
		SerpAPIKey:       os.Getenv("SERPAPI_API_KEY"),
		WebSearchURL:     envOr("WEB_SEARCH_URL", DefaultWebSearchURL),
		DataPath:         envOr("DATA_PATH", DefaultDataPath),
	}
}

// NewLogger returns a slog.Logger honoring the configured level.
func (s Settings) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.LogLevel}))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseTemperature(s string) float32 {
	if s == "" {
		return 0
	}
	t, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0
	}
	return float32(t)
}
