// Copyright 2025 Teambrief Systems
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


package ai

import "errors"

const (
	// DefaultEmbeddingModel is the embedding model used when none is configured.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultSummaryModel is the chat model used for digest summaries.
	DefaultSummaryModel = "gpt-4o-mini"
)

// Config holds configuration for model providers.
type Config struct {
	// APIKey authenticates against the provider. Required unless BaseURL
	// points at a local OpenAI-compatible service.
	APIKey string

	// BaseURL overrides the provider endpoint. Empty means the provider's
	// public API. Example: "http://localhost:11434/v1" for a local server.
	BaseURL string

	// EmbeddingModel is the model identifier used for embeddings.
	EmbeddingModel string

	// SummaryModel is the chat model identifier used for summaries.
	SummaryModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets an alternative provider endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithSummaryModel sets the summary model identifier.
func WithSummaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.SummaryModel = model
	}
}

// DefaultConfig returns a Config with the standard production models.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel: DefaultEmbeddingModel,
		SummaryModel:   DefaultSummaryModel,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.APIKey == "" && c.BaseURL == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.SummaryModel == "" {
		return errors.New("ai config: SummaryModel is required")
	}
	return nil
}
