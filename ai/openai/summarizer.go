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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/teambrief/teambrief/ai"
)

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []lcopenai.Option{
		lcopenai.WithToken(config.APIKey),
		lcopenai.WithModel(config.SummaryModel),
	}
	if config.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(config.BaseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize condenses material following the given instruction.
func (s *Summarizer) Summarize(ctx context.Context, instruction, material string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(instruction),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(material),
			},
		},
	}

	response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.3))
	if err != nil {
		s.logger.Error("summary generation failed", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		s.logger.Warn("no choices returned from model")
		return "", errors.New("summarizer: model returned no choices")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
