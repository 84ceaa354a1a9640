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


package digest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/teambrief/teambrief/ai"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/vecstore"
)

// defaultPassagesPerPartition bounds how much material one partition
// contributes to a section.
const defaultPassagesPerPartition = 5

// summaryInstruction is the system prompt for section summaries.
const summaryInstruction = "You summarize internal team updates. " +
	"Write a short factual paragraph covering the passages you are given. " +
	"Mention concrete outcomes and decisions; do not invent details."

// Section is one topic's slice of a digest.
type Section struct {
	Topic   string   `json:"topic"`
	Summary string   `json:"summary"`
	Sources []string `json:"sources,omitempty"`
}

// Digest is the assembled result of one build run.
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Builder assembles digests from the vector store.
type Builder struct {
	governor   *embedding.Governor
	store      *vecstore.Store
	summarizer ai.Summarizer
	perPart    int
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithPassagesPerPartition sets how many passages each partition
// contributes per topic.
func WithPassagesPerPartition(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.perPart = n
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a digest builder.
func NewBuilder(governor *embedding.Governor, store *vecstore.Store, summarizer ai.Summarizer, opts ...Option) (*Builder, error) {
	if governor == nil {
		return nil, ErrGovernorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if summarizer == nil {
		return nil, ErrSummarizerRequired
	}

	b := &Builder{
		governor:   governor,
		store:      store,
		summarizer: summarizer,
		perPart:    defaultPassagesPerPartition,
		logger:     slog.Default().With("component", "digest"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build produces one section per topic. A topic with no retrievable
// material, a refused embedding, or a failing summarizer yields an empty
// section rather than failing the digest.
func (b *Builder) Build(ctx context.Context, topics []string) (*Digest, error) {
	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	digest := &Digest{
		GeneratedAt: time.Now().UTC(),
		Sections:    make([]Section, 0, len(topics)),
	}

	for _, topic := range topics {
		digest.Sections = append(digest.Sections, b.buildSection(ctx, topic))
	}
	return digest, nil
}

func (b *Builder) buildSection(ctx context.Context, topic string) Section {
	section := Section{Topic: topic}

	vector, err := b.governor.EmbedText(ctx, topic)
	if err != nil {
		b.logger.Error("topic embedding failed", "topic", topic, "err", err)
		return section
	}
	if vector == nil {
		b.logger.Warn("topic embedding refused, section left empty", "topic", topic)
		return section
	}

	all, err := b.store.QueryAllPartitions(ctx, vector, b.perPart, nil)
	if err != nil {
		b.logger.Error("partition fan-out failed", "topic", topic, "err", err)
		return section
	}

	var passages []string
	for _, matches := range all {
		for _, match := range matches {
			text, ok := match.Metadata["text"].(string)
			if !ok || text == "" {
				continue
			}
			passages = append(passages, text)
			section.Sources = append(section.Sources, sourceLabel(match.ID, match.Metadata))
		}
	}
	if len(passages) == 0 {
		b.logger.Info("no material for topic", "topic", topic)
		return section
	}

	material := "Topic: " + topic + "\n\n" + strings.Join(passages, "\n---\n")
	summary, err := b.summarizer.Summarize(ctx, summaryInstruction, material)
	if err != nil {
		b.logger.Error("summarizer failed, section left empty",
			"topic", topic, "err", err)
		section.Sources = nil
		return section
	}
	section.Summary = summary

	b.logger.Info("section built", "topic", topic, "passages", len(passages))
	return section
}

// sourceLabel prefers a human-readable title, falling back to the vector
// ID.
func sourceLabel(id string, metadata map[string]any) string {
	if title, ok := metadata["title"].(string); ok && title != "" {
		return title
	}
	return id
}
