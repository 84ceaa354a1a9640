package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/teambrief/teambrief/cache"
	"github.com/teambrief/teambrief/embedding"
	"github.com/teambrief/teambrief/vecstore"
)

// verbatimBoost is added to a result's score when every query word
// appears in its text.
const verbatimBoost = 0.3

// Result is one ranked answer passage.
type Result struct {
	ID        string         `json:"id"`
	Score     float32        `json:"score"`
	Partition string         `json:"partition"`
	Title     string         `json:"title,omitempty"`
	Text      string         `json:"text,omitempty"`
	URL       string         `json:"url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Searcher answers queries over the vector store.
type Searcher struct {
	governor *embedding.Governor
	store    *vecstore.Store
	cache    *cache.Cache
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithCache attaches a response cache. Repeated queries are served from it
// without spending embedding budget.
func WithCache(c *cache.Cache) Option {
	return func(s *Searcher) {
		s.cache = c
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a searcher.
func NewSearcher(governor *embedding.Governor, store *vecstore.Store, opts ...Option) (*Searcher, error) {
	if governor == nil {
		return nil, ErrGovernorRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		governor: governor,
		store:    store,
		logger:   slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search returns up to maxHits passages relevant to the query. An empty
// source searches every partition. A budget-refused query degrades to an
// empty result.
func (s *Searcher) Search(ctx context.Context, query, source string, maxHits int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	cacheKey := fmt.Sprintf("search:%s:%d:%s", source, maxHits, query)
	if s.cache != nil {
		var cached []Result
		hit, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			s.logger.Warn("cache lookup failed", "err", err)
		} else if hit {
			s.logger.Debug("cache hit", "query", query)
			return cached, nil
		}
	}

	vector, err := s.governor.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if vector == nil {
		s.logger.Warn("query embedding refused, returning empty result",
			"query", query)
		return []Result{}, nil
	}

	var results []Result
	if source != "" {
		matches, err := s.store.Query(ctx, vector, source, maxHits, nil)
		if err != nil {
			return nil, err
		}
		partition := s.store.PartitionFor(source)
		for _, match := range matches {
			results = append(results, toResult(match.ID, match.Score, partition, match.Metadata))
		}
	} else {
		all, err := s.store.QueryAllPartitions(ctx, vector, maxHits, nil)
		if err != nil {
			return nil, err
		}
		for partition, matches := range all {
			for _, match := range matches {
				results = append(results, toResult(match.ID, match.Score, partition, match.Metadata))
			}
		}
	}

	for i := range results {
		if containsAllQueryWords(results[i].Text, query) {
			results[i].Score += verbatimBoost
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].ID < results[j].ID
		}
		return results[i].Score > results[j].Score
	})
	if maxHits > 0 && len(results) > maxHits {
		results = results[:maxHits]
	}

	if s.cache != nil && len(results) > 0 {
		if err := s.cache.Set(cacheKey, results, 0); err != nil {
			s.logger.Warn("cache store failed", "err", err)
		}
	}

	s.logger.Info("search complete", "query", query, "hits", len(results))
	return results, nil
}

func toResult(id string, score float32, partition string, metadata map[string]any) Result {
	result := Result{
		ID:        id,
		Score:     score,
		Partition: partition,
		Metadata:  metadata,
	}
	if title, ok := metadata["title"].(string); ok {
		result.Title = title
	}
	if text, ok := metadata["text"].(string); ok {
		result.Text = text
	}
	if url, ok := metadata["url"].(string); ok {
		result.URL = url
	}
	return result
}
