package chunk

import (
	"log/slog"
	"maps"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultChunkSize is the default window size in tokens.
	DefaultChunkSize = 500
	// DefaultOverlapSize is the default number of overlapping tokens
	// between consecutive segments.
	DefaultOverlapSize = 50
	// DefaultEncoding is the tokenizer encoding used for sizing and billing.
	DefaultEncoding = "cl100k_base"
)

// Segment is one token-bounded slice of a document, the unit of embedding.
type Segment struct {
	Content    string
	Metadata   map[string]any
	TokenCount int
	Index      int
}

// Chunker splits text into token-sized segments with overlap.
type Chunker struct {
	chunkSize   int
	overlapSize int
	encoding    *tiktoken.Tiktoken
	logger      *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlapSize sets the overlap between consecutive segments in tokens.
func WithOverlapSize(size int) Option {
	return func(c *Chunker) {
		c.overlapSize = size
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChunker creates a chunker over the cl100k_base encoding.
// The overlap must be smaller than the window size; anything else would
// prevent the window from advancing.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize:   DefaultChunkSize,
		overlapSize: DefaultOverlapSize,
		logger:      slog.Default().With("component", "chunker"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if c.overlapSize < 0 || c.overlapSize >= c.chunkSize {
		return nil, ErrInvalidOverlap
	}

	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, err
	}
	c.encoding = encoding

	return c, nil
}

// CountTokens counts tokens in text under the configured encoding.
func (c *Chunker) CountTokens(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// Chunk splits text into segments with overlap. The given metadata is
// attached to every segment, augmented with chunk_index, total_chunks and
// the start_token/end_token offsets of the window.
//
// Empty or whitespace-only text yields no segments.
func (c *Chunker) Chunk(text string, metadata map[string]any) []Segment {
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("empty text provided for chunking")
		return nil
	}

	tokens := c.encoding.Encode(text, nil, nil)
	total := len(tokens)

	if total <= c.chunkSize {
		// Text fits in a single segment
		return []Segment{{
			Content:    text,
			Metadata:   cloneMetadata(metadata),
			TokenCount: total,
			Index:      0,
		}}
	}

	var segments []Segment
	step := c.chunkSize - c.overlapSize

	for start := 0; start < total; start += step {
		end := min(start+c.chunkSize, total)

		window := tokens[start:end]
		meta := cloneMetadata(metadata)
		meta["chunk_index"] = len(segments)
		meta["total_chunks"] = 0 // Filled in below once all windows exist
		meta["start_token"] = start
		meta["end_token"] = end

		segments = append(segments, Segment{
			Content:    c.encoding.Decode(window),
			Metadata:   meta,
			TokenCount: len(window),
			Index:      len(segments),
		})

		if end >= total {
			break
		}
	}

	for i := range segments {
		segments[i].Metadata["total_chunks"] = len(segments)
	}

	c.logger.Info("text chunked",
		"total_tokens", total,
		"num_chunks", len(segments),
		"avg_chunk_size", total/len(segments))

	return segments
}

// ChunkDocument chunks content with the standard per-document metadata set.
func (c *Chunker) ChunkDocument(content, source, sourceID, author, timestamp, url string, additional map[string]any) []Segment {
	metadata := map[string]any{
		"source":    source,
		"source_id": sourceID,
		"author":    author,
		"timestamp": timestamp,
		"url":       url,
	}
	maps.Copy(metadata, additional)

	return c.Chunk(content, metadata)
}

func cloneMetadata(metadata map[string]any) map[string]any {
	clone := make(map[string]any, len(metadata)+4)
	maps.Copy(clone, metadata)
	return clone
}
