package pii

import (
	"log/slog"
	"strings"
)

// Redaction records one substitution applied to a piece of text. Position
// and Length refer to the text as it stood when the substitution was made.
type Redaction struct {
	Kind        Kind   `json:"kind"`
	Position    int    `json:"position"`
	Length      int    `json:"length"`
	Replacement string `json:"replacement"`
}

// RedactionResult is the outcome of redacting one piece of text.
type RedactionResult struct {
	Text       string      `json:"text"`
	Redactions []Redaction `json:"redactions,omitempty"`
	Count      int         `json:"count"`
}

// Redactor replaces sensitive values in text with typed placeholders.
// Redaction is idempotent: placeholders do not match any detector, so
// redacting already-redacted text changes nothing.
type Redactor struct {
	enabled bool
	catalog []Detector
	logger  *slog.Logger
}

// RedactorOption configures a Redactor.
type RedactorOption func(*Redactor)

// WithRedactionDisabled turns the redactor into a pass-through. Content
// flows unchanged and no redactions are recorded.
func WithRedactionDisabled() RedactorOption {
	return func(r *Redactor) {
		r.enabled = false
	}
}

// WithRedactorCatalog overrides the detector set. Default is the
// redaction catalog.
func WithRedactorCatalog(catalog []Detector) RedactorOption {
	return func(r *Redactor) {
		if catalog != nil {
			r.catalog = catalog
		}
	}
}

// WithRedactorLogger sets a custom logger. Default is slog.Default().
func WithRedactorLogger(logger *slog.Logger) RedactorOption {
	return func(r *Redactor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRedactor creates a redactor over the inline-protection catalog.
func NewRedactor(opts ...RedactorOption) *Redactor {
	r := &Redactor{
		enabled: true,
		catalog: redactionCatalog,
		logger:  slog.Default().With("component", "redactor"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Redact applies every detector in catalog order and returns the redacted
// text along with a record of each substitution. Each matched value is
// replaced at its first remaining occurrence, so repeated values are
// rewritten one occurrence per match.
func (r *Redactor) Redact(text string) RedactionResult {
	if !r.enabled || text == "" {
		return RedactionResult{Text: text}
	}

	redacted := text
	var redactions []Redaction

	for _, det := range r.catalog {
		for {
			loc := det.Pattern.FindStringIndex(redacted)
			if loc == nil {
				break
			}
			value := redacted[loc[0]:loc[1]]
			redactions = append(redactions, Redaction{
				Kind:        det.Kind,
				Position:    loc[0],
				Length:      len(value),
				Replacement: det.Replacement,
			})
			redacted = strings.Replace(redacted, value, det.Replacement, 1)
		}
	}

	if len(redactions) > 0 {
		byKind := make(map[Kind]int, len(redactions))
		for _, red := range redactions {
			byKind[red.Kind]++
		}
		r.logger.Info("redacted sensitive data",
			"total", len(redactions),
			"by_kind", byKind)
	}

	return RedactionResult{
		Text:       redacted,
		Redactions: redactions,
		Count:      len(redactions),
	}
}

// RedactAll redacts a batch of texts, preserving order.
func (r *Redactor) RedactAll(texts []string) []RedactionResult {
	results := make([]RedactionResult, len(texts))
	for i, text := range texts {
		results[i] = r.Redact(text)
	}
	return results
}
