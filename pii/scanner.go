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


package pii

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Match is one detector hit inside a scanned string leaf.
type Match struct {
	Kind       Kind   `json:"kind"`
	Value      string `json:"value"`
	Context    string `json:"context"`
	LineNumber int    `json:"line_number"`
}

// ScanResult aggregates one scan over a dataset.
type ScanResult struct {
	Source          string       `json:"source"`
	ItemsScanned    int          `json:"items_scanned"`
	MatchesFound    int          `json:"matches_found"`
	KindsDetected   []Kind       `json:"kinds_detected"`
	MatchesByKind   map[Kind]int `json:"matches_by_kind"`
	CriticalMatches []Match      `json:"critical_matches,omitempty"`
	Warnings        []string     `json:"warnings,omitempty"`
	Passed          bool         `json:"passed"`
}

// Scanner walks arbitrarily nested data and applies the audit catalog to
// every string leaf it finds.
type Scanner struct {
	catalog  []Detector
	critical map[Kind]bool
	logger   *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerCatalog overrides the detector set. Default is the audit
// catalog.
func WithScannerCatalog(catalog []Detector) ScannerOption {
	return func(s *Scanner) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithScannerLogger sets a custom logger. Default is slog.Default().
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a scanner over the audit catalog.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		catalog: auditCatalog,
		logger:  slog.Default().With("component", "pii_scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.critical = make(map[Kind]bool)
	for _, det := range s.catalog {
		if det.Critical {
			s.critical[det.Kind] = true
		}
	}
	return s
}

// ScanText applies every detector to one string and returns all matches,
// each located by its line number within the string and the given context
// locator.
func (s *Scanner) ScanText(text, context string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	for _, det := range s.catalog {
		for _, loc := range det.Pattern.FindAllStringIndex(text, -1) {
			matches = append(matches, Match{
				Kind:       det.Kind,
				Value:      text[loc[0]:loc[1]],
				Context:    context,
				LineNumber: 1 + strings.Count(text[:loc[0]], "\n"),
			})
		}
	}
	return matches
}

// frame is one pending node in the iterative traversal.
type frame struct {
	value any
	path  string
}

// ScanData walks nested maps and slices rooted at data and scans every
// string leaf. The traversal is iterative, so arbitrarily deep input
// cannot exhaust the stack. Each leaf is located by a path such as
// "slack_export:messages[2].text". ItemsScanned counts every leaf visited,
// strings and scalars alike.
//
// Passed is true only when no critical kind was detected anywhere.
func (s *Scanner) ScanData(data any, source string) *ScanResult {
	result := &ScanResult{
		Source:        source,
		MatchesByKind: make(map[Kind]int),
		Passed:        true,
	}

	stack := []frame{{value: data, path: source}}

	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := fr.value.(type) {
		case map[string]any:
			for key, child := range v {
				stack = append(stack, frame{value: child, path: fr.path + "." + key})
			}
		case []any:
			for i, child := range v {
				stack = append(stack, frame{value: child, path: fmt.Sprintf("%s[%d]", fr.path, i)})
			}
		case string:
			result.ItemsScanned++
			s.record(result, s.ScanText(v, fr.path))
		default:
			result.ItemsScanned++
		}
	}

	kinds := make([]Kind, 0, len(result.MatchesByKind))
	for kind := range result.MatchesByKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	result.KindsDetected = kinds

	s.logger.Info("scan complete",
		"source", source,
		"items_scanned", result.ItemsScanned,
		"matches_found", result.MatchesFound,
		"critical", len(result.CriticalMatches),
		"passed", result.Passed)

	return result
}

// record folds a leaf's matches into the running result.
func (s *Scanner) record(result *ScanResult, matches []Match) {
	for _, m := range matches {
		result.MatchesFound++
		result.MatchesByKind[m.Kind]++

		if s.critical[m.Kind] {
			result.CriticalMatches = append(result.CriticalMatches, m)
			result.Passed = false
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s found at %s (line %d)", m.Kind, m.Context, m.LineNumber))
		}
	}
}

// Anonymize rewrites every detector hit in text with its kind placeholder.
// Used when samples of flagged content must appear in reports.
func (s *Scanner) Anonymize(text string) string {
	out := text
	for _, det := range s.catalog {
		out = det.Pattern.ReplaceAllString(out, placeholder(det.Kind))
	}
	return out
}
