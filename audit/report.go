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


package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teambrief/teambrief/pii"
)

// maxSampleLength bounds how much of a flagged value a report may show,
// even after anonymization.
const maxSampleLength = 80

// Sample is one anonymized excerpt of a critical finding.
type Sample struct {
	Kind       pii.Kind `json:"kind"`
	Excerpt    string   `json:"excerpt"`
	Context    string   `json:"context"`
	LineNumber int      `json:"line_number"`
}

// Report is the JSON artifact of one pre-ingestion audit.
type Report struct {
	ReportID        string           `json:"report_id"`
	Source          string           `json:"source"`
	GeneratedAt     time.Time        `json:"generated_at"`
	ItemsScanned    int              `json:"items_scanned"`
	MatchesFound    int              `json:"matches_found"`
	KindsDetected   []pii.Kind       `json:"kinds_detected"`
	MatchesByKind   map[pii.Kind]int `json:"matches_by_kind"`
	CriticalSamples []Sample         `json:"critical_samples,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	Passed          bool             `json:"passed"`
	Recommendation  string           `json:"recommendation"`
}

// NewReport builds an audit report from a scan. Critical findings are
// anonymized through the scanner before any excerpt is kept, so the report
// itself never carries the data it flags.
func NewReport(result *pii.ScanResult, scanner *pii.Scanner) (*Report, error) {
	if result == nil {
		return nil, ErrNilScanResult
	}
	if scanner == nil {
		scanner = pii.NewScanner()
	}

	report := &Report{
		ReportID:      uuid.NewString(),
		Source:        result.Source,
		GeneratedAt:   time.Now().UTC(),
		ItemsScanned:  result.ItemsScanned,
		MatchesFound:  result.MatchesFound,
		KindsDetected: result.KindsDetected,
		MatchesByKind: result.MatchesByKind,
		Warnings:      result.Warnings,
		Passed:        result.Passed,
	}

	for _, match := range result.CriticalMatches {
		report.CriticalSamples = append(report.CriticalSamples, Sample{
			Kind:       match.Kind,
			Excerpt:    truncate(scanner.Anonymize(match.Value), maxSampleLength),
			Context:    match.Context,
			LineNumber: match.LineNumber,
		})
	}

	report.Recommendation = recommendation(result)
	return report, nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func recommendation(result *pii.ScanResult) string {
	if result.Passed {
		if result.MatchesFound == 0 {
			return "No sensitive data detected. Source is cleared for ingestion."
		}
		return fmt.Sprintf(
			"%d non-critical finding(s) detected. Inline redaction will handle them; source is cleared for ingestion.",
			result.MatchesFound)
	}

	kinds := make([]string, 0, len(result.MatchesByKind))
	for _, kind := range result.KindsDetected {
		if len(result.CriticalMatches) > 0 && countKind(result.CriticalMatches, kind) > 0 {
			kinds = append(kinds, string(kind))
		}
	}
	return fmt.Sprintf(
		"%d critical finding(s) [%s]. Rotate the exposed credentials, remediate at the source, and re-run the audit before ingestion.",
		len(result.CriticalMatches), strings.Join(kinds, ", "))
}

func countKind(matches []pii.Match, kind pii.Kind) int {
	n := 0
	for _, m := range matches {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
