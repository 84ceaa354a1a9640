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


package core

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Source must be a known source
//   - SourceID must not be empty
//   - Timestamp must not be in the future
//
// NOT validated:
//   - Metadata (free-form, source specific)
//   - Title/Author/URL (optional on several platforms)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if err := ValidateSource(doc.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if doc.SourceID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySourceID)
	}

	if !IsValidTimestamp(doc.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateSource validates that a Source has a known value.
func ValidateSource(source Source) error {
	switch source {
	case SourceChat, SourceDocs, SourceDrive:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidSource, source)
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
// The zero value is accepted: several platforms omit timestamps entirely.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
