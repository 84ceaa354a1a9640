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


// Package pii detects and redacts personally identifiable information and
// credentials in free text and in structured data.
//
// Two catalogs of table-driven detectors are provided:
//
//   - the redaction catalog, applied inline to content entering storage;
//   - the audit catalog, a stricter set used to gate datasets before they
//     are approved for embedding.
//
// Detectors are plain data records (kind, pattern, criticality,
// replacement); adding a detector never touches scan or redact control
// flow.
package pii
