// Package audit turns PII scan results into pre-ingestion audit reports
// and projects embedding volume and spend before a source is switched on.
package audit
