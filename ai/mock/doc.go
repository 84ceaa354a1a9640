// Package mock provides test doubles for the ai interfaces. The doubles
// are deterministic by default and allow behavior injection via function
// fields, so tests can exercise failure paths without network access.
package mock
