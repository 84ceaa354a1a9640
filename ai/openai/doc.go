// Package openai provides the production implementations of the ai
// interfaces backed by OpenAI and OpenAI-compatible endpoints.
package openai
