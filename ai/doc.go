// Package ai defines the model-provider interfaces the pipeline depends
// on: embedding generation with billed token accounting, and text
// summarization for digest building. Concrete implementations live in
// subpackages (openai for production, mock for tests).
package ai
