// Package digest builds scheduled topic digests: each topic query is
// embedded under the budget governor, fanned out across every source
// partition, and the retrieved passages are condensed by an LLM
// summarizer into one section per topic.
package digest
