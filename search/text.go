package search

import "strings"

// stopWords never count toward a verbatim match.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

const wordPunctuation = ".,!?;:'\"-()[]{}"

// terms lowercases text, strips surrounding punctuation, and drops stop
// words.
func terms(text string) []string {
	var out []string
	for _, word := range strings.Fields(text) {
		word = strings.ToLower(strings.Trim(word, wordPunctuation))
		if word == "" || stopWords[word] {
			continue
		}
		out = append(out, word)
	}
	return out
}

// containsAllQueryWords reports whether every meaningful query term appears
// in the passage. A query reduced to nothing by stop-word filtering never
// matches.
func containsAllQueryWords(passage, query string) bool {
	queryTerms := terms(query)
	if len(queryTerms) == 0 {
		return false
	}

	present := make(map[string]bool)
	for _, term := range terms(passage) {
		present[term] = true
	}

	for _, term := range queryTerms {
		if !present[term] {
			return false
		}
	}
	return true
}
