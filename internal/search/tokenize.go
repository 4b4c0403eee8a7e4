// Package search implements the lazy per-crate BM25 index with
// authority weighting (SPEC_FULL.md §4.6), grounded on
// original_source/ferritin-common/src/search/indexer.rs (document
// corpus construction via tree traversal, CamelCase/snake_case/
// kebab-case sub-tokenization, authority-from-inbound-links, BM25
// scoring) adapted onto this repo's Navigator/ChildIterator instead
// of indexer.rs's own hand-rolled recursion.
package search

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text, splits on everything that isn't a letter,
// digit, hyphen, or underscore, then further splits each resulting
// word along CamelCase/snake_case/kebab-case boundaries — emitting
// both the whole word and its sub-words as terms (SPEC_FULL.md §4.6
// "Tokenization").
func Tokenize(text string) []string {
	var tokens []string
	for _, word := range splitWords(text) {
		subwords := splitSubwords(word)
		if len(subwords) > 1 {
			tokens = append(tokens, subwords...)
			tokens = append(tokens, strings.ToLower(word))
		} else if len(word) > 0 {
			tokens = append(tokens, strings.ToLower(word))
		}
	}
	return tokens
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func splitWords(text string) []string {
	var words []string
	start := -1
	runes := []rune(text)
	for i, r := range runes {
		if isWordChar(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			words = append(words, string(runes[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

// splitSubwords splits a word on '-'/'_' and on lower-to-upper case
// transitions, returning lowercase sub-tokens only (no punctuation
// runs).
func splitSubwords(word string) []string {
	var subs []string
	runes := []rune(word)
	start := 0
	prevLower := false
	for i, r := range runes {
		if r == '-' || r == '_' {
			if i > start {
				subs = append(subs, strings.ToLower(string(runes[start:i])))
			}
			start = i + 1
			prevLower = false
			continue
		}
		isUpper := unicode.IsUpper(r)
		if prevLower && isUpper && i > start {
			subs = append(subs, strings.ToLower(string(runes[start:i])))
			start = i
		}
		prevLower = unicode.IsLower(r)
	}
	if start < len(runes) {
		subs = append(subs, strings.ToLower(string(runes[start:])))
	}
	return subs
}

// stripFencedCode removes ```...``` fenced code blocks from a doc
// string before it's tokenized, matching SPEC_FULL.md §4.6's
// "documentation string with fenced code blocks stripped".
func stripFencedCode(docs string) string {
	var b strings.Builder
	lines := strings.Split(docs, "\n")
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
