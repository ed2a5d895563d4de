// SPDX-License-Identifier: MPL-2.0

package buildscript

import (
	"slices"
	"strings"
)

var collectionBuilders = map[string]bool{
	"setOf": true, "listOf": true, "mutableSetOf": true, "mutableListOf": true,
}

// Excludes returns the exclusion patterns: the items of the first
// resources.excludes list assignment, then every exclude "x" and
// exclude group: "x" pattern in document order. Duplicates are kept.
func (s *Script) Excludes() []string {
	return slices.Clone(s.excludes)
}

func collectExcludes(toks []token) []string {
	var list, patterns []string
	listSeen := false
	for i, tok := range toks {
		if tok.kind != tokWord {
			continue
		}
		switch {
		case tok.text == "resources.excludes":
			if listSeen {
				continue
			}
			if items, ok := listAssignment(toks, i+1); ok {
				list = items
				listSeen = true
			}
		case tok.text == "exclude" || strings.HasSuffix(tok.text, ".exclude"):
			// The suffix form covers configuration selectors like all*.exclude.
			if p, ok := excludePattern(toks, i+1); ok {
				patterns = append(patterns, p)
			}
		}
	}
	return append(list, patterns...)
}

// listAssignment parses "= [a, b]", "+= [a, b]" or "+= setOf(a, b)" starting
// at toks[i].
func listAssignment(toks []token, i int) ([]string, bool) {
	if !isPunct(toks, i, "=") && !isPunct(toks, i, "+=") {
		return nil, false
	}
	i++
	closing := "]"
	switch {
	case isPunct(toks, i, "["):
		i++
	case i+1 < len(toks) && toks[i].kind == tokWord && collectionBuilders[toks[i].text] && isPunct(toks, i+1, "("):
		closing = ")"
		i += 2
	default:
		return nil, false
	}

	var items []string
	for ; i < len(toks); i++ {
		tok := toks[i]
		if tok.kind == tokPunct {
			if tok.text == closing {
				return items, true
			}
			continue
		}
		if item := strings.TrimSpace(tok.text); item != "" {
			items = append(items, item)
		}
	}
	// Unterminated list: keep what was read.
	return items, true
}

// excludePattern parses ` "x"` or ` group: "x"` following an exclude keyword.
func excludePattern(toks []token, i int) (string, bool) {
	if i < len(toks) && toks[i].kind == tokWord && toks[i].text == "group" && isPunct(toks, i+1, ":") {
		i += 2
	}
	if i >= len(toks) || toks[i].kind != tokString {
		return "", false
	}
	p := strings.TrimSpace(toks[i].text)
	return p, p != ""
}

func isPunct(toks []token, i int, text string) bool {
	return i < len(toks) && toks[i].kind == tokPunct && toks[i].text == text
}
