// SPDX-License-Identifier: MPL-2.0

package buildscript

import (
	"os"
	"slices"
)

type (
	// Declaration is one "key [sep] value" occurrence in a build script.
	Declaration struct {
		Key string
		// Sep is the separator between key and value: "", "=", "+=", ":" or "(".
		Sep   string
		Value string
		// Quoted reports whether Value was a string literal.
		Quoted bool
		Line   int
	}

	// Script is the parsed, immutable declaration table of one build script.
	Script struct {
		decls    []Declaration
		byKey    map[string][]int
		excludes []string
		kind     Kind
	}
)

var separators = map[string]bool{"=": true, "+=": true, ":": true, "(": true}

// Parse tokenizes content once and builds its declaration table.
func Parse(content string) *Script {
	toks := tokenize(content)
	s := &Script{byKey: make(map[string][]int)}
	for i, tok := range toks {
		if tok.kind != tokWord {
			continue
		}
		d, ok := declarationAt(toks, i)
		if !ok {
			continue
		}
		s.byKey[d.Key] = append(s.byKey[d.Key], len(s.decls))
		s.decls = append(s.decls, d)
	}
	s.excludes = collectExcludes(toks)
	s.kind = detectKind(s)
	return s
}

// ParseFile reads and parses the build script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

func declarationAt(toks []token, i int) (Declaration, bool) {
	d := Declaration{Key: toks[i].text, Line: toks[i].line}
	j := i + 1
	if j < len(toks) && toks[j].kind == tokPunct && separators[toks[j].text] {
		d.Sep = toks[j].text
		j++
	}
	if j >= len(toks) {
		return Declaration{}, false
	}
	switch toks[j].kind {
	case tokString:
		d.Value, d.Quoted = toks[j].text, true
	case tokWord:
		d.Value = toks[j].text
	default:
		return Declaration{}, false
	}
	return d, true
}

// Declarations returns every declaration in document order.
func (s *Script) Declarations() []Declaration {
	return slices.Clone(s.decls)
}

// Lookup returns the declarations of key in document order.
func (s *Script) Lookup(key string) []Declaration {
	idx := s.byKey[key]
	out := make([]Declaration, len(idx))
	for i, n := range idx {
		out[i] = s.decls[n]
	}
	return out
}

// first returns the first declaration of the given keys, primary key first,
// accepted by valid.
func (s *Script) first(valid func(Declaration) bool, keys ...string) (Declaration, bool) {
	for _, key := range keys {
		for _, n := range s.byKey[key] {
			if valid(s.decls[n]) {
				return s.decls[n], true
			}
		}
	}
	return Declaration{}, false
}
