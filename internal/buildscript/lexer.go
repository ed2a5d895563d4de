// SPDX-License-Identifier: MPL-2.0

package buildscript

import "strings"

type (
	tokenKind int

	token struct {
		kind tokenKind
		text string
		line int
	}

	lexer struct {
		src  string
		pos  int
		line int
	}
)

const (
	tokWord tokenKind = iota + 1
	tokString
	tokPunct
)

// tokenize splits src into words, string literals and punctuation, dropping
// whitespace and comments.
func tokenize(src string) []token {
	lx := &lexer{src: src, line: 1}
	var toks []token
	for {
		tok, ok := lx.next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (lx *lexer) next() (token, bool) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == ';':
			lx.pos++
		case c == '/' && lx.peek(1) == '/':
			lx.skipLineComment()
		case c == '/' && lx.peek(1) == '*':
			lx.skipBlockComment()
		case c == '"' || c == '\'':
			return lx.readString(c), true
		case isWordByte(c):
			return lx.readWord(), true
		case c == '+' && lx.peek(1) == '=':
			lx.pos += 2
			return token{kind: tokPunct, text: "+=", line: lx.line}, true
		default:
			lx.pos++
			return token{kind: tokPunct, text: string(c), line: lx.line}, true
		}
	}
	return token{}, false
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) skipLineComment() {
	if i := strings.IndexByte(lx.src[lx.pos:], '\n'); i >= 0 {
		lx.pos += i
		return
	}
	lx.pos = len(lx.src)
}

func (lx *lexer) skipBlockComment() {
	end := strings.Index(lx.src[lx.pos+2:], "*/")
	if end < 0 {
		lx.line += strings.Count(lx.src[lx.pos:], "\n")
		lx.pos = len(lx.src)
		return
	}
	body := lx.src[lx.pos : lx.pos+2+end+2]
	lx.line += strings.Count(body, "\n")
	lx.pos += len(body)
}

// readString reads a literal delimited by quote. Backslash escapes the next
// byte. An unterminated literal ends at the end of its line.
func (lx *lexer) readString(quote byte) token {
	line := lx.line
	lx.pos++
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.pos++
			return token{kind: tokString, text: b.String(), line: line}
		case c == '\n':
			return token{kind: tokString, text: b.String(), line: line}
		case c == '\\' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] != '\n':
			b.WriteByte(unescape(lx.src[lx.pos+1]))
			lx.pos += 2
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
	return token{kind: tokString, text: b.String(), line: line}
}

func (lx *lexer) readWord() token {
	start := lx.pos
	for lx.pos < len(lx.src) && isWordByte(lx.src[lx.pos]) {
		lx.pos++
	}
	return token{kind: tokWord, text: lx.src[start:lx.pos], line: lx.line}
}

func isWordByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '$' || c == '-':
		return true
	}
	return false
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}
