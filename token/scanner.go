// Package token provides the lexical scanner consumed by the outline
// parser. Tokens are plain strings: punctuation characters stand alone,
// quoted strings are kept whole, and everything else is a maximal run of
// non-space, non-punctuation characters.
package token

import "strings"

const punctuation = "{}()[]<>;,="

// Scanner is a pull-based token source over one document. It tracks the
// 1-based line of the most recently returned token so callers can attach
// positions to declarations without re-scanning the text.
type Scanner struct {
	src  string
	pos  int
	line int
}

// NewScanner returns a scanner positioned at the start of text.
func NewScanner(text string) *Scanner {
	return &Scanner{src: text, line: 1}
}

// Line reports the 1-based line number of the token last returned by Next.
// Before the first call it reports 1.
func (s *Scanner) Line() int {
	return s.line
}

// Next returns the next token, or false when the stream is exhausted.
// Whitespace, // line comments, and /* */ block comments are skipped.
func (s *Scanner) Next() (string, bool) {
	s.skipBlanks()
	if s.pos >= len(s.src) {
		return "", false
	}
	c := s.src[s.pos]
	if strings.IndexByte(punctuation, c) >= 0 {
		s.pos++
		return string(c), true
	}
	if c == '"' || c == '\'' {
		return s.scanString(c), true
	}
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isSpace(c) || strings.IndexByte(punctuation, c) >= 0 || c == '"' || c == '\'' {
			break
		}
		// Stop before a comment opener glued to an identifier.
		if c == '/' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == '/' || s.src[s.pos+1] == '*') {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos], true
}

func (s *Scanner) skipBlanks() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case isSpace(c):
			s.pos++
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			s.pos += 2
			for s.pos < len(s.src) {
				if s.src[s.pos] == '\n' {
					s.line++
				} else if s.src[s.pos] == '*' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/' {
					s.pos += 2
					break
				}
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanString(quote byte) string {
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
			continue
		}
		if c == '\n' {
			s.line++
		}
		s.pos++
		if c == quote {
			break
		}
	}
	return s.src[start:s.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
