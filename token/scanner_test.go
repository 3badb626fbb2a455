package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *Scanner) []string {
	var tokens []string
	for {
		tok, ok := s.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestScannerTokens(t *testing.T) {
	s := NewScanner(`message Bar { int32 i32 = 1; }`)
	assert.Equal(t, []string{"message", "Bar", "{", "int32", "i32", "=", "1", ";", "}"}, drain(s))
}

func TestScannerPunctuationSplit(t *testing.T) {
	s := NewScanner(`map<int32, string> m = 1 [packed=true];`)
	assert.Equal(t,
		[]string{"map", "<", "int32", ",", "string", ">", "m", "=", "1", "[", "packed", "=", "true", "]", ";"},
		drain(s))
}

func TestScannerStringsAndComments(t *testing.T) {
	src := `syntax = "proto3"; // trailing
/* block
   comment */
package demo.v1;`
	s := NewScanner(src)
	var tokens []string
	var lines []int
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
		lines = append(lines, s.Line())
	}
	require.Equal(t, []string{"syntax", "=", `"proto3"`, ";", "package", "demo.v1", ";"}, tokens)
	assert.Equal(t, []int{1, 1, 1, 1, 4, 4, 4}, lines)
}

func TestScannerLineCounting(t *testing.T) {
	s := NewScanner("a\nb\n\nc")
	tok, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "a", tok)
	assert.Equal(t, 1, s.Line())
	s.Next()
	assert.Equal(t, 2, s.Line())
	s.Next()
	assert.Equal(t, 4, s.Line())
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestScannerEscapedString(t *testing.T) {
	s := NewScanner(`option note = "a \"quoted\" value";`)
	assert.Equal(t, []string{"option", "note", "=", `"a \"quoted\" value"`, ";"}, drain(s))
}
