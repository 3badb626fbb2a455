package outline

import (
	"errors"
	"fmt"
	"strings"
)

// TokenSource is the pull-based stream the parser consumes. Line reports the
// 1-based line of the token last returned by Next.
type TokenSource interface {
	Next() (string, bool)
	Line() int
}

// StructuralError reports a closing bracket that does not match the
// innermost open bracket. It aborts the whole parse; no partial tree is
// returned for the malformed region.
type StructuralError struct {
	Line int // 1-based
	Want string
	Got  string
}

func (e *StructuralError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("bracket mismatch at line %d: unmatched %q", e.Line, e.Got)
	}
	return fmt.Sprintf("bracket mismatch at line %d: expected %q, found %q", e.Line, e.Want, e.Got)
}

// ErrUnexpectedEOF is wrapped into the error returned when the token stream
// ends before a required declaration terminator.
var ErrUnexpectedEOF = errors.New("token stream ended before declaration terminator")

const (
	openBrackets  = "([{<"
	closeBrackets = ")]}>"
)

func closerFor(open string) string {
	i := strings.Index(openBrackets, open)
	return string(closeBrackets[i])
}

// readTo consumes tokens until target is seen while the local bracket stack
// is empty, validating bracket nesting along the way. The visitor, when
// non-nil, observes every consumed token including brackets and the terminal
// target; a visitor error aborts the scan. An empty target consumes the
// entire remaining stream.
func (p *parser) readTo(target string, visit func(tok string) error) error {
	var stack []string
	for {
		tok, ok := p.src.Next()
		if !ok {
			if target == "" {
				return nil
			}
			return fmt.Errorf("line %d: %w", p.src.Line(), ErrUnexpectedEOF)
		}
		switch {
		case len(tok) == 1 && strings.Contains(closeBrackets, tok):
			if len(stack) > 0 {
				want := closerFor(stack[len(stack)-1])
				if want != tok {
					return &StructuralError{Line: p.src.Line(), Want: want, Got: tok}
				}
				stack = stack[:len(stack)-1]
			} else if tok != target {
				return &StructuralError{Line: p.src.Line(), Got: tok}
			}
		case len(tok) == 1 && strings.Contains(openBrackets, tok):
			stack = append(stack, tok)
		}
		if visit != nil {
			if err := visit(tok); err != nil {
				if errors.Is(err, errStopScan) {
					return nil
				}
				return err
			}
		}
		if target != "" && tok == target && len(stack) == 0 {
			return nil
		}
	}
}

// errStopScan lets a visitor end a scan early once it has located the true
// end of a declaration (an rpc option block without a trailing semicolon).
var errStopScan = errors.New("stop scan")
