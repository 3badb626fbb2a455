package outline

import (
	"fmt"
	"strings"

	"github.com/lexcodex/protolens/token"
)

// scope is the ephemeral parse context passed to member builders: the kind
// of the currently open container and the node collecting its children. The
// container keyword is carried separately from the node's Kind because a
// oneof node shares KindEnum with real enums but its members are ordinary
// fields, not enum values.
type scope struct {
	container string // "message", "enum", "service", "oneof"
	node      *Node
}

type parser struct {
	src TokenSource
}

// Parse runs a single full pass over the token source and returns the
// top-level outline nodes in source order. It fails on the first bracket
// mismatch or on a stream that ends inside a declaration; parses are
// independent and a given source always yields a structurally identical
// tree.
func Parse(src TokenSource) ([]*Node, error) {
	p := &parser{src: src}
	var roots []*Node
	err := p.readTo("", func(tok string) error {
		node, err := p.dispatch(tok, nil)
		if err != nil {
			return err
		}
		if node != nil {
			roots = append(roots, node)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// ParseText scans and parses raw protobuf source in one call.
func ParseText(text string) ([]*Node, error) {
	return Parse(token.NewScanner(text))
}

// dispatch classifies one already-read token and routes it to the matching
// builder. It returns the built node, or nil when the token was discarded
// (unsupported constructs, stray top-level statements, bare punctuation).
func (p *parser) dispatch(tok string, sc *scope) (*Node, error) {
	switch tok {
	case "message":
		return p.block(tok, KindStruct, sc)
	case "enum":
		return p.block(tok, KindEnum, sc)
	case "service":
		return p.block(tok, KindClass, sc)
	case "rpc":
		return p.method(sc)
	case "group", "extend":
		return nil, p.readTo("}", nil)
	case "option", "reserved":
		return nil, p.readTo(";", nil)
	}
	if len(tok) == 1 && strings.ContainsAny(tok, openBrackets+closeBrackets+";") {
		// Brackets never start a declaration and a bare semicolon is a
		// proto empty statement.
		return nil, nil
	}
	if sc == nil {
		// Tolerate stray top-level statements such as syntax, package,
		// import.
		return nil, p.readTo(";", nil)
	}
	return p.field(tok, sc)
}

// block builds a container node for message, enum, or service. Members are
// dispatched with the new container as parent; the range is finalized only
// after the body scan completes.
func (p *parser) block(keyword string, kind Kind, parent *scope) (*Node, error) {
	start := p.src.Line() - 1
	name, ok := p.src.Next()
	if !ok {
		return nil, streamEnd(p.src)
	}
	node := &Node{
		Name:          name,
		Detail:        keyword,
		Kind:          kind,
		StartLine:     start,
		SelectionLine: start,
	}
	inner := &scope{container: keyword, node: node}
	err := p.readTo("}", func(tok string) error {
		child, err := p.dispatch(tok, inner)
		if err != nil {
			return err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	node.EndLine = p.src.Line() - 1
	return node, nil
}

// method builds a leaf node for one rpc declaration. The detail reproduces
// the compact signature, e.g. "rpc(Foo) returns (Bar)"; a trailing option
// block freezes the detail but is still consumed so the enclosing scan stays
// positioned at the true declaration end.
func (p *parser) method(parent *scope) (*Node, error) {
	start := p.src.Line() - 1
	name, ok := p.src.Next()
	if !ok {
		return nil, streamEnd(p.src)
	}
	detail := "rpc"
	inBody := false
	depth := 0
	err := p.readTo(";", func(tok string) error {
		switch {
		case tok == "{":
			inBody = true
			depth++
		case tok == "}":
			depth--
			if depth == 0 {
				// Closing the option block ends the declaration
				// even without a trailing semicolon.
				return errStopScan
			}
		case inBody || tok == ";":
		case tok == "returns":
			detail += " returns "
		default:
			detail += tok
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Node{
		Name:          name,
		Detail:        detail,
		Kind:          KindMethod,
		StartLine:     start,
		EndLine:       p.src.Line() - 1,
		SelectionLine: start,
	}, nil
}

var cardinalities = map[string]bool{
	"required": true,
	"optional": true,
	"repeated": true,
}

// field builds a node for a single field, enum value, or map entry from the
// already-read first token. Disambiguation follows a fixed order: map
// fields, enum-body values, cardinality-prefixed fields, then plain typed
// fields; a oneof becomes a small container whose members are dispatched
// recursively.
func (p *parser) field(first string, sc *scope) (*Node, error) {
	start := p.src.Line() - 1
	node := &Node{StartLine: start, SelectionLine: start}

	switch {
	case first == "map":
		detail := "map"
		err := p.readTo(">", func(tok string) error {
			detail += tok
			if tok == "," {
				detail += " "
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		name, ok := p.src.Next()
		if !ok {
			return nil, streamEnd(p.src)
		}
		node.Name = name
		node.Detail = detail
		node.Kind = KindObject

	case sc.container == "enum":
		node.Name = first
		node.Detail = ""
		node.Kind = KindEnumMember

	default:
		second, ok := p.src.Next()
		if !ok {
			return nil, streamEnd(p.src)
		}
		var typ string
		if cardinalities[first] {
			name, ok := p.src.Next()
			if !ok {
				return nil, streamEnd(p.src)
			}
			typ = second
			node.Name = name
			node.Detail = first + " " + typ
			if first == "repeated" {
				node.Kind = KindArray
			} else {
				node.Kind = typeKind(typ)
			}
		} else {
			typ = first
			node.Name = second
			node.Detail = typ
			node.Kind = typeKind(typ)
		}
		if typ == "group" {
			// proto2 groups are discarded whether or not a label
			// precedes them; consuming the body keeps the enclosing
			// scan positioned at the next sibling.
			return nil, p.readTo("}", nil)
		}
		if typ == "oneof" {
			node.Kind = KindEnum
			inner := &scope{container: "oneof", node: node}
			err := p.readTo("}", func(tok string) error {
				child, err := p.dispatch(tok, inner)
				if err != nil {
					return err
				}
				if child != nil {
					node.Children = append(node.Children, child)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			node.EndLine = p.src.Line() - 1
			return node, nil
		}
	}

	// Ordinary fields, map entries, and enum values carry no nested
	// structure; discard through the terminating semicolon.
	if err := p.readTo(";", nil); err != nil {
		return nil, err
	}
	node.EndLine = p.src.Line() - 1
	return node, nil
}

func typeKind(typ string) Kind {
	if typ == "bool" {
		return KindBoolean
	}
	return KindField
}

func streamEnd(src TokenSource) error {
	return fmt.Errorf("line %d: %w", src.Line(), ErrUnexpectedEOF)
}
