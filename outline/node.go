// Package outline builds a hierarchical symbol tree from protobuf source
// text. It works directly on the lexical token stream: bracket-aware
// scanning, recursive block decomposition, and field/type/cardinality
// disambiguation. It performs no semantic validation.
package outline

// Kind classifies one declaration in the outline.
type Kind int

const (
	// KindStruct tags message declarations.
	KindStruct Kind = iota
	// KindEnum tags enum and oneof declarations.
	KindEnum
	// KindMethod tags rpc declarations.
	KindMethod
	// KindClass tags service declarations.
	KindClass
	// KindField tags ordinary fields.
	KindField
	// KindBoolean tags fields of type bool.
	KindBoolean
	// KindArray tags repeated fields.
	KindArray
	// KindObject tags map fields.
	KindObject
	// KindEnumMember tags enum values.
	KindEnumMember
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	case KindField:
		return "field"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEnumMember:
		return "enum member"
	default:
		return "unknown"
	}
}

// Node is one declaration in the symbol tree. Line numbers are 0-based and
// inclusive; StartLine <= SelectionLine <= EndLine, and every child's span
// lies inside its parent's. Children keep source declaration order.
type Node struct {
	Name          string
	Detail        string
	Kind          Kind
	StartLine     int
	EndLine       int
	SelectionLine int
	Children      []*Node
}
