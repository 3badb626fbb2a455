package server

import (
	"go.lsp.dev/protocol"

	"github.com/lexcodex/protolens/outline"
)

// toDocumentSymbols converts an outline tree to LSP document symbols.
// Outline lines are already 0-based, matching the protocol.
func toDocumentSymbols(nodes []*outline.Node) []protocol.DocumentSymbol {
	symbols := make([]protocol.DocumentSymbol, 0, len(nodes))
	for _, node := range nodes {
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:   node.Name,
			Detail: node.Detail,
			Kind:   symbolKind(node.Kind),
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(node.StartLine)},
				End:   protocol.Position{Line: uint32(node.EndLine)},
			},
			SelectionRange: protocol.Range{
				Start: protocol.Position{Line: uint32(node.SelectionLine)},
				End:   protocol.Position{Line: uint32(node.SelectionLine)},
			},
			Children: toDocumentSymbols(node.Children),
		})
	}
	return symbols
}

func symbolKind(kind outline.Kind) protocol.SymbolKind {
	switch kind {
	case outline.KindStruct:
		return protocol.SymbolKindStruct
	case outline.KindEnum:
		return protocol.SymbolKindEnum
	case outline.KindMethod:
		return protocol.SymbolKindMethod
	case outline.KindClass:
		return protocol.SymbolKindClass
	case outline.KindBoolean:
		return protocol.SymbolKindBoolean
	case outline.KindArray:
		return protocol.SymbolKindArray
	case outline.KindObject:
		return protocol.SymbolKindObject
	case outline.KindEnumMember:
		return protocol.SymbolKindEnumMember
	default:
		return protocol.SymbolKindField
	}
}
