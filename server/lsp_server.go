// Package server hosts the outline parser behind an LSP endpoint: document
// tracking with full-text sync, a per-document result cache keyed by the
// editor's version counter, and a stale-outline fallback for parses that
// fail mid-edit.
package server

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/protolens/outline"
	"github.com/lexcodex/protolens/persistence"
)

// Server implements the language server endpoints protolens supports.
type Server struct {
	Config Config
	Index  *persistence.SymbolIndex

	mu     sync.RWMutex
	docs   map[protocol.DocumentURI]*Document
	cache  map[protocol.DocumentURI]*cachedOutline
	logger *log.Logger
}

// Document tracks one open file from the editor. Dirty is set on every
// change and cleared on save; it gates parse-failure logging so in-progress
// edits do not spam the log.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int32
	Text       string
	Dirty      bool
}

type cachedOutline struct {
	version int32
	symbols []protocol.DocumentSymbol
}

// New builds a server instance. The index may be nil, in which case
// workspace/symbol is not advertised.
func New(cfg Config, index *persistence.SymbolIndex, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Config: cfg,
		Index:  index,
		docs:   make(map[protocol.DocumentURI]*Document),
		cache:  make(map[protocol.DocumentURI]*cachedOutline),
		logger: logger,
	}
}

// Initialize answers the LSP initialize request.
func (s *Server) Initialize(params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if params != nil && params.ClientInfo != nil {
		s.logger.Printf("initialize from %s", params.ClientInfo.Name)
	}
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{},
			},
			DocumentSymbolProvider:  true,
			WorkspaceSymbolProvider: s.Index != nil,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "protolens",
			Version: "0.1",
		},
	}, nil
}

// DidOpen stores document state.
func (s *Server) DidOpen(item protocol.TextDocumentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[item.URI] = &Document{
		URI:        item.URI,
		LanguageID: string(item.LanguageID),
		Version:    item.Version,
		Text:       item.Text,
	}
}

// DidChange replaces document text (full sync) and marks it dirty.
func (s *Server) DidChange(uri protocol.DocumentURI, version int32, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return fmt.Errorf("document %s not tracked", uri)
	}
	doc.Text = text
	doc.Version = version
	doc.Dirty = true
	return nil
}

// DidSave clears the transient-edit flag.
func (s *Server) DidSave(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[uri]; ok {
		doc.Dirty = false
	}
}

// DidClose drops the document and its cached outline.
func (s *Server) DidClose(uri protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
	delete(s.cache, uri)
}

// DocumentSymbols answers textDocument/documentSymbol for a tracked
// document. The cache is consulted before invoking the parser and updated
// only on a successful parse; when a parse fails, the last good outline is
// served instead and the failure is logged unless the document is dirty.
func (s *Server) DocumentSymbols(uri protocol.DocumentURI) ([]protocol.DocumentSymbol, error) {
	// Snapshot the document under the lock; DidChange mutates the same
	// struct and requests may be dispatched concurrently.
	s.mu.RLock()
	doc, ok := s.docs[uri]
	cached := s.cache[uri]
	var version int32
	var text string
	var dirty bool
	if ok {
		version, text, dirty = doc.Version, doc.Text, doc.Dirty
	}
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document %s not tracked", uri)
	}
	if cached != nil && cached.version == version {
		return cached.symbols, nil
	}

	nodes, err := outline.ParseText(text)
	if err != nil {
		if !dirty {
			s.logger.Printf("outline %s: %v", uri, err)
		}
		if cached != nil {
			return cached.symbols, nil
		}
		return nil, err
	}

	symbols := toDocumentSymbols(nodes)
	s.mu.Lock()
	s.cache[uri] = &cachedOutline{version: version, symbols: symbols}
	s.mu.Unlock()
	return symbols, nil
}

// WorkspaceSymbols answers workspace/symbol from the SQLite index.
func (s *Server) WorkspaceSymbols(query string) ([]protocol.SymbolInformation, error) {
	if s.Index == nil {
		return nil, nil
	}
	entries, err := s.Index.Search(query, 200)
	if err != nil {
		return nil, err
	}
	result := make([]protocol.SymbolInformation, 0, len(entries))
	for _, entry := range entries {
		result = append(result, protocol.SymbolInformation{
			Name:          entry.Name,
			Kind:          symbolKind(entry.Kind),
			ContainerName: entry.Container,
			Location: protocol.Location{
				URI: protocol.DocumentURI("file://" + filepath.Join(s.Index.Root(), entry.Path)),
				Range: protocol.Range{
					Start: protocol.Position{Line: uint32(entry.StartLine)},
					End:   protocol.Position{Line: uint32(entry.EndLine)},
				},
			},
		})
	}
	return result, nil
}
