// Package persistence stores flattened outlines of a workspace's .proto
// files in SQLite, backing workspace/symbol queries and the index CLI.
package persistence

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexcodex/protolens/outline"
)

// Entry is one indexed symbol row.
type Entry struct {
	Path      string
	Name      string
	Kind      outline.Kind
	Detail    string
	Container string
	StartLine int
	EndLine   int
}

// SymbolIndex coordinates parsing, indexing, and persistence.
type SymbolIndex struct {
	root   string
	db     *sql.DB
	logger *log.Logger
}

// OpenSymbolIndex opens or creates the database at dbPath.
func OpenSymbolIndex(root, dbPath string, logger *log.Logger) (*SymbolIndex, error) {
	if root == "" {
		return nil, fmt.Errorf("root path required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}
	index := &SymbolIndex{root: root, db: db, logger: logger}
	if err := index.initSchema(); err != nil {
		return nil, err
	}
	return index, nil
}

func (si *SymbolIndex) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		content_hash TEXT,
		indexed_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS symbols (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		detail TEXT,
		container TEXT,
		start_line INTEGER,
		end_line INTEGER,
		FOREIGN KEY(path) REFERENCES files(path) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
	`
	_, err := si.db.Exec(schema)
	return err
}

// Root returns the workspace root the index was opened against. Stored
// paths are relative to it.
func (si *SymbolIndex) Root() string {
	return si.root
}

// Close releases the underlying database handle.
func (si *SymbolIndex) Close() error {
	if si == nil || si.db == nil {
		return nil
	}
	return si.db.Close()
}

// Build walks the workspace for .proto files and refreshes their symbol
// rows. Files that fail to parse are skipped with a log line; a structural
// error in one file must not block the rest of the workspace.
func (si *SymbolIndex) Build(ctx context.Context) error {
	return filepath.WalkDir(si.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if strings.HasPrefix(name, ".") && path != si.root {
				return filepath.SkipDir
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if filepath.Ext(path) != ".proto" {
			return nil
		}
		if err := si.IndexFile(path); err != nil {
			si.logger.Printf("index %s: %v", path, err)
		}
		return nil
	})
}

// IndexFile parses one file and replaces its rows.
func (si *SymbolIndex) IndexFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	nodes, err := outline.ParseText(string(data))
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(si.root, path)
	if err != nil {
		rel = path
	}

	tx, err := si.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM symbols WHERE path = ?`, rel); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`INSERT INTO files (path, content_hash, indexed_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content_hash=excluded.content_hash, indexed_at=excluded.indexed_at`,
		rel, hashContent(data), time.Now().UTC()); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO symbols (path, name, kind, detail, container, start_line, end_line)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	if err := insertNodes(stmt, rel, "", nodes); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertNodes(stmt *sql.Stmt, path, container string, nodes []*outline.Node) error {
	for _, node := range nodes {
		if _, err := stmt.Exec(path, node.Name, int(node.Kind), node.Detail, container, node.StartLine, node.EndLine); err != nil {
			return err
		}
		if err := insertNodes(stmt, path, node.Name, node.Children); err != nil {
			return err
		}
	}
	return nil
}

// Search returns symbols whose name contains query, in name order. An empty
// query matches everything up to limit.
func (si *SymbolIndex) Search(query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := si.db.Query(`SELECT path, name, kind, detail, container, start_line, end_line
		FROM symbols WHERE name LIKE ? ORDER BY name LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind int
		if err := rows.Scan(&e.Path, &e.Name, &kind, &e.Detail, &e.Container, &e.StartLine, &e.EndLine); err != nil {
			return nil, err
		}
		e.Kind = outline.Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats reports row counts for the index CLI.
func (si *SymbolIndex) Stats() (files, symbols int, err error) {
	if err = si.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return 0, 0, err
	}
	if err = si.db.QueryRow(`SELECT COUNT(*) FROM symbols`).Scan(&symbols); err != nil {
		return 0, 0, err
	}
	return files, symbols, nil
}

func hashContent(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
