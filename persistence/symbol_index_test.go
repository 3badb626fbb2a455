package persistence

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/protolens/outline"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestIndex(t *testing.T) (*SymbolIndex, string) {
	t.Helper()
	root := t.TempDir()
	index, err := OpenSymbolIndex(root, filepath.Join(root, ".protolens", "symbols.db"), log.New(io.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index, root
}

func TestBuildAndSearch(t *testing.T) {
	index, root := newTestIndex(t)
	writeFile(t, filepath.Join(root, "api", "users.proto"), `syntax = "proto3";
service UserService {
  rpc GetUser(GetUserRequest) returns (User);
}
message User {
  string name = 1;
}
`)
	writeFile(t, filepath.Join(root, "common.proto"), "enum Status { UNKNOWN = 0; ACTIVE = 1; }")
	writeFile(t, filepath.Join(root, "README.md"), "not a proto file")

	require.NoError(t, index.Build(context.Background()))

	files, symbols, err := index.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, files)
	// UserService, GetUser, User, name, Status, UNKNOWN, ACTIVE
	assert.Equal(t, 7, symbols)

	entries, err := index.Search("User", 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	names := make(map[string]Entry)
	for _, e := range entries {
		names[e.Name] = e
	}
	assert.Contains(t, names, "UserService")
	assert.Contains(t, names, "GetUser")
	assert.Equal(t, outline.KindMethod, names["GetUser"].Kind)
	assert.Equal(t, "UserService", names["GetUser"].Container)
	assert.Equal(t, filepath.Join("api", "users.proto"), names["GetUser"].Path)
}

func TestBuildSkipsMalformedFiles(t *testing.T) {
	index, root := newTestIndex(t)
	writeFile(t, filepath.Join(root, "good.proto"), "message Good { bool ok = 1; }")
	writeFile(t, filepath.Join(root, "bad.proto"), "message Bad { )")

	require.NoError(t, index.Build(context.Background()))

	files, _, err := index.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, files)

	entries, err := index.Search("Good", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReindexReplacesRows(t *testing.T) {
	index, root := newTestIndex(t)
	path := filepath.Join(root, "a.proto")
	writeFile(t, path, "message Old {}")
	require.NoError(t, index.IndexFile(path))

	writeFile(t, path, "message New {}")
	require.NoError(t, index.IndexFile(path))

	old, err := index.Search("Old", 0)
	require.NoError(t, err)
	assert.Empty(t, old)
	fresh, err := index.Search("New", 0)
	require.NoError(t, err)
	assert.Len(t, fresh, 1)
}
