package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/protolens/outline"
)

func testNodes(t *testing.T) []*outline.Node {
	t.Helper()
	nodes, err := outline.ParseText(`message M {
  int32 a = 1;
  oneof choice {
    bool b = 2;
  }
}`)
	require.NoError(t, err)
	return nodes
}

func TestFlattenFollowsSourceOrder(t *testing.T) {
	m := NewModel("test.proto", testNodes(t))
	var names []string
	for _, r := range m.rows {
		names = append(names, r.node.Name)
	}
	assert.Equal(t, []string{"M", "a", "choice", "b"}, names)
}

func TestCollapseHidesChildren(t *testing.T) {
	m := NewModel("test.proto", testNodes(t))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "M", m.rows[0].node.Name)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	assert.Len(t, m.rows, 4)
}

func TestCursorMovement(t *testing.T) {
	m := NewModel("test.proto", testNodes(t))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	// Never moves above the first row.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestQuitKey(t *testing.T) {
	m := NewModel("test.proto", testNodes(t))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
