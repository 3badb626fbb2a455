// Package tui is an interactive outline browser for a single proto file.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lexcodex/protolens/outline"
)

// Run parses path and opens the browser, blocking until the user quits.
func Run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	nodes, err := outline.ParseText(string(data))
	if err != nil {
		return fmt.Errorf("outline %s: %w", path, err)
	}
	model := NewModel(path, nodes)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// row is one flattened, currently visible outline entry.
type row struct {
	node  *outline.Node
	depth int
}

// Model renders the outline tree in a viewport with a movable cursor and
// per-node collapse state.
type Model struct {
	path      string
	roots     []*outline.Node
	collapsed map[*outline.Node]bool
	rows      []row

	view   viewport.Model
	cursor int
	width  int
	height int
	ready  bool
}

// NewModel builds the browser model for one parsed file.
func NewModel(path string, roots []*outline.Node) Model {
	m := Model{
		path:      path,
		roots:     roots,
		collapsed: make(map[*outline.Node]bool),
	}
	m.flatten()
	return m
}

// Init fulfills the Bubble Tea Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies incoming Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-2)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - 2
		}
		m.view.SetContent(m.render())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor < len(m.rows) {
				node := m.rows[m.cursor].node
				if len(node.Children) > 0 {
					m.collapsed[node] = !m.collapsed[node]
					m.flatten()
				}
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		}
		if m.ready {
			m.view.SetContent(m.render())
			m.scrollToCursor()
		}
		return m, nil
	}
	return m, nil
}

// View renders the header, tree viewport, and key hints.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	header := headerStyle.Render(m.path)
	footer := dimStyle.Render("↑/↓ move · enter fold · q quit")
	return header + "\n" + m.view.View() + "\n" + footer
}

func (m *Model) flatten() {
	m.rows = m.rows[:0]
	var walk func(nodes []*outline.Node, depth int)
	walk = func(nodes []*outline.Node, depth int) {
		for _, node := range nodes {
			m.rows = append(m.rows, row{node: node, depth: depth})
			if !m.collapsed[node] {
				walk(node.Children, depth+1)
			}
		}
	}
	walk(m.roots, 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) render() string {
	var b strings.Builder
	for i, r := range m.rows {
		marker := "  "
		if len(r.node.Children) > 0 {
			if m.collapsed[r.node] {
				marker = "▸ "
			} else {
				marker = "▾ "
			}
		}
		line := strings.Repeat("  ", r.depth) + marker + nameStyle.Render(r.node.Name)
		if r.node.Detail != "" {
			line += " " + detailStyle.Render(r.node.Detail)
		}
		line += " " + dimStyle.Render(fmt.Sprintf(":%d", r.node.SelectionLine+1))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.view.YOffset {
		m.view.SetYOffset(m.cursor)
	} else if m.cursor >= m.view.YOffset+m.view.Height {
		m.view.SetYOffset(m.cursor - m.view.Height + 1)
	}
}
