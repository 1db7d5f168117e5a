package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/gitwarden/internal/style"
)

// pickItem is one row in a picker. Hint renders dimmed after the label.
type pickItem struct {
	Label string
	Hint  string
}

// pickerModel is a minimal cursor-driven menu. Used for both the
// violation prompt and the identity pick list.
type pickerModel struct {
	title    string
	subtitle string
	items    []pickItem

	// extraKeys maps a key to a code returned alongside the cursor, for
	// pick lists that support edit/delete on the highlighted row.
	extraKeys map[string]string

	cursor   int
	choice   int    // index of the chosen row, -1 while open or cancelled
	extra    string // code of the extra key pressed, if any
	canceled bool
}

func newPicker(title, subtitle string, items []pickItem, extraKeys map[string]string) pickerModel {
	return pickerModel{
		title:     title,
		subtitle:  subtitle,
		items:     items,
		extraKeys: extraKeys,
		choice:    -1,
	}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = m.cursor
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.canceled = true
		return m, tea.Quit
	default:
		if code, ok := m.extraKeys[key.String()]; ok {
			m.choice = m.cursor
			m.extra = code
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(style.Bold.Render(m.title) + "\n")
	if m.subtitle != "" {
		b.WriteString(style.Warning.Render(m.subtitle) + "\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		line := item.Label
		if item.Hint != "" {
			line += " " + style.Dim.Render(item.Hint)
		}
		if i == m.cursor {
			b.WriteString(style.Selected.Render("> ") + style.Selected.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + style.Dim.Render(m.footer()) + "\n")
	return b.String()
}

func (m pickerModel) footer() string {
	parts := []string{"↑/↓ move", "enter select", "esc cancel"}
	keys := make([]string, 0, len(m.extraKeys))
	for key := range m.extraKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", key, m.extraKeys[key]))
	}
	return strings.Join(parts, " · ")
}
