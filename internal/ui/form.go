package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steveyegge/gitwarden/internal/style"
)

// formField is one labeled text input.
type formField struct {
	Label       string
	Placeholder string
	Value       string
}

// formModel collects a fixed set of text fields. Tab/enter advance,
// enter on the last field submits, esc cancels.
type formModel struct {
	title    string
	labels   []string
	inputs   []textinput.Model
	focus    int
	done     bool
	canceled bool
}

func newForm(title string, fields []formField) formModel {
	m := formModel{title: title}
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.SetValue(f.Value)
		in.CharLimit = 256
		if i == 0 {
			in.Focus()
		}
		m.labels = append(m.labels, f.Label)
		m.inputs = append(m.inputs, in)
	}
	return m
}

func (m formModel) Init() tea.Cmd { return textinput.Blink }

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case "tab", "down":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *formModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(style.Bold.Render(m.title) + "\n\n")
	for i, in := range m.inputs {
		label := m.labels[i]
		if i == m.focus {
			label = style.Selected.Render(label)
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	b.WriteString("\n" + style.Dim.Render("tab next field · enter submit · esc cancel") + "\n")
	return b.String()
}

// values returns the trimmed field values in order.
func (m formModel) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = strings.TrimSpace(in.Value())
	}
	return out
}
