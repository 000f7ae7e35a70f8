package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one row in the interactive picker.
type PickerItem struct {
	Label    string // primary text (wallet or contract name)
	SubLabel string // secondary text shown dimmed (address, endpoint)
	Value    string // value returned on selection (may differ from Label)
}

// listPicker is a minimal single-select list. Digits 1-9 jump straight to a
// row, so picking from a short wallet list is one keypress.
type listPicker struct {
	title   string
	items   []PickerItem
	cursor  int
	choice  int // index of the accepted row, -1 until chosen
	aborted bool
}

func (m listPicker) Init() tea.Cmd { return nil }

func (m listPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := key.String(); s {
	case "q", "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = len(m.items) - 1
	case "enter", " ":
		m.choice = m.cursor
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if n := int(s[0] - '1'); n < len(m.items) {
			m.choice = n
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m listPicker) View() string {
	if m.aborted || m.choice >= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		num := fmt.Sprintf("%d", i+1)
		if i > 8 {
			num = " "
		}
		line := fmt.Sprintf("  %s %s", num, StyleValue.Render(item.Label))
		if sub := item.SubLabel; sub != "" {
			if len(sub) > maxCellWidth {
				sub = sub[:maxCellWidth-1] + "…"
			}
			line += "  " + StyleMeta.Render(sub)
		}
		if i == m.cursor {
			line = StyleSelected.Render("▸" + line[1:])
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + StyleMeta.Render("  ↑↓/jk move · 1-9 jump · enter select · q cancel") + "\n")
	return sb.String()
}

// PickItem shows the list and returns the chosen item's Value, or "" with a
// nil error when the user cancels.
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to pick from")
	}

	m := listPicker{title: title, items: items, choice: -1}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}

	fm := final.(listPicker)
	if fm.aborted || fm.choice < 0 {
		return "", nil
	}
	return fm.items[fm.choice].Value, nil
}
