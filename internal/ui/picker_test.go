package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pressKey(t *testing.T, m listPicker, key string) listPicker {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	picked, ok := next.(listPicker)
	require.True(t, ok)
	return picked
}

func testPicker() listPicker {
	return listPicker{
		title: "Default wallet",
		items: []PickerItem{
			{Label: "treasury", SubLabel: "0x1111", Value: "treasury"},
			{Label: "deployer", SubLabel: "0x2222", Value: "deployer"},
			{Label: "observer", SubLabel: "0x3333", Value: "observer"},
		},
		choice: -1,
	}
}

func TestPickerCursorMovesDownAndUp(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "j")
	assert.Equal(t, 1, m.cursor)
	m = pressKey(t, m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestPickerCursorClampsAtEnds(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "k")
	assert.Equal(t, 0, m.cursor)

	m = pressKey(t, m, "G")
	assert.Equal(t, 2, m.cursor)
	m = pressKey(t, m, "j")
	assert.Equal(t, 2, m.cursor)
	m = pressKey(t, m, "g")
	assert.Equal(t, 0, m.cursor)
}

func TestPickerEnterAcceptsCursorRow(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "j")
	m = pressKey(t, m, "enter")
	assert.Equal(t, 1, m.choice)
}

func TestPickerDigitJumpsAndAccepts(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "3")
	assert.Equal(t, 2, m.choice)
}

func TestPickerDigitPastEndIgnored(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "9")
	assert.Equal(t, -1, m.choice)
}

func TestPickerEscAborts(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "esc")
	assert.True(t, m.aborted)
	assert.Equal(t, -1, m.choice)
}

func TestPickerViewListsItems(t *testing.T) {
	m := testPicker()
	view := m.View()
	assert.Contains(t, view, "Default wallet")
	assert.Contains(t, view, "treasury")
	assert.Contains(t, view, "0x2222")
	assert.Contains(t, view, "1")
}

func TestPickerViewEmptyAfterChoice(t *testing.T) {
	m := testPicker()
	m = pressKey(t, m, "enter")
	assert.Empty(t, m.View())
}
