package keypad

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func runes(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestTypedKeysDriveEngine(t *testing.T) {
	m := send(t, New(nil), runes("3+4+5")...)
	assert.Equal(t, "5", m.Input())
	assert.Equal(t, "7", m.Result())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "12", m.Input())
	assert.Equal(t, "12", m.Result())

	m = send(t, m, runes("c")...)
	assert.Empty(t, m.Input())
	assert.Empty(t, m.Result())
}

func TestUnknownRunesIgnored(t *testing.T) {
	m := send(t, New(nil), runes("1q2?")...)
	assert.Equal(t, "12", m.Input())
}

func TestCursorNavigationAndPress(t *testing.T) {
	m := New(nil)

	// 7 is top-left; move to 5 (row 1, col 1) and press it.
	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
	)
	row, col := m.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
	assert.Equal(t, "5", m.Input())

	// Wrap around: up from row 0 lands on the bottom row, left from col 0 on
	// the last column.
	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyLeft},
	)
	row, col = m.Cursor()
	assert.Equal(t, 3, row)
	assert.Equal(t, 3, col)

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, runes("2")...)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "7", m.Result())
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := New(nil).Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestNonKeyMessagesIgnored(t *testing.T) {
	m := send(t, New(nil), tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Empty(t, m.Input())
}

func TestViewShowsDisplayAndGrid(t *testing.T) {
	m := send(t, New(nil), runes("12*")...)

	view := m.View()
	assert.Contains(t, view, "12 *")
	for _, label := range []string{"7", "8", "9", "/", "0", "C", "=", "+"} {
		assert.Contains(t, view, label)
	}
	assert.Contains(t, view, "esc quit")
}

func TestComputationsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := send(t, New(zap.New(core)), runes("6*7=")...)

	assert.Equal(t, "42", m.Result())
	entries := logs.FilterMessage("computed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "multiply", entries[0].ContextMap()["operation"])
	assert.Equal(t, "42", entries[0].ContextMap()["result"])
}
