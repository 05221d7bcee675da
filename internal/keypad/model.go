// Package keypad renders the calculator as a terminal button grid and feeds
// key presses into an engine.
package keypad

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"deskcalc/internal/engine"
)

// grid is the button layout of the physical calculator.
var grid = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", "C", "=", "+"},
}

// Model is the bubbletea model for the keypad.
type Model struct {
	engine   *engine.Engine
	keys     KeyMap
	logger   *zap.Logger
	row, col int
}

// New returns a keypad over a fresh engine. A nil logger disables logging.
func New(logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		engine: engine.New(),
		keys:   DefaultKeyMap(),
		logger: logger,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		m.row = (m.row + len(grid) - 1) % len(grid)
	case key.Matches(keyMsg, m.keys.Down):
		m.row = (m.row + 1) % len(grid)
	case key.Matches(keyMsg, m.keys.Left):
		m.col = (m.col + len(grid[m.row]) - 1) % len(grid[m.row])
	case key.Matches(keyMsg, m.keys.Right):
		m.col = (m.col + 1) % len(grid[m.row])
	case key.Matches(keyMsg, m.keys.Press):
		m.press([]rune(grid[m.row][m.col])[0])
	case key.Matches(keyMsg, m.keys.Equals):
		m.press('=')
	case keyMsg.Type == tea.KeyRunes && len(keyMsg.Runes) == 1:
		m.press(keyMsg.Runes[0])
	}
	return m, nil
}

// press forwards a keypad rune to the engine; runes that are not on the
// keypad are dropped.
func (m Model) press(r rune) {
	ev, err := engine.ParseKey(r)
	if err != nil {
		return
	}

	out := m.engine.HandleEvent(ev)
	if out.Computed {
		m.logger.Debug("computed",
			zap.String("operation", out.Op.String()),
			zap.String("result", engine.FormatValue(out.Value)),
		)
	}
}

// Input is the text in the display field.
func (m Model) Input() string { return m.engine.CurrentInput() }

// Result is the text in the result line.
func (m Model) Result() string { return m.engine.LastResult() }

// Cursor is the highlighted button's row and column.
func (m Model) Cursor() (int, int) { return m.row, m.col }

func (m Model) View() string {
	input := m.engine.CurrentInput()
	if input == "" {
		input = "0"
	}

	var pending string
	if op, acc, ok := m.engine.Pending(); ok {
		pending = engine.FormatValue(acc) + " " + op.Symbol()
	}

	display := displayStyle.Render(strings.Join([]string{
		resultStyle.Render(pending),
		input,
		resultStyle.Render("= " + m.engine.LastResult()),
	}, "\n"))

	rows := make([]string, 0, len(grid))
	for r, row := range grid {
		cells := make([]string, 0, len(row))
		for c, label := range row {
			style := buttonStyle
			switch {
			case r == m.row && c == m.col:
				style = focusedStyle
			case strings.ContainsAny(label, "+-*/="):
				style = operatorStyle
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		display,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		helpStyle.Render(strings.Join(help, " • ")),
	) + "\n"
}
