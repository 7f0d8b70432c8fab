package presenter

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"convention-quiz/internal/app"
)

// boardColumns is the width of the board grid in cells.
const boardColumns = 5

// Model renders one presenter session in the terminal using Bubble Tea.
type Model struct {
	ctx      context.Context
	shell    *app.Shell
	updates  <-chan app.Snapshot
	snap     app.Snapshot
	passcode textinput.Model
	cursor   int
	width    int
	err      error
}

// NewModel wraps shell. updates is usually the shell's own subscription; nil
// disables redraws from timers.
func NewModel(ctx context.Context, shell *app.Shell, updates <-chan app.Snapshot) Model {
	input := textinput.New()
	input.Placeholder = "Passcode"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.Focus()
	return Model{
		ctx:      ctx,
		shell:    shell,
		updates:  updates,
		snap:     shell.Snapshot(),
		passcode: input,
	}
}

// Init starts the blinking cursor and waits for the first shell update.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

// Update consumes key presses and shell updates.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case SnapshotMsg:
		// a pulled snapshot may already be newer than a queued update
		if typed.Snapshot.Version >= m.snap.Version {
			m.snap = typed.Snapshot
		}
		return m, waitForSnapshot(m.updates)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	return render(m)
}

// SnapshotMsg wraps a published shell snapshot for Bubble Tea.
type SnapshotMsg struct {
	Snapshot app.Snapshot
}

// waitForSnapshot blocks until the shell publishes.
func waitForSnapshot(updates <-chan app.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		snap, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		m.shell.ToggleTheme()
		return m.refresh(nil), nil
	}

	switch m.snap.Screen {
	case app.ScreenLogin:
		if key == "enter" {
			err := m.shell.Login(m.ctx, m.passcode.Value())
			m.passcode.Reset()
			return m.refresh(err), nil
		}
		var cmd tea.Cmd
		m.passcode, cmd = m.passcode.Update(msg)
		return m, cmd
	case app.ScreenHome:
		return m.homeKey(key)
	case app.ScreenInstructions:
		switch key {
		case "enter":
			return m.refresh(m.shell.StartRound(m.ctx, m.snap.Round.ID)), nil
		case "esc":
			return m.refresh(m.shell.Home(m.ctx)), nil
		}
	case app.ScreenRound:
		return m.roundKey(key)
	}
	return m, nil
}

func (m Model) homeKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "ctrl+l":
		m.shell.Logout()
		return m.refresh(nil), nil
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(m.snap.Menu) {
		return m, nil
	}
	return m.refresh(m.shell.OpenInstructions(m.ctx, m.snap.Menu[n-1].ID)), nil
}

func (m Model) roundKey(key string) (tea.Model, tea.Cmd) {
	handled, err := m.shell.HandleKey(key)
	if handled || err != nil {
		return m.refresh(err), nil
	}

	board := m.snap.Board
	if board != nil && board.FocusedID == "" {
		switch key {
		case "left":
			m.cursor = max(m.cursor-1, 0)
			return m, nil
		case "right":
			m.cursor = min(m.cursor+1, len(board.Cells)-1)
			return m, nil
		case "up":
			if m.cursor-boardColumns >= 0 {
				m.cursor -= boardColumns
			}
			return m, nil
		case "down":
			if m.cursor+boardColumns < len(board.Cells) {
				m.cursor += boardColumns
			}
			return m, nil
		case "enter":
			return m.refresh(m.shell.Focus(board.Cells[m.cursor].ID)), nil
		}
	}
	if key == "esc" || key == "h" {
		m.cursor = 0
		return m.refresh(m.shell.Home(m.ctx)), nil
	}
	return m, nil
}

// refresh pulls the shell state after a synchronous intent and records its error.
func (m Model) refresh(err error) Model {
	m.err = err
	m.snap = m.shell.Snapshot()
	return m
}
