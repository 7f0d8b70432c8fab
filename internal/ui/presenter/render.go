package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"convention-quiz/internal/app"
	"convention-quiz/internal/domain"
	"convention-quiz/internal/round"
)

func render(m Model) string {
	p := newPalette(m.snap.DarkMode)
	var body string
	switch m.snap.Screen {
	case app.ScreenLogin:
		body = renderLogin(m, p)
	case app.ScreenHome:
		body = renderHome(m.snap, p)
	case app.ScreenInstructions:
		body = renderInstructions(m.snap, p)
	case app.ScreenRound:
		switch {
		case m.snap.Sequential != nil:
			body = renderSequential(m.snap, p)
		case m.snap.Board != nil:
			body = renderBoard(m.snap.Board, m.cursor, p)
		}
	}
	parts := []string{p.title.Render(m.snap.ConventionName), body}
	if m.err != nil {
		parts = append(parts, p.danger.Render("! "+m.err.Error()))
	}
	parts = append(parts, p.muted.Render(footer(m.snap)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderLogin(m Model, p palette) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		p.text.Render("Enter the presenter passcode"),
		m.passcode.View(),
	)
}

func renderHome(snap app.Snapshot, p palette) string {
	lines := []string{p.accent.Render("Rounds")}
	for i, r := range snap.Menu {
		lines = append(lines, p.text.Render(fmt.Sprintf("%d. %s (%s)", i+1, r.Title, r.Kind)))
	}
	if len(snap.Menu) == 0 {
		lines = append(lines, p.muted.Render("No rounds configured"))
	}
	return strings.Join(lines, "\n")
}

func renderInstructions(snap app.Snapshot, p palette) string {
	if snap.Round == nil {
		return ""
	}
	text := snap.Round.Instructions
	if text == "" {
		text = "No instructions for this round."
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.accent.Render(snap.Round.Title), p.text.Render(text))
}

func renderSequential(snap app.Snapshot, p palette) string {
	state := snap.Sequential
	title := ""
	if snap.Round != nil {
		title = snap.Round.Title
	}
	if state.Phase == round.PhaseSummary {
		return lipgloss.JoinVertical(lipgloss.Left,
			p.accent.Render(title+" Summary"),
			summaryTable(state.Summary),
		)
	}

	lines := []string{
		p.accent.Render(fmt.Sprintf("Question %d of %d", state.Index+1, state.Total)),
	}
	if q := state.Question; q != nil {
		lines = append(lines, p.text.Render(q.Prompt))
		lines = append(lines, renderOptions(*q, "", false, p)...)
	}
	if state.AutoAdvance {
		lines = append(lines, p.accent.Render(fmt.Sprintf("Time left: %ds", state.TimeRemaining)))
	} else {
		lines = append(lines, p.muted.Render("Auto-advance off"))
	}
	next := "Next"
	if state.IsLast {
		next = "Finish"
	}
	lines = append(lines, p.muted.Render("← Previous   "+next+" →"))
	return strings.Join(lines, "\n")
}

func summaryTable(entries []round.SummaryEntry) string {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			strconv.Itoa(e.Number),
			e.Prompt,
			strings.ToUpper(e.CorrectLabel) + ". " + e.CorrectText,
		})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Question", Width: 48},
			{Title: "Answer", Width: 28},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	return t.View()
}

func renderBoard(state *round.BoardState, cursor int, p palette) string {
	if state.Focused != nil {
		return renderFocused(state, p)
	}

	var grid []string
	for start := 0; start < len(state.Cells); start += boardColumns {
		end := min(start+boardColumns, len(state.Cells))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cell := state.Cells[i]
			style := p.cell
			label := cell.ID
			if cell.Answered {
				style = p.answered
				label = "✓ " + cell.ID
			}
			if i == cursor {
				style = p.cursor
			}
			cells = append(cells, style.Render(label))
		}
		grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	status := fmt.Sprintf("%d of %d answered", state.AnsweredCount, state.Total)
	if state.Complete {
		status = "All questions answered"
	}
	grid = append(grid, p.muted.Render(status))
	return lipgloss.JoinVertical(lipgloss.Left, grid...)
}

func renderFocused(state *round.BoardState, p palette) string {
	q := *state.Focused
	header := "Question " + q.ID
	if q.Category != "" {
		header += " · " + q.Category
	}
	lines := []string{p.accent.Render(header), p.text.Render(q.Prompt)}
	lines = append(lines, renderOptions(q, state.SelectedLabel, state.Revealed, p)...)
	switch {
	case state.Revealed && state.Correct != nil && *state.Correct:
		lines = append(lines, p.success.Render("Correct!"))
	case state.Revealed:
		text, _ := q.OptionText(q.CorrectLabel)
		lines = append(lines, p.danger.Render("Answer: "+strings.ToUpper(q.CorrectLabel)+". "+text))
	}
	if state.ViewOnly {
		lines = append(lines, p.muted.Render("Answered earlier"))
	}
	if state.Celebrating {
		lines = append(lines, p.banner.Render("🎉 Well done! 🎉"))
	}
	return strings.Join(lines, "\n")
}

func renderOptions(q domain.QuestionRecord, selected string, revealed bool, p palette) []string {
	lines := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		marker := "  "
		if opt.Label == selected {
			marker = "> "
		}
		line := marker + strings.ToUpper(opt.Label) + ". " + opt.Text
		style := p.text
		switch {
		case revealed && opt.Label == q.CorrectLabel:
			style = p.success
		case revealed && opt.Label == selected:
			style = p.danger
		case opt.Label == selected:
			style = p.accent
		}
		lines = append(lines, style.Render(line))
	}
	return lines
}

func footer(snap app.Snapshot) string {
	switch snap.Screen {
	case app.ScreenLogin:
		return "enter: log in · ctrl+t: theme · ctrl+c: quit"
	case app.ScreenHome:
		return "1-9: open round · ctrl+t: theme · ctrl+l: log out · q: quit"
	case app.ScreenInstructions:
		return "enter: start · esc: back"
	}
	if snap.Board != nil {
		if snap.Board.FocusedID != "" {
			return "a-d: select · enter: reveal · esc: back to board"
		}
		return "arrows: move · enter: open · h: home"
	}
	return "←/→: navigate · t: auto-advance · h: home"
}
