package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"convention-quiz/internal/app"
	"convention-quiz/internal/domain"
	"convention-quiz/internal/infra/memory"
	"convention-quiz/internal/round"
)

func TestLoginGate(t *testing.T) {
	ctx := context.Background()
	shell := newTestShell(round.NewManualClock())

	if err := shell.StartRound(ctx, "round1"); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if err := shell.Login(ctx, "wrong"); !errors.Is(err, domain.ErrInvalidPasscode) {
		t.Fatalf("expected ErrInvalidPasscode, got %v", err)
	}
	if snap := shell.Snapshot(); snap.Screen != app.ScreenLogin || snap.LoggedIn {
		t.Fatalf("expected to stay on login, got %+v", snap)
	}

	if err := shell.Login(ctx, "Peniel2025"); err != nil {
		t.Fatalf("login: %v", err)
	}
	snap := shell.Snapshot()
	if snap.Screen != app.ScreenHome || len(snap.Menu) != 2 || snap.Menu[1].Kind != domain.KindBoard {
		t.Fatalf("expected home menu, got %+v", snap)
	}
	if snap.ConventionName != "Test Convention" {
		t.Fatalf("expected branding in snapshot, got %q", snap.ConventionName)
	}

	shell.Logout()
	if snap := shell.Snapshot(); snap.Screen != app.ScreenLogin || snap.LoggedIn || snap.Menu != nil {
		t.Fatalf("expected logout to return to login, got %+v", snap)
	}
}

func TestStartUnknownRoundLeavesShellUnchanged(t *testing.T) {
	ctx := context.Background()
	shell := loggedInShell(t, round.NewManualClock())

	err := shell.StartRound(ctx, "round9")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.RoundID != "round9" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	snap := shell.Snapshot()
	if snap.Screen != app.ScreenHome || snap.Sequential != nil || snap.Board != nil {
		t.Fatalf("expected no engine after failed start, got %+v", snap)
	}
	if err := shell.Advance(); !errors.Is(err, domain.ErrNoActiveRound) {
		t.Fatalf("expected ErrNoActiveRound, got %v", err)
	}
}

func TestInstructionsThenRound(t *testing.T) {
	ctx := context.Background()
	shell := loggedInShell(t, round.NewManualClock())

	if err := shell.OpenInstructions(ctx, "round1"); err != nil {
		t.Fatalf("instructions: %v", err)
	}
	snap := shell.Snapshot()
	if snap.Screen != app.ScreenInstructions || snap.Round == nil || snap.Round.Instructions != "# Round 1\nAnswer fast." {
		t.Fatalf("unexpected instructions snapshot %+v", snap)
	}
	if snap.Sequential != nil {
		t.Fatalf("instructions must not build an engine")
	}

	if err := shell.StartRound(ctx, "round1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap = shell.Snapshot()
	if snap.Screen != app.ScreenRound || snap.Sequential == nil || snap.Sequential.Index != 0 {
		t.Fatalf("expected fresh sequential engine, got %+v", snap)
	}
}

func TestSequentialIntentsAndKindMismatch(t *testing.T) {
	ctx := context.Background()
	shell := loggedInShell(t, round.NewManualClock())
	_ = shell.StartRound(ctx, "round1")

	if err := shell.Focus("1"); !errors.Is(err, domain.ErrRoundKindMismatch) {
		t.Fatalf("expected ErrRoundKindMismatch, got %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := shell.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if state := shell.Snapshot().Sequential; state.Phase != round.PhaseSummary || len(state.Summary) != 3 {
		t.Fatalf("expected summary, got %+v", state)
	}
	if handled, _ := shell.HandleKey("left"); handled {
		t.Fatalf("expected keys to be ignored in summary")
	}
}

func TestReentryBuildsFreshEngine(t *testing.T) {
	ctx := context.Background()
	clock := round.NewManualClock()
	shell := loggedInShell(t, clock)

	_ = shell.StartRound(ctx, "round1")
	_ = shell.Advance()
	_ = shell.ToggleAutoAdvance()
	if clock.Pending() != 1 {
		t.Fatalf("expected countdown armed, got %d", clock.Pending())
	}

	if err := shell.Home(ctx); err != nil {
		t.Fatalf("home: %v", err)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected leaving the round to cancel the countdown, got %d", clock.Pending())
	}

	_ = shell.StartRound(ctx, "round1")
	state := shell.Snapshot().Sequential
	if state.Index != 0 || state.AutoAdvance {
		t.Fatalf("expected no state across re-entry, got %+v", state)
	}
}

func TestBoardRoundThroughShell(t *testing.T) {
	ctx := context.Background()
	shell := loggedInShell(t, round.NewManualClock())
	_ = shell.StartRound(ctx, "round2")

	if err := shell.Advance(); !errors.Is(err, domain.ErrRoundKindMismatch) {
		t.Fatalf("expected ErrRoundKindMismatch, got %v", err)
	}
	if err := shell.Reveal(); !errors.Is(err, domain.ErrNotFocused) {
		t.Fatalf("expected ErrNotFocused, got %v", err)
	}
	_ = shell.Focus("2")
	if _, err := shell.HandleKey("b"); err != nil {
		t.Fatalf("select by key: %v", err)
	}
	if _, err := shell.HandleKey("enter"); err != nil {
		t.Fatalf("reveal by key: %v", err)
	}
	board := shell.Snapshot().Board
	if !board.Revealed || board.Correct == nil || !*board.Correct || !board.Celebrating {
		t.Fatalf("expected celebrated reveal, got %+v", board)
	}
	if err := shell.CloseQuestion(); err != nil {
		t.Fatalf("close: %v", err)
	}
	board = shell.Snapshot().Board
	if board.FocusedID != "" || board.AnsweredCount != 1 || !board.Cells[1].Answered {
		t.Fatalf("expected board view with one answer, got %+v", board)
	}
}

func TestSubscribeDeliversCuesAndTicks(t *testing.T) {
	ctx := context.Background()
	clock := round.NewManualClock()
	shell := loggedInShell(t, clock)

	ch, cancel := shell.Subscribe()
	defer cancel()
	<-ch // initial snapshot

	_ = shell.StartRound(ctx, "round1")
	<-ch
	_ = shell.Advance()
	snap := <-ch
	if len(snap.Cues) != 1 || snap.Cues[0] != round.CueNext {
		t.Fatalf("expected next cue with the update, got %v", snap.Cues)
	}

	_ = shell.ToggleAutoAdvance()
	<-ch
	clock.Advance(time.Second)
	select {
	case tick := <-ch:
		if tick.Sequential.TimeRemaining != 4 {
			t.Fatalf("expected countdown update, got %+v", tick.Sequential)
		}
		if len(tick.Cues) != 0 {
			t.Fatalf("expected no cue on a plain tick, got %v", tick.Cues)
		}
	default:
		t.Fatalf("expected a published snapshot for the clock tick")
	}
}

func TestSubscribeDropsStaleUpdates(t *testing.T) {
	shell := loggedInShell(t, round.NewManualClock())
	ch, cancel := shell.Subscribe()
	defer cancel()

	for i := 0; i < 20; i++ {
		shell.ToggleTheme()
	}
	var last app.Snapshot
drain:
	for {
		select {
		case snap := <-ch:
			last = snap
		default:
			break drain
		}
	}
	if last.Version != shell.Snapshot().Version {
		t.Fatalf("expected the newest snapshot to survive, got version %d want %d", last.Version, shell.Snapshot().Version)
	}
}

func TestToggleTheme(t *testing.T) {
	shell := newTestShell(round.NewManualClock())
	shell.ToggleTheme()
	if !shell.Snapshot().DarkMode {
		t.Fatalf("expected dark mode")
	}
	shell.ToggleTheme()
	if shell.Snapshot().DarkMode {
		t.Fatalf("expected light mode after second toggle")
	}
}

func newTestShell(clock round.Clock) *app.Shell {
	return app.NewShell("s1", testRounds(), testShellConfig(clock))
}

func loggedInShell(t *testing.T, clock round.Clock) *app.Shell {
	t.Helper()
	shell := newTestShell(clock)
	if err := shell.Login(context.Background(), "Peniel2025"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return shell
}

func testShellConfig(clock round.Clock) app.ShellConfig {
	return app.ShellConfig{
		Passcode:       "Peniel2025",
		ConventionName: "Test Convention",
		TimerSeconds:   5,
		Celebration:    2 * time.Second,
		Clock:          clock,
	}
}

func testRounds() app.RoundRepository {
	return memory.NewRoundRepository(memory.NewStaticLoader(
		domain.Round{
			ID:           "round1",
			Kind:         domain.KindSequential,
			Title:        "Round 1",
			Instructions: "# Round 1\nAnswer fast.",
			Questions:    questions(3),
		},
		domain.Round{
			ID:        "round2",
			Kind:      domain.KindBoard,
			Title:     "Round 2",
			Questions: questions(3),
		},
	), time.Minute)
}

func questions(n int) []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.QuestionRecord{
			ID:       string(rune('0' + i)),
			Category: "General",
			Prompt:   "Question?",
			Options: domain.Options{
				{Label: "a", Text: "Alpha"},
				{Label: "b", Text: "Beta"},
			},
			CorrectLabel: "b",
		})
	}
	return out
}
