package round

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// TestRoundScenarios runs the round progression feature scenarios.
func TestRoundScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "rounds",
		ScenarioInitializer: InitializeRoundScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeRoundScenario wires steps for round scenarios.
func InitializeRoundScenario(ctx *godog.ScenarioContext) {
	state := &roundScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		state.stop()
		return ctx, nil
	})

	ctx.Step(`^a sequential round with (\d+) questions$`, state.givenSequential)
	ctx.Step(`^a sequential round with (\d+) questions and a (\d+) second timer$`, state.givenTimedSequential)
	ctx.Step(`^auto-advance is on$`, state.givenAutoAdvance)
	ctx.Step(`^a board round with (\d+) questions$`, state.givenBoard)
	ctx.Step(`^a board round with (\d+) questions and a (\d+) second celebration$`, state.givenCelebratingBoard)
	ctx.Step(`^the presenter advances (\d+) times$`, state.whenAdvance)
	ctx.Step(`^the presenter retreats$`, state.whenRetreat)
	ctx.Step(`^(\d+) seconds pass$`, state.whenSecondsPass)
	ctx.Step(`^the presenter opens question "([^"]*)"$`, state.whenFocus)
	ctx.Step(`^selects option "([^"]*)"$`, state.whenSelect)
	ctx.Step(`^reveals the answer$`, state.whenReveal)
	ctx.Step(`^the presenter closes the question$`, state.whenClose)
	ctx.Step(`^the round is in the "([^"]*)" phase$`, state.thenPhase)
	ctx.Step(`^the summary lists (\d+) answers$`, state.thenSummaryLength)
	ctx.Step(`^the current question index is (\d+)$`, state.thenIndex)
	ctx.Step(`^(\d+) seconds remain on the countdown$`, state.thenRemaining)
	ctx.Step(`^question "([^"]*)" is answered$`, state.thenAnswered)
	ctx.Step(`^no question is open$`, state.thenNothingFocused)
	ctx.Step(`^answered questions are "([^"]*)"$`, state.thenAnsweredSet)
	ctx.Step(`^the last intent is rejected$`, state.thenRejected)
	ctx.Step(`^the board is celebrating$`, state.thenCelebrating)
	ctx.Step(`^the board is not celebrating$`, state.thenNotCelebrating)
}

type roundScenarioState struct {
	clock      *ManualClock
	sequential *Sequential
	board      *Board
	lastErr    error
}

func (s *roundScenarioState) reset() {
	s.clock = NewManualClock()
	s.sequential = nil
	s.board = nil
	s.lastErr = nil
}

func (s *roundScenarioState) stop() {
	if s.sequential != nil {
		s.sequential.Stop()
	}
	if s.board != nil {
		s.board.Stop()
	}
}

func (s *roundScenarioState) givenSequential(count int) error {
	return s.givenTimedSequential(count, DefaultTimerSeconds)
}

func (s *roundScenarioState) givenTimedSequential(count, seconds int) error {
	engine, err := NewSequential(sampleQuestions(count), WithClock(s.clock), WithTimerSeconds(seconds))
	s.sequential = engine
	return err
}

func (s *roundScenarioState) givenAutoAdvance() error {
	s.sequential.ToggleAutoAdvance()
	if !s.sequential.State().AutoAdvance {
		return fmt.Errorf("auto-advance did not turn on")
	}
	return nil
}

func (s *roundScenarioState) givenBoard(count int) error {
	return s.givenCelebratingBoard(count, int(DefaultCelebrationWindow/time.Second))
}

func (s *roundScenarioState) givenCelebratingBoard(count, seconds int) error {
	board, err := NewBoard(sampleQuestions(count), WithClock(s.clock), WithCelebrationWindow(time.Duration(seconds)*time.Second))
	s.board = board
	return err
}

func (s *roundScenarioState) whenAdvance(times int) error {
	for i := 0; i < times; i++ {
		s.sequential.Advance()
	}
	return nil
}

func (s *roundScenarioState) whenRetreat() error {
	s.sequential.Retreat()
	return nil
}

func (s *roundScenarioState) whenSecondsPass(seconds int) error {
	s.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (s *roundScenarioState) whenFocus(id string) error {
	s.lastErr = s.board.Focus(id)
	return nil
}

func (s *roundScenarioState) whenSelect(label string) error {
	s.lastErr = s.board.SelectOption(label)
	return nil
}

func (s *roundScenarioState) whenReveal() error {
	s.lastErr = s.board.Reveal()
	return nil
}

func (s *roundScenarioState) whenClose() error {
	s.board.Close()
	return nil
}

func (s *roundScenarioState) thenPhase(phase string) error {
	if got := s.sequential.State().Phase; string(got) != phase {
		return fmt.Errorf("expected phase %s, got %s", phase, got)
	}
	return nil
}

func (s *roundScenarioState) thenSummaryLength(count int) error {
	if got := len(s.sequential.State().Summary); got != count {
		return fmt.Errorf("expected %d summary rows, got %d", count, got)
	}
	return nil
}

func (s *roundScenarioState) thenIndex(index int) error {
	if got := s.sequential.State().Index; got != index {
		return fmt.Errorf("expected index %d, got %d", index, got)
	}
	return nil
}

func (s *roundScenarioState) thenRemaining(seconds int) error {
	if got := s.sequential.State().TimeRemaining; got != seconds {
		return fmt.Errorf("expected %d seconds remaining, got %d", seconds, got)
	}
	return nil
}

func (s *roundScenarioState) thenAnswered(id string) error {
	if s.lastErr != nil {
		return fmt.Errorf("unexpected intent error: %w", s.lastErr)
	}
	for _, answered := range s.board.Answered() {
		if answered == id {
			return nil
		}
	}
	return fmt.Errorf("question %s not answered: %v", id, s.board.Answered())
}

func (s *roundScenarioState) thenNothingFocused() error {
	if state := s.board.State(); state.FocusedID != "" {
		return fmt.Errorf("expected board view, %s is open", state.FocusedID)
	}
	return nil
}

func (s *roundScenarioState) thenAnsweredSet(ids string) error {
	if got := strings.Join(s.board.Answered(), ","); got != ids {
		return fmt.Errorf("expected answered %q, got %q", ids, got)
	}
	return nil
}

func (s *roundScenarioState) thenRejected() error {
	if s.lastErr == nil {
		return fmt.Errorf("expected the last intent to fail")
	}
	return nil
}

func (s *roundScenarioState) thenCelebrating() error {
	if !s.board.State().Celebrating {
		return fmt.Errorf("expected celebration")
	}
	return nil
}

func (s *roundScenarioState) thenNotCelebrating() error {
	if s.board.State().Celebrating {
		return fmt.Errorf("expected celebration to be over")
	}
	return nil
}
