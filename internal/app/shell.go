package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"convention-quiz/internal/domain"
	"convention-quiz/internal/metrics"
	"convention-quiz/internal/round"
)

// RoundRepository serves question banks to the shell (from cache/backing store).
type RoundRepository interface {
	GetRound(ctx context.Context, roundID string) (domain.Round, error)
	ListRounds(ctx context.Context) ([]domain.RoundSummary, error)
}

// ShellConfig holds the per-session settings shared by every shell.
type ShellConfig struct {
	Passcode       string
	ConventionName string
	TimerSeconds   int
	Celebration    time.Duration
	Keys           round.KeyMap
	// Clock drives countdowns and celebrations; nil means wall time.
	Clock   round.Clock
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Shell is one presenter session: the login gate, the home menu, the
// instructions screen and exactly one round engine at a time.
type Shell struct {
	id     string
	cfg    ShellConfig
	rounds RoundRepository
	log    *zap.Logger
	cues   *cueQueue

	mu          sync.Mutex
	version     uint64
	loggedIn    bool
	darkMode    bool
	screen      Screen
	menu        []domain.RoundSummary
	current     *domain.Round
	sequential  *round.Sequential
	board       *round.Board
	attached    int
	subscribers map[chan Snapshot]struct{}
}

// NewShell returns a logged-out shell on the login screen.
func NewShell(id string, rounds RoundRepository, cfg ShellConfig) *Shell {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id))
	cfg.Keys = cfg.Keys.WithDefaults()
	return &Shell{
		id:          id,
		cfg:         cfg,
		rounds:      rounds,
		log:         log,
		cues:        &cueQueue{log: log},
		screen:      ScreenLogin,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// ID returns the session id.
func (s *Shell) ID() string {
	return s.id
}

// Login compares passcode with the configured secret. A wrong passcode
// leaves the shell on the login screen.
func (s *Shell) Login(ctx context.Context, passcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if passcode != s.cfg.Passcode {
		s.log.Info("login rejected")
		return domain.ErrInvalidPasscode
	}
	menu, err := s.rounds.ListRounds(ctx)
	if err != nil {
		return fmt.Errorf("list rounds: %w", err)
	}
	s.loggedIn = true
	s.menu = menu
	s.screen = ScreenHome
	s.log.Info("presenter logged in")
	s.publishLocked()
	return nil
}

// Logout discards the engine and returns to the login screen.
func (s *Shell) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveRoundLocked()
	s.loggedIn = false
	s.current = nil
	s.menu = nil
	s.screen = ScreenLogin
	s.publishLocked()
}

// Home discards the engine and shows the round menu.
func (s *Shell) Home(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}
	menu, err := s.rounds.ListRounds(ctx)
	if err != nil {
		return fmt.Errorf("list rounds: %w", err)
	}
	s.leaveRoundLocked()
	s.menu = menu
	s.current = nil
	s.screen = ScreenHome
	s.publishLocked()
	return nil
}

// ToggleTheme flips between the light and dark palettes.
func (s *Shell) ToggleTheme() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	s.publishLocked()
}

// OpenInstructions shows the round's instructions without starting it.
func (s *Shell) OpenInstructions(ctx context.Context, roundID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}
	r, err := s.loadLocked(ctx, roundID)
	if err != nil {
		return err
	}
	s.leaveRoundLocked()
	s.current = &r
	s.screen = ScreenInstructions
	s.publishLocked()
	return nil
}

// StartRound enters a round with a fresh engine. Nothing changes if the
// round cannot be loaded or built.
func (s *Shell) StartRound(ctx context.Context, roundID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}
	r, err := s.loadLocked(ctx, roundID)
	if err != nil {
		return err
	}

	opts := []round.EngineOption{
		round.WithClock(s.cfg.Clock),
		round.WithEffects(s.cues),
		round.WithTimerSeconds(s.cfg.TimerSeconds),
		round.WithCelebrationWindow(s.cfg.Celebration),
		round.WithObserver(s.onEngineChange),
	}
	var (
		sequential *round.Sequential
		board      *round.Board
	)
	switch r.Kind {
	case domain.KindSequential:
		sequential, err = round.NewSequential(r.Questions, opts...)
	case domain.KindBoard:
		board, err = round.NewBoard(r.Questions, opts...)
	default:
		err = fmt.Errorf("round %s: unsupported kind %q", r.ID, r.Kind)
	}
	if err != nil {
		return err
	}

	s.leaveRoundLocked()
	s.current = &r
	s.sequential = sequential
	s.board = board
	s.screen = ScreenRound
	s.cfg.Metrics.RoundStarted(string(r.Kind))
	s.log.Info("round started", zap.String("round", r.ID), zap.String("kind", string(r.Kind)), zap.Int("questions", len(r.Questions)))
	s.publishLocked()
	return nil
}

func (s *Shell) Advance() error {
	return s.withSequential(func(e *round.Sequential) error {
		e.Advance()
		return nil
	})
}

func (s *Shell) Retreat() error {
	return s.withSequential(func(e *round.Sequential) error {
		e.Retreat()
		return nil
	})
}

func (s *Shell) ToggleAutoAdvance() error {
	return s.withSequential(func(e *round.Sequential) error {
		e.ToggleAutoAdvance()
		return nil
	})
}

func (s *Shell) Focus(questionID string) error {
	return s.withBoard(func(b *round.Board) error {
		return b.Focus(questionID)
	})
}

func (s *Shell) SelectOption(label string) error {
	return s.withBoard(func(b *round.Board) error {
		return b.SelectOption(label)
	})
}

func (s *Shell) Reveal() error {
	return s.withBoard(func(b *round.Board) error {
		if err := b.Reveal(); err != nil {
			return err
		}
		s.cfg.Metrics.Reveal(b.Correct())
		return nil
	})
}

func (s *Shell) CloseQuestion() error {
	return s.withBoard(func(b *round.Board) error {
		b.Close()
		return nil
	})
}

// HandleKey routes a key press to the active engine's key policy. It reports
// whether the key was consumed.
func (s *Shell) HandleKey(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.roundLocked(); err != nil {
		return false, err
	}
	var (
		handled bool
		err     error
	)
	if s.sequential != nil {
		handled = s.sequential.HandleKey(s.cfg.Keys, key)
	} else {
		handled, err = s.board.HandleKey(s.cfg.Keys, key)
	}
	if handled && err == nil {
		s.publishLocked()
	}
	return handled, err
}

// Snapshot returns the current projection. Pending cues stay queued for the
// next published update.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(nil)
}

// Subscribe returns a channel that receives a snapshot after every change,
// starting with the current one. The caller must invoke cancel to avoid leaks.
func (s *Shell) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked(nil)
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the engine and its timers. The shell stays usable.
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveRoundLocked()
}

func (s *Shell) attach() {
	s.mu.Lock()
	s.attached++
	s.mu.Unlock()
}

// detach reports whether the last connection left.
func (s *Shell) detach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 {
		s.attached--
	}
	return s.attached == 0
}

// Idle reports whether no connection is attached.
func (s *Shell) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached == 0
}

func (s *Shell) withSequential(fn func(*round.Sequential) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.roundLocked(); err != nil {
		return err
	}
	if s.sequential == nil {
		return domain.ErrRoundKindMismatch
	}
	if err := fn(s.sequential); err != nil {
		return err
	}
	s.publishLocked()
	return nil
}

func (s *Shell) withBoard(fn func(*round.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.roundLocked(); err != nil {
		return err
	}
	if s.board == nil {
		return domain.ErrRoundKindMismatch
	}
	if err := fn(s.board); err != nil {
		return err
	}
	s.publishLocked()
	return nil
}

func (s *Shell) roundLocked() error {
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}
	if s.screen != ScreenRound || (s.sequential == nil && s.board == nil) {
		return domain.ErrNoActiveRound
	}
	return nil
}

func (s *Shell) loadLocked(ctx context.Context, roundID string) (domain.Round, error) {
	r, err := s.rounds.GetRound(ctx, roundID)
	s.cfg.Metrics.BankLoad(err)
	if err != nil {
		s.log.Warn("load round failed", zap.String("round", roundID), zap.Error(err))
		return domain.Round{}, err
	}
	return r, nil
}

// leaveRoundLocked discards the engine. Nothing carries over to the next entry.
func (s *Shell) leaveRoundLocked() {
	if s.sequential != nil {
		s.sequential.Stop()
		s.sequential = nil
	}
	if s.board != nil {
		s.board.Stop()
		s.board = nil
	}
	s.cues.reset()
}

// onEngineChange publishes clock-driven changes. Engines call it with their
// own lock released.
func (s *Shell) onEngineChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked()
}

func (s *Shell) publishLocked() {
	s.version++
	snap := s.snapshotLocked(s.cues.drain())
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale update so a slow reader never blocks the shell
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (s *Shell) snapshotLocked(cues []round.Cue) Snapshot {
	snap := Snapshot{
		Session:        s.id,
		Version:        s.version,
		Screen:         s.screen,
		LoggedIn:       s.loggedIn,
		DarkMode:       s.darkMode,
		ConventionName: s.cfg.ConventionName,
		Cues:           cues,
	}
	if s.screen == ScreenHome {
		snap.Menu = append([]domain.RoundSummary(nil), s.menu...)
	}
	if s.current != nil && (s.screen == ScreenInstructions || s.screen == ScreenRound) {
		snap.Round = &RoundView{
			ID:           s.current.ID,
			Kind:         s.current.Kind,
			Title:        s.current.Title,
			Instructions: s.current.Instructions,
		}
	}
	if s.screen == ScreenRound {
		if s.sequential != nil {
			state := s.sequential.State()
			snap.Sequential = &state
		}
		if s.board != nil {
			state := s.board.State()
			snap.Board = &state
		}
	}
	return snap
}
