package app

import (
	"context"
	"fmt"

	"convention-quiz/internal/domain"
)

// SessionRepository abstracts how presenter sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string, create func() *Shell) *Shell
	Get(sessionID string) (*Shell, bool)
	DeleteIfIdle(sessionID string)
}

// Command is one presenter intent as it arrives from a transport.
type Command struct {
	Name       string
	RoundID    string
	QuestionID string
	Label      string
	Key        string
	Passcode   string
}

// Command names understood by Dispatch.
const (
	CmdLogin             = "login"
	CmdLogout            = "logout"
	CmdHome              = "home"
	CmdToggleTheme       = "toggleTheme"
	CmdInstructions      = "instructions"
	CmdStart             = "start"
	CmdAdvance           = "advance"
	CmdRetreat           = "retreat"
	CmdToggleAutoAdvance = "toggleAutoAdvance"
	CmdFocus             = "focus"
	CmdSelect            = "select"
	CmdReveal            = "reveal"
	CmdClose             = "close"
	CmdKey               = "key"
)

// PresenterService keys shells by session id and routes commands to them.
type PresenterService struct {
	sessions SessionRepository
	rounds   RoundRepository
	cfg      ShellConfig
}

func NewPresenterService(store SessionRepository, rounds RoundRepository, cfg ShellConfig) *PresenterService {
	return &PresenterService{sessions: store, rounds: rounds, cfg: cfg}
}

// Attach registers a connection for sessionID, creating the shell on first use.
func (s *PresenterService) Attach(_ context.Context, sessionID string) *Shell {
	shell := s.sessions.GetOrCreate(sessionID, func() *Shell {
		return NewShell(sessionID, s.rounds, s.cfg)
	})
	shell.attach()
	s.cfg.Metrics.SessionAttached()
	return shell
}

// Dispatch applies cmd to the session. A rejected command leaves the shell unchanged.
func (s *PresenterService) Dispatch(ctx context.Context, sessionID string, cmd Command) error {
	shell, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	err := apply(ctx, shell, cmd)
	s.cfg.Metrics.Intent(cmd.Name, err)
	return err
}

func apply(ctx context.Context, shell *Shell, cmd Command) error {
	switch cmd.Name {
	case CmdLogin:
		return shell.Login(ctx, cmd.Passcode)
	case CmdLogout:
		shell.Logout()
		return nil
	case CmdHome:
		return shell.Home(ctx)
	case CmdToggleTheme:
		shell.ToggleTheme()
		return nil
	case CmdInstructions:
		return shell.OpenInstructions(ctx, cmd.RoundID)
	case CmdStart:
		return shell.StartRound(ctx, cmd.RoundID)
	case CmdAdvance:
		return shell.Advance()
	case CmdRetreat:
		return shell.Retreat()
	case CmdToggleAutoAdvance:
		return shell.ToggleAutoAdvance()
	case CmdFocus:
		return shell.Focus(cmd.QuestionID)
	case CmdSelect:
		return shell.SelectOption(cmd.Label)
	case CmdReveal:
		return shell.Reveal()
	case CmdClose:
		return shell.CloseQuestion()
	case CmdKey:
		_, err := shell.HandleKey(cmd.Key)
		return err
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Name)
	}
}

// Subscribe returns a channel that receives snapshots for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *PresenterService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	shell, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := shell.Subscribe()
	return ch, cancel, nil
}

// Detach drops a connection and deletes the session once the last one leaves.
func (s *PresenterService) Detach(_ context.Context, sessionID string) {
	shell, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.cfg.Metrics.SessionDetached()
	if shell.detach() {
		s.sessions.DeleteIfIdle(sessionID)
	}
}
