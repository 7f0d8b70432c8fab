package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"convention-quiz/internal/ui/presenter"
)

// terminalSession is the session id the terminal presenter attaches to.
const terminalSession = "terminal"

// NewPresentCmd runs the presenter in the terminal.
func NewPresentCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "present",
		Short: "Run the quiz presenter in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresenter(cmd.Context(), *configPath)
		},
	}
}

func runPresenter(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs only go to log.file
	log, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	rt, err := newRuntime(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	service := rt.service()
	shell := service.Attach(ctx, terminalSession)
	defer service.Detach(ctx, terminalSession)
	updates, cancel, err := service.Subscribe(ctx, terminalSession)
	if err != nil {
		return err
	}
	defer cancel()

	program := tea.NewProgram(presenter.NewModel(ctx, shell, updates), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
