package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"convention-quiz/internal/infra/file"
)

// NewValidateCmd checks the config and every round file without serving anything.
func NewValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config and every configured round file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			rounds, err := file.NewLoader(cfg).LoadAll(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range rounds {
				fmt.Fprintf(out, "ok  %s (%s): %d questions\n", r.ID, r.Kind, len(r.Questions))
			}
			if err != nil {
				return err
			}
			if len(rounds) == 0 {
				fmt.Fprintln(out, "no rounds configured; the built-in sample rounds will be served")
			}
			return nil
		},
	}
}
