package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/aggregate"
	"github.com/secretenv/secretenv/internal/config"
	seerrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/execenv"
)

func NewExecCommand(cfg *config.Config) *cobra.Command {
	var (
		keepExisting bool
		printVars    bool
		workingDir   string
	)

	cmd := &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Run a command with the resolved secrets in its environment",
		Long: `Resolve the merged secret set and run a command with those variables layered
over the inherited environment. Nothing is written to disk and the parent
process environment is left untouched.

Examples:
  secretenv exec -- npm start
  secretenv exec --print-vars -- ./server --port 8080`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			ctx := context.Background()
			b, err := newBackend(ctx, cfg)
			if err != nil {
				return err
			}

			agg := aggregate.New(b, newResolver(b, cfg), cfg.Logger)
			result := agg.Run(ctx, loadSources(cfg), cfg.Definition.Bundle.Name)
			reportFailures(cfg.Logger, result.Failures)

			if result.BundleErr != nil {
				return seerrors.UserError{
					Message:    fmt.Sprintf("Failed to fetch secret bundle '%s'", cfg.Definition.Bundle.Name),
					Details:    result.BundleErr.Error(),
					Suggestion: "Check that the bundle exists and your credentials can read it",
					Err:        result.BundleErr,
				}
			}

			executor := execenv.New(cfg.Logger)
			code, err := executor.Run(ctx, execenv.Options{
				Command:      args,
				Vars:         result.Merged,
				KeepExisting: keepExisting,
				PrintVars:    printVars,
				WorkingDir:   workingDir,
			})
			if err != nil {
				return err
			}
			if code != 0 {
				// Propagate the child's exit code unchanged.
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepExisting, "keep-existing", false, "Existing environment variables win over resolved values")
	cmd.Flags().BoolVar(&printVars, "print-vars", false, "Print injected variable names with masked values")
	cmd.Flags().StringVar(&workingDir, "cwd", "", "Working directory for the command")

	return cmd
}
