package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/aggregate"
	"github.com/secretenv/secretenv/internal/config"
	"github.com/secretenv/secretenv/internal/environ"
	seerrors "github.com/secretenv/secretenv/internal/errors"
)

func NewSyncCommand(cfg *config.Config) *cobra.Command {
	var (
		outputMode string
		outPath    string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Resolve all sources and export the merged secret set",
		Long: `Resolve secret references from the configured sources, fetch the primary
secret bundle, and deliver the merged set to the configured sinks.

Sources are merged with fixed precedence: devcontainer values are overridden
by env template values, which are overridden by bundle fields. Keys are
normalized to uppercase. A reference that fails to resolve keeps its raw
placeholder and is reported, but never aborts the run; a failed bundle fetch
makes the command exit non-zero after the other results are delivered.

Examples:
  secretenv sync
  secretenv sync --output file --out .env.local
  secretenv sync --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			mode := cfg.Definition.Output.Mode
			if outputMode != "" {
				m, err := config.ParseOutputMode(outputMode)
				if err != nil {
					return err
				}
				mode = m
			}
			path := cfg.Definition.Output.Path
			if outPath != "" {
				path = outPath
			}

			ctx := context.Background()
			b, err := newBackend(ctx, cfg)
			if err != nil {
				return err
			}

			agg := aggregate.New(b, newResolver(b, cfg), cfg.Logger)
			result := agg.Run(ctx, loadSources(cfg), cfg.Definition.Bundle.Name)
			reportFailures(cfg.Logger, result.Failures)

			if dryRun {
				env := environ.NewMap()
				if err := agg.Route(result, config.ModeEnv, env, ""); err != nil {
					return err
				}
				fmt.Printf("Would export %d variables:\n", len(result.Merged))
				printMasked(env.Snapshot())
			} else {
				if err := agg.Route(result, mode, environ.OS(), path); err != nil {
					return err
				}
			}

			// Delivered results stand even when the bundle failed; the
			// failure still decides the exit code.
			if result.BundleErr != nil {
				return seerrors.UserError{
					Message:    fmt.Sprintf("Failed to fetch secret bundle '%s'", cfg.Definition.Bundle.Name),
					Details:    result.BundleErr.Error(),
					Suggestion: "Check that the bundle exists and your credentials can read it. Run 'secretenv doctor' to verify connectivity",
					Err:        result.BundleErr,
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputMode, "output", "", "Output mode: env, file, or both (overrides config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve everything but print masked values instead of exporting")

	return cmd
}
