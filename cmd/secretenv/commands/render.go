package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/aggregate"
	"github.com/secretenv/secretenv/internal/config"
	seerrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/render"
)

func NewRenderCommand(cfg *config.Config) *cobra.Command {
	var (
		outPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "render --out <file>",
		Short: "Resolve secrets and write them to a file",
		Long: `Resolve the full merged secret set and write it to a file, ignoring the
configured output mode. The process environment is never touched.

Supported formats:
  dotenv   - KEY=VALUE lines (default)
  json     - JSON object
  yaml     - YAML mapping

Examples:
  secretenv render --out .env.local
  secretenv render --out secrets.json --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return seerrors.UserError{
					Message:    "Output path is required",
					Suggestion: "Use --out <file> to choose where secrets are written",
				}
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

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

			if err := render.WriteFile(outPath, result.Merged, f); err != nil {
				return err
			}
			cfg.Logger.Info("Wrote %d keys to %s", len(result.Merged), outPath)
			cfg.Logger.Warn("Remember to add %s to .gitignore", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (required)")
	cmd.Flags().StringVar(&format, "format", "dotenv", "Output format: dotenv, json, or yaml")

	return cmd
}
