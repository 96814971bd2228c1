package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/config"
)

const exampleConfig = `version: 0

backend:
  type: aws-secretsmanager
  region: us-east-1
  # endpoint: http://localhost:4566  # local emulation (LocalStack etc.)
  # timeout_ms: 10000

# The primary secret bundle: a Secrets Manager secret holding a flat JSON
# object of key/value pairs. Required.
bundle:
  name: app/runtime

# Optional files scanned for ${arn:aws:secretsmanager:...} references.
sources:
  devcontainer: .devcontainer/devcontainer.json
  envTemplate: .env.example

output:
  mode: both   # env, file, or both
  path: .env
`

func NewInitCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new secretenv configuration",
		Long:  "Create a secretenv.yaml file with example configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(cfg.Path); err == nil {
				return fmt.Errorf("%s already exists. Remove it first if you want to reinitialize", cfg.Path)
			}

			if err := os.WriteFile(cfg.Path, []byte(exampleConfig), 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cfg.Logger.Info("Created %s", cfg.Path)
			cfg.Logger.Info("Next steps:")
			cfg.Logger.Info("  1. Edit %s to point at your secret bundle and sources", cfg.Path)
			cfg.Logger.Info("  2. Run 'secretenv doctor' to verify backend connectivity")
			cfg.Logger.Info("  3. Run 'secretenv plan' to preview what would be resolved")
			cfg.Logger.Info("  4. Run 'secretenv sync' to export your secrets")
			return nil
		},
	}

	return cmd
}
