package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/backend"
	"github.com/secretenv/secretenv/internal/config"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check backend connectivity and configuration",
		Long: `Verify that the configuration is valid and the backend is reachable.

This command checks:
- Configuration file validity
- AWS caller identity (STS GetCallerIdentity)
- Backend accessibility with the configured credentials`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger.Info("Checking secretenv configuration...")
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("Configuration error: %v", err)
				return err
			}
			cfg.Logger.Info("Configuration loaded from %s", cfg.Path)

			ctx := context.Background()
			o := backend.Options{
				Region:          cfg.Definition.Backend.Region,
				Endpoint:        cfg.Definition.Backend.Endpoint,
				AccessKeyID:     cfg.Definition.Backend.AccessKeyID,
				SecretAccessKey: cfg.Definition.Backend.SecretAccessKey,
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			checker, err := backend.NewIdentityChecker(ctx, o)
			if err != nil {
				return err
			}
			identity, err := checker.WhoAmI(ctx)
			if err != nil {
				cfg.Logger.Error("Caller identity check failed: %v", err)
				return err
			}
			fmt.Fprintf(w, "account\t%s\n", identity.Account)
			fmt.Fprintf(w, "caller\t%s\n", identity.ARN)
			fmt.Fprintf(w, "region\t%s\n", cfg.Definition.Backend.Region)

			b, err := newBackend(ctx, cfg)
			if err != nil {
				return err
			}
			if err := b.Validate(ctx); err != nil {
				cfg.Logger.Error("Backend check failed: %v", err)
				return err
			}
			fmt.Fprintf(w, "backend\t%s (healthy)\n", b.Name())

			cfg.Logger.Info("All checks passed")
			return nil
		},
	}

	return cmd
}
