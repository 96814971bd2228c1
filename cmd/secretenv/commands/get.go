package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/internal/config"
	seerrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/logging"
	"github.com/secretenv/secretenv/internal/reference"
	"github.com/secretenv/secretenv/internal/secure"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get <resource-id>",
		Short: "Fetch a single secret value",
		Long: `Fetch one secret directly from the backend. The argument is either a raw
backend identifier or a full ${arn:aws:secretsmanager:...} reference.

The value is held in protected memory and printed masked by default. Use
--reveal for the plaintext, e.g. when scripting:

  export DB_URL=$(secretenv get db-url --reveal)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			resourceID := args[0]
			if ref, ok := reference.Parse(resourceID); ok {
				if cfg.Definition.Backend.Type == "aws-ssm" {
					resourceID = ref.ARN()
				} else {
					name, err := ref.SecretName()
					if err != nil {
						return err
					}
					resourceID = name
				}
			}

			ctx := context.Background()
			b, err := newBackend(ctx, cfg)
			if err != nil {
				return err
			}

			value, err := b.FetchValue(ctx, resourceID)
			if err != nil {
				return seerrors.BackendError(b.Name(), fmt.Sprintf("fetch of '%s'", resourceID), err)
			}

			// Seal the plaintext; []byte(value) hands memguard its own copy.
			held := secure.NewValue([]byte(value))
			defer held.Destroy()
			defer secure.Purge()

			return held.Use(func(plaintext []byte) error {
				if reveal {
					_, err := fmt.Fprintln(os.Stdout, string(plaintext))
					return err
				}
				fmt.Println(logging.Mask(string(plaintext)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the plaintext value instead of a masked one")

	return cmd
}
