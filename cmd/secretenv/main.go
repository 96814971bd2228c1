package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/secretenv/secretenv/cmd/secretenv/commands"
	"github.com/secretenv/secretenv/internal/config"
	"github.com/secretenv/secretenv/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "secretenv",
		Short: "Resolve AWS secret references into your environment",
		Long: `secretenv resolves ${arn:aws:secretsmanager:...} references found in
devcontainer.json and .env templates, fetches your application's secret
bundle, and exports the merged set as environment variables or a .env file.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(debug, noColor)

			cfg.Path = configFile
			cfg.Logger = logger
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "secretenv.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewInitCommand(cfg),
		commands.NewSyncCommand(cfg),
		commands.NewPlanCommand(cfg),
		commands.NewRenderCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewExecCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
