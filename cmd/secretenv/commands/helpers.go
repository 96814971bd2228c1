package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/secretenv/secretenv/internal/aggregate"
	"github.com/secretenv/secretenv/internal/backend"
	"github.com/secretenv/secretenv/internal/config"
	"github.com/secretenv/secretenv/internal/logging"
	"github.com/secretenv/secretenv/internal/resolve"
	"github.com/secretenv/secretenv/internal/sources"
)

// newBackend builds the backend selected by the configuration.
func newBackend(ctx context.Context, cfg *config.Config) (backend.Backend, error) {
	o := backend.Options{
		Region:          cfg.Definition.Backend.Region,
		Endpoint:        cfg.Definition.Backend.Endpoint,
		AccessKeyID:     cfg.Definition.Backend.AccessKeyID,
		SecretAccessKey: cfg.Definition.Backend.SecretAccessKey,
	}
	switch cfg.Definition.Backend.Type {
	case "aws-ssm":
		return backend.NewSSMBackend(ctx, o)
	default:
		return backend.NewSecretsManagerBackend(ctx, o)
	}
}

// newResolver builds a resolver with the backend's identifier policy and the
// configured per-call timeout. Secrets Manager addresses secrets by name, so
// references are stripped down to the name segments; SSM takes the full ARN.
func newResolver(b backend.Backend, cfg *config.Config) *resolve.Resolver {
	policy := resolve.SecretNamePolicy
	if cfg.Definition.Backend.Type == "aws-ssm" {
		policy = resolve.ARNPolicy
	}
	timeout := time.Duration(cfg.Definition.Backend.TimeoutMs) * time.Millisecond
	return resolve.New(b, policy, cfg.Logger, resolve.WithTimeout(timeout))
}

// loadSources reads the configured source files. A configured but unreadable
// source is skipped with a warning; it never aborts the run.
func loadSources(cfg *config.Config) []aggregate.Source {
	var out []aggregate.Source

	if path := cfg.Definition.Sources.Devcontainer; path != "" {
		dc, err := sources.ReadDevcontainer(path)
		if err != nil {
			cfg.Logger.Warn("Skipping devcontainer source %s: %v", path, err)
		} else {
			out = append(out, aggregate.Source{Name: "devcontainer", Vars: dc.Flatten()})
		}
	}

	if path := cfg.Definition.Sources.EnvTemplate; path != "" {
		vars, err := sources.ReadEnvFile(path)
		if err != nil {
			cfg.Logger.Warn("Skipping env template source %s: %v", path, err)
		} else {
			out = append(out, aggregate.Source{Name: "env template", Vars: vars})
		}
	}

	return out
}

// reportFailures summarizes per-reference failures. These were already logged
// individually during resolution.
func reportFailures(logger *logging.Logger, failures []resolve.Resolution) {
	if len(failures) == 0 {
		return
	}
	logger.Warn("%d reference(s) could not be resolved and kept their placeholders", len(failures))
}

// printMasked prints a variable set with masked values, sorted by key.
func printMasked(vars map[string]string) {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %s=%s\n", key, logging.Mask(vars[key]))
	}
}
