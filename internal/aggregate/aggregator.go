// Package aggregate orchestrates reference resolution across configuration
// sources, merges the results, and routes them to the configured sinks.
package aggregate

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/secretenv/secretenv/internal/backend"
	"github.com/secretenv/secretenv/internal/config"
	"github.com/secretenv/secretenv/internal/environ"
	"github.com/secretenv/secretenv/internal/logging"
	"github.com/secretenv/secretenv/internal/render"
	"github.com/secretenv/secretenv/internal/resolve"
)

// Source is one named configuration mapping to resolve. Sources are merged
// in slice order: a later source wins on key collision.
type Source struct {
	Name string
	Vars map[string]string
}

// Result is the outcome of one aggregation pass.
type Result struct {
	// Merged is the final key set, keys uppercased. When the bundle fetch
	// succeeded its fields are merged in with highest precedence.
	Merged map[string]string

	// Bundle holds the primary bundle fields on their own, uppercased.
	Bundle map[string]string

	// Failures lists the per-key reference failures across all sources.
	// These never abort the pass.
	Failures []resolve.Resolution

	// BundleErr is set when the primary bundle fetch failed. The bundle is
	// the one mandatory secret source, so callers must surface this.
	BundleErr error
}

// Aggregator merges resolved sources with the primary secret bundle.
type Aggregator struct {
	backend  backend.Backend
	resolver *resolve.Resolver
	logger   *logging.Logger
}

// New creates an aggregator
func New(b backend.Backend, r *resolve.Resolver, logger *logging.Logger) *Aggregator {
	return &Aggregator{backend: b, resolver: r, logger: logger}
}

// Run resolves every source and fetches the primary bundle. Sources resolve
// concurrently; the merge happens only after all of them have completed, so
// precedence stays deterministic. Merge order is: sources in slice order,
// then the bundle, later wins.
func (a *Aggregator) Run(ctx context.Context, sources []Source, bundleName string) Result {
	resolved := make([]map[string]resolve.Resolution, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			resolved[i] = a.resolver.ResolveMapping(ctx, src.Vars)
		}(i, src)
	}

	var bundle map[string]string
	var bundleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		bundle, bundleErr = a.backend.FetchBundle(ctx, bundleName)
	}()

	wg.Wait()

	result := Result{
		Merged:    make(map[string]string),
		BundleErr: bundleErr,
	}

	for i, resolutions := range resolved {
		result.Failures = append(result.Failures, resolve.Failed(resolutions)...)
		for key, res := range resolutions {
			result.Merged[strings.ToUpper(key)] = res.Value
		}
		a.logger.Debug("merged %d keys from %s", len(resolutions), sources[i].Name)
	}

	if bundleErr != nil {
		a.logger.Error("failed to fetch secret bundle %q: %v", bundleName, bundleErr)
		return result
	}

	result.Bundle = make(map[string]string, len(bundle))
	for key, value := range bundle {
		upper := strings.ToUpper(key)
		result.Bundle[upper] = value
		result.Merged[upper] = value
	}
	a.logger.Info("fetched secret bundle %q (%d keys)", bundleName, len(bundle))

	return result
}

// Route delivers the merged set to the sinks selected by mode. Mode only
// controls destinations; every merged key goes to each selected sink.
func (a *Aggregator) Route(result Result, mode config.OutputMode, env environ.Environ, outPath string) error {
	if mode == config.ModeEnv || mode == config.ModeBoth {
		for _, key := range sortedKeys(result.Merged) {
			if err := env.Set(key, result.Merged[key]); err != nil {
				return err
			}
		}
		a.logger.Info("exported %d environment variables", len(result.Merged))
	}

	if mode == config.ModeFile || mode == config.ModeBoth {
		if err := render.WriteFile(outPath, result.Merged, render.FormatDotenv); err != nil {
			return err
		}
		a.logger.Info("wrote %d keys to %s", len(result.Merged), outPath)
	}

	return nil
}

func sortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
