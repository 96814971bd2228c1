// Package testutil provides shared test infrastructure: config builders,
// fixture writers, and security assertions.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/secretenv/secretenv/internal/config"
)

// SetupTestEnv sets environment variables for the duration of a test.
// The original environment is restored automatically via t.Cleanup.
func SetupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for key, value := range vars {
		t.Setenv(key, value)
	}
}

// AssertSecretRedacted verifies that a secret value does not appear in a
// string and that the [REDACTED] marker is present instead.
func AssertSecretRedacted(t *testing.T, output, secretValue string) {
	t.Helper()

	assert.NotContains(t, output, secretValue,
		"Secret value %q should be redacted, but appears in output", secretValue)
	assert.Contains(t, output, "[REDACTED]",
		"Expected [REDACTED] marker when secret is used")
}

// WriteFixture writes content to name inside a fresh temp dir and returns
// the full path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ConfigBuilder builds secretenv.yaml files for tests without hand-writing
// YAML strings.
//
// Example usage:
//
//	path := testutil.NewConfig(t).
//	    WithBundle("app/runtime").
//	    WithOutput("both", ".env").
//	    Write()
type ConfigBuilder struct {
	t   *testing.T
	def config.Definition
	dir string
}

// NewConfig creates a builder with a minimal valid definition
func NewConfig(t *testing.T) *ConfigBuilder {
	t.Helper()

	return &ConfigBuilder{
		t:   t,
		dir: t.TempDir(),
		def: config.Definition{
			Version: 0,
			Backend: config.BackendConfig{Type: "aws-secretsmanager", Region: "us-east-1"},
			Bundle:  config.BundleConfig{Name: "app/runtime"},
		},
	}
}

// WithBackend sets the backend type and region
func (b *ConfigBuilder) WithBackend(backendType, region string) *ConfigBuilder {
	b.def.Backend.Type = backendType
	b.def.Backend.Region = region
	return b
}

// WithEndpoint points the backend at a local emulation endpoint
func (b *ConfigBuilder) WithEndpoint(endpoint string) *ConfigBuilder {
	b.def.Backend.Endpoint = endpoint
	return b
}

// WithTimeout overrides the per-call timeout in milliseconds
func (b *ConfigBuilder) WithTimeout(ms int) *ConfigBuilder {
	b.def.Backend.TimeoutMs = ms
	return b
}

// WithBundle sets the primary bundle name
func (b *ConfigBuilder) WithBundle(name string) *ConfigBuilder {
	b.def.Bundle.Name = name
	return b
}

// WithSources sets the source file paths
func (b *ConfigBuilder) WithSources(devcontainer, envTemplate string) *ConfigBuilder {
	b.def.Sources.Devcontainer = devcontainer
	b.def.Sources.EnvTemplate = envTemplate
	return b
}

// WithOutput sets the output mode and file path
func (b *ConfigBuilder) WithOutput(mode, path string) *ConfigBuilder {
	b.def.Output.Mode = config.OutputMode(mode)
	b.def.Output.Path = path
	return b
}

// Dir returns the builder's temp directory, for co-locating fixtures
func (b *ConfigBuilder) Dir() string {
	return b.dir
}

// Write marshals the definition to secretenv.yaml and returns its path
func (b *ConfigBuilder) Write() string {
	b.t.Helper()

	data, err := yaml.Marshal(b.def)
	require.NoError(b.t, err)

	path := filepath.Join(b.dir, "secretenv.yaml")
	require.NoError(b.t, os.WriteFile(path, data, 0o600))
	return path
}
