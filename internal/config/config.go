// Package config loads and validates the secretenv.yaml runtime
// configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	serrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/logging"
)

// DefaultTimeoutMs is the per-call backend timeout when the file does not
// override it.
const DefaultTimeoutMs = 10000

// OutputMode selects which sinks receive the merged secret set. Fixed at
// process start.
type OutputMode string

const (
	// ModeEnv sets every merged key as a process environment variable.
	ModeEnv OutputMode = "env"
	// ModeFile hands the merged set to the file writer.
	ModeFile OutputMode = "file"
	// ModeBoth does both. No keys are dropped in any mode.
	ModeBoth OutputMode = "both"
)

// ParseOutputMode validates a mode string
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(s) {
	case ModeEnv, ModeFile, ModeBoth:
		return OutputMode(s), nil
	default:
		return "", serrors.ConfigError{
			Field:      "output.mode",
			Value:      s,
			Message:    "unknown output mode",
			Suggestion: "Use one of: env, file, both",
		}
	}
}

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the secretenv.yaml structure
type Definition struct {
	Version int           `yaml:"version" json:"version"`
	Backend BackendConfig `yaml:"backend" json:"backend"`
	Bundle  BundleConfig  `yaml:"bundle" json:"bundle"`
	Sources SourcesConfig `yaml:"sources,omitempty" json:"sources,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
}

// BackendConfig selects and configures the secret store
type BackendConfig struct {
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	TimeoutMs int    `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`

	// Static credentials are for local emulation (LocalStack) only; real
	// deployments rely on the provider default credential chain.
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
}

// BundleConfig names the primary application secret bundle
type BundleConfig struct {
	Name string `yaml:"name" json:"name"`
}

// SourcesConfig points at the optional reference-bearing config sources
type SourcesConfig struct {
	Devcontainer string `yaml:"devcontainer,omitempty" json:"devcontainer,omitempty"`
	EnvTemplate  string `yaml:"envTemplate,omitempty" json:"envTemplate,omitempty"`
}

// OutputConfig controls routing of the merged secret set
type OutputConfig struct {
	Mode OutputMode `yaml:"mode,omitempty" json:"mode,omitempty"`
	Path string     `yaml:"path,omitempty" json:"path,omitempty"`
}

// Load reads, validates and parses the secretenv.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return serrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a secretenv.yaml or pass --config",
			}
		}
		return serrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return serrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	if err := validateSchema(raw); err != nil {
		return serrors.ConfigError{
			Message:    fmt.Sprintf("configuration does not match schema: %v", err),
			Suggestion: "Compare your secretenv.yaml against the documented layout",
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return serrors.ConfigError{
			Message:    "invalid configuration structure",
			Suggestion: "Compare your secretenv.yaml against the documented layout",
		}
	}

	if def.Version != 0 {
		return serrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your secretenv.yaml file",
		}
	}

	applyDefaults(&def)

	if _, err := ParseOutputMode(string(def.Output.Mode)); err != nil {
		return err
	}
	if def.Backend.Type != "aws-secretsmanager" && def.Backend.Type != "aws-ssm" {
		return serrors.ConfigError{
			Field:      "backend.type",
			Value:      def.Backend.Type,
			Message:    "unknown backend type",
			Suggestion: "Use one of: aws-secretsmanager, aws-ssm",
		}
	}
	if def.Bundle.Name == "" {
		return serrors.ConfigError{
			Field:      "bundle.name",
			Message:    "the primary secret bundle name is required",
			Suggestion: "Set bundle.name to the Secrets Manager secret holding your application secrets",
		}
	}

	c.Definition = &def
	return nil
}

func applyDefaults(def *Definition) {
	if def.Backend.Type == "" {
		def.Backend.Type = "aws-secretsmanager"
	}
	if def.Backend.TimeoutMs == 0 {
		def.Backend.TimeoutMs = DefaultTimeoutMs
	}
	if def.Output.Mode == "" {
		def.Output.Mode = ModeBoth
	}
	if def.Output.Path == "" {
		def.Output.Path = ".env"
	}
}
