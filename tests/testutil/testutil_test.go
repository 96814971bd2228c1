package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretenv/secretenv/internal/config"
	"github.com/secretenv/secretenv/internal/logging"
)

func TestConfigBuilderOutputLoads(t *testing.T) {
	path := NewConfig(t).
		WithEndpoint("http://localhost:4566").
		WithTimeout(2500).
		WithOutput("file", ".env.local").
		Write()

	cfg := &config.Config{Path: path, Logger: logging.New(false, true)}
	require.NoError(t, cfg.Load())

	assert.Equal(t, 0, cfg.Definition.Version)
	assert.Equal(t, "aws-secretsmanager", cfg.Definition.Backend.Type)
	assert.Equal(t, "http://localhost:4566", cfg.Definition.Backend.Endpoint)
	assert.Equal(t, 2500, cfg.Definition.Backend.TimeoutMs)
	assert.Equal(t, config.ModeFile, cfg.Definition.Output.Mode)
	assert.Equal(t, ".env.local", cfg.Definition.Output.Path)
}
