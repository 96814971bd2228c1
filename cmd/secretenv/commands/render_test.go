package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommand_RequiresOutPath(t *testing.T) {
	cfg, _ := deadBackendConfig(t)

	cmd := NewRenderCommand(cfg)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Output path is required")
}

func TestRenderCommand_RejectsUnknownFormat(t *testing.T) {
	cfg, dir := deadBackendConfig(t)

	cmd := NewRenderCommand(cfg)
	cmd.SetArgs([]string{"--out", filepath.Join(dir, "out.env"), "--format", "toml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRenderCommand_BundleFailureWritesNothing(t *testing.T) {
	cfg, dir := deadBackendConfig(t)
	outPath := filepath.Join(dir, "out.env")

	cmd := NewRenderCommand(cfg)
	cmd.SetArgs([]string{"--out", outPath})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app/runtime")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}
