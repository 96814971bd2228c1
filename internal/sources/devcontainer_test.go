package sources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretenv/secretenv/internal/sources"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadDevcontainer(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "devcontainer.json", `{
	"name": "myapp",
	"containerEnv": {
		"DB_URL": "${arn:aws:secretsmanager:us-east-1:111111111111:secret:db-abc123}",
		"LOG_LEVEL": "debug"
	},
	"build": {
		"dockerfile": "Dockerfile",
		"args": {
			"NPM_TOKEN": "${arn:aws:secretsmanager:us-east-1:111111111111:secret:npm-abc123}"
		}
	},
	"remoteEnv": {
		"EDITOR": "vim"
	}
}`)

	dc, err := sources.ReadDevcontainer(path)
	require.NoError(t, err)

	assert.Len(t, dc.ContainerEnv, 2)
	assert.Equal(t, "debug", dc.ContainerEnv["LOG_LEVEL"])
	assert.Equal(t, "${arn:aws:secretsmanager:us-east-1:111111111111:secret:npm-abc123}", dc.BuildArgs["NPM_TOKEN"])
	assert.Equal(t, map[string]string{"EDITOR": "vim"}, dc.RemoteEnv)
}

func TestReadDevcontainerJSONC(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "devcontainer.json", `{
	// the dev container image
	"image": "mcr.microsoft.com/devcontainers/go",
	/* environment
	   variables */
	"containerEnv": {
		"URL": "https://example.com/path" // value with slashes stays intact
	}
}`)

	dc, err := sources.ReadDevcontainer(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path", dc.ContainerEnv["URL"])
}

func TestReadDevcontainerMissingSections(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "devcontainer.json", `{"name": "bare"}`)

	dc, err := sources.ReadDevcontainer(path)
	require.NoError(t, err)
	assert.Empty(t, dc.Flatten())
}

func TestReadDevcontainerMissingFile(t *testing.T) {
	t.Parallel()

	_, err := sources.ReadDevcontainer(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadDevcontainerInvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "devcontainer.json", `{"containerEnv": [}`)

	_, err := sources.ReadDevcontainer(path)
	assert.Error(t, err)
}

func TestDevcontainerFlattenPrecedence(t *testing.T) {
	t.Parallel()

	dc := sources.Devcontainer{
		ContainerEnv: map[string]string{"SHARED": "container", "A": "1"},
		BuildArgs:    map[string]string{"SHARED": "build"},
		RemoteEnv:    map[string]string{"SHARED": "remote", "B": "2"},
	}

	flat := dc.Flatten()
	assert.Equal(t, "remote", flat["SHARED"])
	assert.Equal(t, "1", flat["A"])
	assert.Equal(t, "2", flat["B"])
}
