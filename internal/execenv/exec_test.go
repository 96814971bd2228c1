package execenv

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seerrors "github.com/secretenv/secretenv/internal/errors"
	"github.com/secretenv/secretenv/internal/logging"
)

func TestRunEmptyCommand(t *testing.T) {
	t.Parallel()

	e := New(logging.New(false, true))
	_, err := e.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.IsType(t, seerrors.UserError{}, err)
}

func TestRunCommandNotFound(t *testing.T) {
	t.Parallel()

	e := New(logging.New(false, true))
	_, err := e.Run(context.Background(), Options{
		Command: []string{"definitely-not-a-real-command-xyz"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRunExitCode(t *testing.T) {
	t.Parallel()

	e := New(logging.New(false, true))
	code, err := e.Run(context.Background(), Options{
		Command: []string{"sh", "-c", "exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRunSuccess(t *testing.T) {
	t.Parallel()

	e := New(logging.New(false, true))
	code, err := e.Run(context.Background(), Options{
		Command: []string{"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestBuildEnvironInjectsVars(t *testing.T) {
	env := buildEnviron(map[string]string{"SECRETENV_TEST_KEY": "value"}, false)
	assert.Contains(t, env, "SECRETENV_TEST_KEY=value")
}

func TestBuildEnvironOverride(t *testing.T) {
	t.Setenv("SECRETENV_TEST_EXISTING", "parent")

	env := buildEnviron(map[string]string{"SECRETENV_TEST_EXISTING": "resolved"}, false)
	assert.Contains(t, env, "SECRETENV_TEST_EXISTING=resolved")

	env = buildEnviron(map[string]string{"SECRETENV_TEST_EXISTING": "resolved"}, true)
	assert.Contains(t, env, "SECRETENV_TEST_EXISTING=parent")
}

func TestBuildEnvironSorted(t *testing.T) {
	env := buildEnviron(map[string]string{"ZZZ_LAST": "1", "AAA_FIRST": "2"}, false)
	var first, last int
	for i, entry := range env {
		if strings.HasPrefix(entry, "AAA_FIRST=") {
			first = i
		}
		if strings.HasPrefix(entry, "ZZZ_LAST=") {
			last = i
		}
	}
	assert.Less(t, first, last)
}
