package environ_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secretenv/secretenv/internal/environ"
)

func TestMapSetLookup(t *testing.T) {
	t.Parallel()

	m := environ.NewMap()
	require.NoError(t, m.Set("DB_URL", "postgres://x"))

	v, ok := m.Lookup("DB_URL")
	assert.True(t, ok)
	assert.Equal(t, "postgres://x", v)

	_, ok = m.Lookup("MISSING")
	assert.False(t, ok)
}

func TestMapLastWriterWins(t *testing.T) {
	t.Parallel()

	m := environ.NewMap()
	require.NoError(t, m.Set("KEY", "first"))
	require.NoError(t, m.Set("KEY", "second"))

	v, _ := m.Lookup("KEY")
	assert.Equal(t, "second", v)
}

func TestMapKeysSorted(t *testing.T) {
	t.Parallel()

	m := environ.NewMap()
	for _, k := range []string{"ZULU", "ALPHA", "MIKE"} {
		require.NoError(t, m.Set(k, "v"))
	}
	assert.Equal(t, []string{"ALPHA", "MIKE", "ZULU"}, m.Keys())
}

func TestMapConcurrentWrites(t *testing.T) {
	t.Parallel()

	m := environ.NewMap()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set("SHARED", "value")
		}()
	}
	wg.Wait()

	v, ok := m.Lookup("SHARED")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestOSEnviron(t *testing.T) {
	env := environ.OS()
	t.Setenv("SECRETENV_TEST_VAR", "placeholder")

	require.NoError(t, env.Set("SECRETENV_TEST_VAR", "updated"))
	v, ok := env.Lookup("SECRETENV_TEST_VAR")
	assert.True(t, ok)
	assert.Equal(t, "updated", v)
	assert.Contains(t, env.Keys(), "SECRETENV_TEST_VAR")
}
