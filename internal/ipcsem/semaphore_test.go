package ipcsem

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFtok_StablePerPath(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "ipcsem-ftok-")
	require.NoError(t, err)
	defer f.Close()

	k1, err := ftok(f.Name(), project)
	require.NoError(t, err)
	k2, err := ftok(f.Name(), project)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
}

func TestFtok_DiffersAcrossPaths(t *testing.T) {
	dir := t.TempDir()
	a, err := os.Create(dir + "/a")
	require.NoError(t, err)
	defer a.Close()
	b, err := os.Create(dir + "/b")
	require.NoError(t, err)
	defer b.Close()

	ka, err := ftok(a.Name(), project)
	require.NoError(t, err)
	kb, err := ftok(b.Name(), project)
	require.NoError(t, err)

	assert.NotEqual(t, ka, kb)
}

func TestFtok_MissingPathErrors(t *testing.T) {
	_, err := ftok("/nonexistent/ipcsem-path", project)
	assert.Error(t, err)
}

func TestResolvablePath_PrefersArgvWhenItExists(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "ipcsem-resolve-")
	require.NoError(t, err)
	defer f.Close()

	path, err := ResolvablePath(f.Name())
	require.NoError(t, err)
	assert.Equal(t, f.Name(), path)
}

func TestResolvablePath_FallsBackToExecutable(t *testing.T) {
	path, err := ResolvablePath("/nonexistent/argv0")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}
