package writeback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile stages and commits in one step.
func writeFile(path string, content []byte, perm os.FileMode) (bool, error) {
	s, err := Stage(path, content, perm)
	if err != nil {
		return false, err
	}
	if err := s.Commit(); err != nil {
		return false, err
	}
	return s.Changed(), nil
}

func TestStageCommit_CreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "gen", "textures.ts")
	changed, err := writeFile(path, []byte("export {};\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(got))
}

func TestStageCommit_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textures.ts")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	changed, err := writeFile(path, []byte("new"), 0o644)
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "new", string(got))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStageCommit_UnchangedIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textures.ts")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0o644))
	before, err := os.Stat(path)
	require.NoError(t, err)

	changed, err := writeFile(path, []byte("same"), 0o644)
	require.NoError(t, err)
	assert.False(t, changed)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestStageCommit_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	_, err := writeFile(filepath.Join(dir, "a.ts"), []byte("a"), 0o644)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.ts", entries[0].Name())
}

func TestStageCommit_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "textures.ts")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	// A directory in the way makes the rename fail.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.Mkdir(blocked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocked, "x"), nil, 0o644))
	_, err := writeFile(blocked, []byte("new"), 0o644)
	require.Error(t, err)

	got, _ := os.ReadFile(path)
	assert.Equal(t, "previous", string(got))
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 2)
}

func TestStage_DiscardKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.png")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	s, err := Stage(path, []byte("new"), 0o644)
	require.NoError(t, err)
	assert.True(t, s.Changed())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got), "staging does not touch the destination")

	s.Discard()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Commit(), "commit after discard is a no-op")
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestStage_CommitUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	s, err := Stage(path, []byte("{}"), 0o644)
	require.NoError(t, err)
	assert.False(t, s.Changed())
	require.NoError(t, s.Commit())
}
