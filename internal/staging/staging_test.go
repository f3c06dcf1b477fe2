package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArea_PreparePurgesLeftovers(t *testing.T) {
	t.Parallel()
	area := &Area{Root: filepath.Join(t.TempDir(), "multiquadlet-generated")}

	require.NoError(t, area.Prepare())
	leftover := filepath.Join(area.Input(), "old.container")
	require.NoError(t, os.WriteFile(leftover, []byte("stale"), 0o644))

	require.NoError(t, area.Prepare())

	_, err := os.Stat(leftover)
	assert.True(t, os.IsNotExist(err))
	for _, dir := range []string{area.Input(), area.Primary(), area.Early(), area.Late()} {
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}

func TestArea_Cleanup(t *testing.T) {
	t.Parallel()
	area := &Area{Root: filepath.Join(t.TempDir(), "multiquadlet-generated")}
	require.NoError(t, area.Prepare())

	area.Cleanup()

	_, err := os.Stat(area.Root)
	assert.True(t, os.IsNotExist(err))
	// Cleanup of an already-absent area is fine.
	area.Cleanup()
}

func TestArea_StageFile(t *testing.T) {
	t.Parallel()
	area := &Area{Root: filepath.Join(t.TempDir(), "staging")}
	require.NoError(t, area.Prepare())

	src := filepath.Join(t.TempDir(), "web.container")
	require.NoError(t, os.WriteFile(src, []byte("[Container]\n"), 0o644))

	require.NoError(t, area.StageFile(src))

	data, err := os.ReadFile(filepath.Join(area.Input(), "web.container"))
	require.NoError(t, err)
	assert.Equal(t, "[Container]\n", string(data))
}

func TestCopyFile_RefusesToOverwrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.service")
	dest := filepath.Join(dir, "dest.service")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dest, []byte("original"), 0o644))

	err := CopyFile(src, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
}

func TestList_SortedFilesOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.service"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.service"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "multi-user.target.wants"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.service", "b.service"}, names)
}

func TestList_MissingDirectory(t *testing.T) {
	t.Parallel()
	names, err := List(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
