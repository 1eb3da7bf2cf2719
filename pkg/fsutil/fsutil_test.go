package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/kbdfmt/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.kbd", "(defsrc a)\n")

	content, snap, err := fsutil.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "(defsrc a)\n", string(content))
	assert.Equal(t, path, snap.Path)
	assert.Equal(t, int64(len(content)), snap.Size)
	assert.Equal(t, os.FileMode(0o600), snap.Mode.Perm())
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	_, _, err := fsutil.Read(ctx, filepath.Join(dir, "missing.kbd"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.Read(ctx, dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = fsutil.Read(cancelled, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "main.kbd", "(defsrc a)")

	_, snap, err := fsutil.Read(ctx, path)
	require.NoError(t, err)

	changed, err := snap.Changed(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	// Same size, same mtime, different content.
	require.NoError(t, os.WriteFile(path, []byte("(defsrc b)"), 0o600))
	require.NoError(t, os.Chtimes(path, snap.ModTime, snap.ModTime))
	changed, err = snap.Changed(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.Remove(path))
	changed, err = snap.Changed(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	var nilSnap *fsutil.Snapshot
	_, err = nilSnap.Changed(ctx)
	require.ErrorIs(t, err, fsutil.ErrNilSnapshot)
}

func TestSnapshotChangedByMtime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "main.kbd", "(defsrc a)")

	_, snap, err := fsutil.Read(ctx, path)
	require.NoError(t, err)

	later := snap.ModTime.Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := snap.Changed(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "main.kbd", "old")

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("new"), 0o640))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may remain")
}

func TestWriteAtomicDefaultMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fresh.kbd")
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("(a)"), 0))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "no", "such", "dir", "x.kbd")
	assert.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
}
