package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseFS(t *testing.T, fsys types.FS, root string) {
	t.Helper()

	testFile := filepath.Join(root, "test.txt")
	testContent := []byte("hello world")

	require.NoError(t, fsys.WriteFile(testFile, testContent, 0644))

	info, err := fsys.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	content, err := fsys.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	subDir := filepath.Join(root, "sub", "dir")
	require.NoError(t, fsys.MkdirAll(subDir, 0755))

	entries, err := fsys.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "sub", entries[0].Name())
	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "test.txt", entries[1].Name())

	w, err := fsys.Create(filepath.Join(subDir, "out.txt"), 0600)
	require.NoError(t, err)
	_, err = w.Write([]byte("copied"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fsys.Open(filepath.Join(subDir, "out.txt"))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "copied", string(data))

	mtime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes(testFile, mtime, mtime))
	info, err = fsys.Stat(testFile)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	require.NoError(t, fsys.Chmod(testFile, 0600))
	info, err = fsys.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())

	err = fsys.MkdirAll(testFile, 0755)
	assert.Error(t, err, "MkdirAll over a file must fail")

	_, err = fsys.Create(subDir, 0644)
	assert.Error(t, err, "Create over a directory must fail")

	require.NoError(t, fsys.RemoveAll(testFile))
	_, err = fsys.Stat(testFile)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, fsys.RemoveAll(filepath.Join(root, "sub")))
	_, err = fsys.Stat(subDir)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOSFilesystem(t *testing.T) {
	exerciseFS(t, NewOS(), t.TempDir())
}

func TestMemoryFilesystem(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/root", 0755))
	exerciseFS(t, fsys, "/root")
}

func TestMemoryReadFileOnDirectory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/dir", 0755))
	_, err := fsys.ReadFile("/dir")
	assert.Error(t, err)
}
