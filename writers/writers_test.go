package writers

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamidedit/readers"
	"steamidedit/types"
)

const (
	id_a types.Identifier = "76561190000000001"
	id_b types.Identifier = "76561190000000002"
)

func save_with(n int, id types.Identifier) []byte {
	buf := []byte{'G', 'V', 'A', 'S', 0, 0, 0, 3}
	for i := 0; i < n; i++ {
		buf = append(buf, 0xde, 0xad, byte(i))
		buf = append(buf, id...)
		buf = append(buf, 0, 0xbe, 0xef)
	}
	return buf
}

func TestReplaceIdentifier(t *testing.T) {
	for n := 0; n < 6; n++ {
		buf := save_with(n, id_a)
		before := len(buf)

		count := ReplaceIdentifier(buf, id_a, id_b)

		assert.Equal(t, n, count)
		assert.Len(t, buf, before)
		assert.Equal(t, n, readers.Count(buf, id_b))
		assert.Equal(t, 0, readers.Count(buf, id_a))
		assert.Equal(t, save_with(n, id_b), buf)
	}
}

func TestReplaceIdentifierAdjacent(t *testing.T) {
	buf := append(append([]byte{}, id_a...), id_a...)
	assert.Equal(t, 2, ReplaceIdentifier(buf, id_a, id_b))
	assert.Equal(t, string(id_b)+string(id_b), string(buf))
}

func TestReplaceIdentifierSameIsNoop(t *testing.T) {
	buf := save_with(3, id_a)
	orig := append([]byte{}, buf...)
	assert.Equal(t, 3, ReplaceIdentifier(buf, id_a, id_a))
	assert.Equal(t, orig, buf)
}

// The search restarts after the replaced span, so a match that only exists
// because of the bytes just written is left alone.
func TestReplaceAllDoesNotRescanWrittenBytes(t *testing.T) {
	buf := []byte("aab")
	assert.Equal(t, 1, ReplaceAll(buf, []byte("ab"), []byte("ba")))
	assert.Equal(t, "aba", string(buf))

	buf = []byte("aaaa")
	assert.Equal(t, 2, ReplaceAll(buf, []byte("aa"), []byte("xa")))
	assert.Equal(t, "xaxa", string(buf))
}

func TestReplaceAllRejectsLengthChange(t *testing.T) {
	buf := []byte("hello")
	assert.Equal(t, 0, ReplaceAll(buf, []byte("ll"), []byte("LLL")))
	assert.Equal(t, 0, ReplaceAll(buf, nil, nil))
	assert.Equal(t, "hello", string(buf))
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "StellarBladeSave00.sav")
	data := save_with(2, id_a)
	require.NoError(t, os.WriteFile(path, data, 0600))
	mtime := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	// stale backup is overwritten without asking
	require.NoError(t, os.WriteFile(path+".bak", []byte("old backup"), 0644))

	backup, err := Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", backup)

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, got))

	info, err := os.Stat(backup)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestBackupMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := Backup(filepath.Join(dir, "missing.sav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(dir, "missing.sav.bak"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackupDirectory(t *testing.T) {
	_, err := Backup(t.TempDir())
	assert.Error(t, err)
}

func TestWriteSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.sav")
	require.NoError(t, os.WriteFile(path, save_with(1, id_a), 0640))

	require.NoError(t, WriteSave(path, save_with(1, id_b)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, save_with(1, id_b), got)
	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
	}
}

func TestWriteSaveMissing(t *testing.T) {
	err := WriteSave(filepath.Join(t.TempDir(), "gone.sav"), []byte("x"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
