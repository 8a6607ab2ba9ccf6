package writers

// Functions for writing to a file, or to the bytes about to go into one.

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"steamidedit/types"
)

// ReplaceAll overwrites every non-overlapping occurrence of from with to, in
// place, and returns how many it found. Both must be the same length so no
// offset in the buffer ever moves. The search resumes after each replaced
// span, so freshly written bytes are never matched again.
func ReplaceAll(buf []byte, from, to []byte) int {
	if len(from) == 0 || len(from) != len(to) {
		return 0
	}
	count := 0
	pos := 0
	for {
		i := bytes.Index(buf[pos:], from)
		if i < 0 {
			return count
		}
		pos += i
		copy(buf[pos:], to)
		pos += len(from)
		count++
	}
}

// ReplaceIdentifier is ReplaceAll for steam ids.
func ReplaceIdentifier(buf []byte, old_id, new_id types.Identifier) int {
	return ReplaceAll(buf, old_id.Bytes(), new_id.Bytes())
}

// BackupPath is where Backup puts the copy of path.
func BackupPath(path string) string {
	return path + types.BackupSuffix
}

// Backup copies path to path.bak, replacing any older backup.
// Mode and modification time come along with the bytes.
func Backup(path string) (string, error) {
	backup := BackupPath(path)

	src, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %s", path)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", errors.Wrapf(err, "failed to stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return "", errors.Errorf("%s is not a regular file", path)
	}

	dst, err := os.OpenFile(backup, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", errors.Wrapf(err, "failed to create %s", backup)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", errors.Wrapf(err, "failed to copy %s to %s", path, backup)
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return "", errors.Wrapf(err, "failed to flush %s", backup)
	}
	if err := dst.Close(); err != nil {
		return "", errors.Wrapf(err, "failed to close %s", backup)
	}

	// An existing backup keeps its old mode through O_TRUNC
	if err := os.Chmod(backup, info.Mode().Perm()); err != nil {
		return "", errors.Wrapf(err, "failed to set mode on %s", backup)
	}
	if err := os.Chtimes(backup, info.ModTime(), info.ModTime()); err != nil {
		return "", errors.Wrapf(err, "failed to set times on %s", backup)
	}

	return backup, nil
}

// WriteSave rewrites path with data, keeping the file's current mode.
func WriteSave(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s for writing", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
