// Package testutil stages fixture projects for tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CopyTree replaces dst with a copy of src. File modes are kept so fixture
// scripts stay executable.
func CopyTree(src, dst string) error {
	_ = os.RemoveAll(dst)
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(out, b, info.Mode().Perm())
	})
}

// SetTreeMtime sets the modification time of every file under dir. Directories
// keep their own times since staleness only compares files.
func SetTreeMtime(dir string, ts time.Time) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		return os.Chtimes(p, ts, ts)
	})
}

// WriteFileAt writes content to path, creating parents, and sets its mtime.
func WriteFileAt(path, content string, ts time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	return os.Chtimes(path, ts, ts)
}
