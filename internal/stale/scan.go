package stale

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// dirScan is the result of walking one directory input.
type dirScan struct {
	matched int
	// newer holds matching files modified after the threshold, sorted.
	newer []string
}

// scanDir walks the existing directory root and collects the matching files
// newer than threshold.
func scanDir(root string, filter *Filter, threshold time.Time) (dirScan, error) {
	var res dirScan
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &ScanError{Path: p, Err: err}
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if filter.Excluded(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !filter.Match(rel) {
			return nil
		}
		fi, err := os.Stat(p)
		if err != nil {
			return &ScanError{Path: p, Err: err}
		}
		if fi.IsDir() {
			return nil
		}
		res.matched++
		if fi.ModTime().After(threshold) {
			res.newer = append(res.newer, p)
		}
		return nil
	})
	if err != nil {
		var se *ScanError
		if errors.As(err, &se) {
			return res, err
		}
		return res, &ScanError{Path: root, Err: err}
	}
	sort.Strings(res.newer)
	return res, nil
}
