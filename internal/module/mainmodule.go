package module

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// MainModulePath is the metadata entry inside a jar or classes directory.
const MainModulePath = "META-INF/gwt/mainModule"

// ReadMainModule returns the module named by a mainModule file. Text after
// '#' is a comment. Only the first name counts; an invalid name makes the
// whole file ignored. ok is false when no usable name was found.
func ReadMainModule(r io.Reader, source string, log *zap.Logger) (name string, ok bool, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if ok {
			log.Warn("configuration file contains more than one module name, picking first", zap.String("source", source))
			break
		}
		if !IsValidModuleName(line) {
			log.Warn("illegal configuration-file syntax, skipping", zap.String("source", source))
			return "", false, nil
		}
		name, ok = line, true
	}
	if err := sc.Err(); err != nil {
		return "", false, fmt.Errorf("read %s: %w", source, err)
	}
	return name, ok, nil
}

// MainModulesFrom reads the mainModule entry of every dependency (a jar or a
// classes directory). Dependencies without one are skipped. The result keeps
// dependency order and drops duplicates.
func MainModulesFrom(deps []string, log *zap.Logger) ([]string, error) {
	type result struct {
		idx  int
		name string
		ok   bool
		err  error
	}
	workers := runtime.NumCPU()
	if workers > len(deps) {
		workers = len(deps)
	}
	results := runIndexedParallel(len(deps), workers, func(i int) result {
		name, ok, err := mainModuleOf(deps[i], log)
		return result{idx: i, name: name, ok: ok, err: err}
	})
	ordered := make([]result, len(deps))
	for _, r := range results {
		ordered[r.idx] = r
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range ordered {
		if r.err != nil {
			return nil, r.err
		}
		if !r.ok || seen[r.name] {
			continue
		}
		seen[r.name] = true
		out = append(out, r.name)
	}
	return out, nil
}

func mainModuleOf(dep string, log *zap.Logger) (string, bool, error) {
	fi, err := os.Stat(dep)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	if fi.IsDir() {
		p := filepath.Join(dep, filepath.FromSlash(MainModulePath))
		f, err := os.Open(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, nil
			}
			return "", false, err
		}
		defer f.Close()
		return ReadMainModule(f, p, log)
	}
	zr, err := zip.OpenReader(dep)
	if err != nil {
		// Not an archive: nothing to inherit from.
		if log != nil {
			log.Debug("dependency is not a zip archive", zap.String("path", dep), zap.Error(err))
		}
		return "", false, nil
	}
	defer zr.Close()
	for _, zf := range zr.File {
		if zf.Name != MainModulePath {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", false, fmt.Errorf("open %s!/%s: %w", dep, MainModulePath, err)
		}
		defer rc.Close()
		return ReadMainModule(rc, dep+"!/"+MainModulePath, log)
	}
	return "", false, nil
}
