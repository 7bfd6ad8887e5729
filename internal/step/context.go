// Package step implements the build steps (compile, module generation,
// metadata, dev servers) and runs them by name.
package step

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/gwt"
	"github.com/flarebyte/gwtbuild/internal/logging"
	"github.com/flarebyte/gwtbuild/internal/stale"
)

// Runner executes the toolchain JVM. *gwt.CommandLine is the production
// implementation.
type Runner interface {
	Command(args []string) []string
	Execute(ctx context.Context, classpath, args []string) error
}

// Recorder stores the outcome of a step run.
type Recorder interface {
	RecordResult(res Result, started time.Time, d time.Duration, runErr error) error
}

// Context carries everything a step needs. It is owned by the caller and may
// be reused across runs (watch mode); the toolchain classpath is expanded once.
type Context struct {
	Project  *config.Project
	Log      *zap.Logger
	Runner   Runner
	Recorder Recorder

	toolchainOnce sync.Once
	toolchainCP   []string
	toolchainErr  error
}

// NewContext returns a context for p. A nil runner means the JVM described by
// the project toolchain.
func NewContext(p *config.Project, log *zap.Logger, runner Runner) *Context {
	return &Context{Project: p, Log: log, Runner: runner}
}

func (bc *Context) logger() *zap.Logger {
	if bc.Log == nil {
		return zap.NewNop()
	}
	return bc.Log
}

func (bc *Context) runner() Runner {
	if bc.Runner != nil {
		return bc.Runner
	}
	p := bc.Project
	return &gwt.CommandLine{
		JVM:        p.Toolchain.JVM,
		JavaHome:   p.Toolchain.JavaHome,
		WorkingDir: p.BuildDir,
		Log:        bc.logger().Named("gwt"),
	}
}

// ToolchainClasspath returns the GWT SDK jars with glob patterns expanded.
func (bc *Context) ToolchainClasspath() ([]string, error) {
	bc.toolchainOnce.Do(func() {
		bc.toolchainCP, bc.toolchainErr = expandClasspath(bc.Project.Toolchain.Classpath)
		if bc.toolchainErr == nil {
			bc.logger().Debug("toolchain classpath", zap.Strings("entries", bc.toolchainCP))
		}
	})
	return bc.toolchainCP, bc.toolchainErr
}

func (bc *Context) fallbackLogLevel() gwt.LogLevel {
	return gwt.LogLevel(logging.GWTLogLevel(bc.logger()))
}

func expandClasspath(entries []string) ([]string, error) {
	var out []string
	for _, e := range entries {
		if !strings.ContainsAny(e, "*?[") {
			out = append(out, e)
			continue
		}
		matches, err := filepath.Glob(e)
		if err != nil {
			return nil, fmt.Errorf("invalid toolchain classpath pattern %q: %w", e, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("toolchain classpath pattern %q matched no files", e)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// pathInput classifies an existing directory as a scanned input and anything
// else as a single file.
func pathInput(p string) stale.Input {
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		return stale.DirInput(p)
	}
	return stale.FileInput(p)
}

func dirInputs(paths []string) []stale.Input {
	out := make([]stale.Input, 0, len(paths))
	for _, p := range paths {
		out = append(out, stale.DirInput(p))
	}
	return out
}

func pathInputs(paths []string) []stale.Input {
	out := make([]stale.Input, 0, len(paths))
	for _, p := range paths {
		out = append(out, pathInput(p))
	}
	return out
}

// uniq drops repeated entries, keeping the first occurrence.
func uniq(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func fileExists(p string) (bool, error) {
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func mkdirs(dirs ...string) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}
