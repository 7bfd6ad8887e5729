// Package gwt assembles GWT toolchain arguments and runs the toolchain JVM.
package gwt

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// LogLevel is a GWT tree logger level.
type LogLevel string

const (
	LevelError LogLevel = "ERROR"
	LevelWarn  LogLevel = "WARN"
	LevelInfo  LogLevel = "INFO"
	LevelTrace LogLevel = "TRACE"
	LevelDebug LogLevel = "DEBUG"
	LevelSpam  LogLevel = "SPAM"
	LevelAll   LogLevel = "ALL"
)

// Style is the JavaScript output style.
type Style string

const (
	StyleDetailed   Style = "DETAILED"
	StyleObfuscated Style = "OBFUSCATED"
	StylePretty     Style = "PRETTY"
)

// ParseLogLevel accepts a level name in any case. Empty input yields "".
func ParseLogLevel(s string) (LogLevel, error) {
	l := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case "", LevelError, LevelWarn, LevelInfo, LevelTrace, LevelDebug, LevelSpam, LevelAll:
		return l, nil
	}
	return "", fmt.Errorf("invalid GWT log level: %q", s)
}

// ParseStyle accepts a style name in any case.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StyleDetailed, StyleObfuscated, StylePretty:
		return st, nil
	}
	return "", fmt.Errorf("invalid GWT style: %q", s)
}

// Options are the arguments shared by every compiler invocation.
type Options struct {
	LogLevel     LogLevel
	Style        Style
	Optimize     int
	WarDir       string
	WorkDir      string
	DeployDir    string
	ExtraDir     string
	DraftCompile bool
	LocalWorkers int
	SourceLevel  string
}

// BuildArgs renders opts as compiler arguments. Directories are made relative
// to workingDir. fallback is used when opts.LogLevel is empty.
func BuildArgs(workingDir string, opts Options, fallback LogLevel) []string {
	level := opts.LogLevel
	if level == "" {
		level = fallback
	}
	args := []string{
		"-logLevel", string(level),
		"-war", relativize(workingDir, opts.WarDir),
		"-workDir", relativize(workingDir, opts.WorkDir),
		"-deploy", relativize(workingDir, opts.DeployDir),
	}
	if opts.ExtraDir != "" {
		args = append(args, "-extra", relativize(workingDir, opts.ExtraDir))
	}
	args = append(args,
		"-style", string(opts.Style),
		"-localWorkers", strconv.Itoa(LocalWorkers(opts.LocalWorkers)),
	)
	if opts.DraftCompile {
		args = append(args, "-draftCompile")
	} else {
		args = append(args, "-optimize", strconv.Itoa(ClampOptimize(opts.Optimize)))
	}
	if opts.SourceLevel != "" {
		args = append(args, "-sourceLevel", opts.SourceLevel)
	}
	return args
}

// LocalWorkers returns n, or the number of CPUs when n < 1.
func LocalWorkers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// ClampOptimize bounds an optimization level to 0..9.
func ClampOptimize(o int) int {
	if o < 0 {
		return 0
	}
	if o > 9 {
		return 9
	}
	return o
}

func relativize(base, p string) string {
	if base == "" || !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return rel
}
