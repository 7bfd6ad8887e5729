// Package stale decides whether a generated artifact must be rebuilt by
// comparing its modification time with the times of its inputs.
package stale

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// Kind tells the checker how to read an input's timestamp.
type Kind int

const (
	// File inputs are compared by their own modification time.
	File Kind = iota
	// Dir inputs are scanned recursively through the filter.
	Dir
)

func (k Kind) String() string {
	if k == Dir {
		return "dir"
	}
	return "file"
}

// Input is one entry of an input set.
type Input struct {
	Path string
	Kind Kind
}

// FileInput returns a single-file input.
func FileInput(path string) Input { return Input{Path: path, Kind: File} }

// DirInput returns a directory input.
func DirInput(path string) Input { return Input{Path: path, Kind: Dir} }

// Verdict is the outcome of a check. Reasons names the inputs that made the
// target stale.
type Verdict struct {
	Stale         bool     `json:"stale"`
	TargetMissing bool     `json:"targetMissing,omitempty"`
	Reasons       []string `json:"reasons,omitempty"`
}

// Checker compares a target against inputs. The zero value compares exact
// timestamps and includes every file of directory inputs.
type Checker struct {
	Granularity time.Duration
	Filter      *Filter
	Log         *zap.Logger
}

// NewChecker returns a checker with a granularity in milliseconds.
func NewChecker(granularityMs int64, filter *Filter, log *zap.Logger) (*Checker, error) {
	if granularityMs < 0 {
		return nil, fmt.Errorf("invalid granularity: %d (must be >= 0)", granularityMs)
	}
	if filter == nil {
		filter = MustFilter()
	}
	return &Checker{
		Granularity: time.Duration(granularityMs) * time.Millisecond,
		Filter:      filter,
		Log:         log,
	}, nil
}

// IsStale checks target against inputs with a fresh checker.
func IsStale(target string, inputs []Input, granularityMs int64, filter *Filter) (Verdict, error) {
	c, err := NewChecker(granularityMs, filter, nil)
	if err != nil {
		return Verdict{}, err
	}
	return c.Check(target, inputs)
}

func (c *Checker) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// Check returns Stale when target does not exist or when any input is newer
// than target's modification time plus the granularity. It stops at the first
// stale input. A missing file input is reported as *MissingInputError.
func (c *Checker) Check(target string, inputs []Input) (Verdict, error) {
	log := c.logger()
	ti, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("target does not exist", zap.String("target", target))
			return Verdict{Stale: true, TargetMissing: true, Reasons: []string{target}}, nil
		}
		return Verdict{}, &ScanError{Path: target, Err: err}
	}
	threshold := ti.ModTime().Add(c.Granularity)

	for _, in := range inputs {
		reasons, err := c.checkInput(in, threshold)
		if err != nil {
			return Verdict{}, err
		}
		if len(reasons) > 0 {
			log.Debug("inputs are newer than target",
				zap.String("target", target),
				zap.Strings("inputs", reasons))
			return Verdict{Stale: true, Reasons: reasons}, nil
		}
	}
	return Verdict{}, nil
}

func (c *Checker) checkInput(in Input, threshold time.Time) ([]string, error) {
	fi, err := os.Stat(in.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if in.Kind == Dir {
				c.logger().Debug("source root does not exist", zap.String("path", in.Path))
				return nil, nil
			}
			return nil, &MissingInputError{Path: in.Path}
		}
		return nil, &ScanError{Path: in.Path, Err: err}
	}
	if in.Kind == File || !fi.IsDir() {
		if fi.ModTime().After(threshold) {
			return []string{in.Path}, nil
		}
		return nil, nil
	}
	filter := c.Filter
	if filter == nil {
		filter = MustFilter()
	}
	res, err := scanDir(in.Path, filter, threshold)
	if err != nil {
		return nil, err
	}
	if res.matched == 0 {
		c.logger().Debug("no matching files", zap.String("path", in.Path), zap.Strings("includes", filter.Includes()))
	}
	return res.newer, nil
}
