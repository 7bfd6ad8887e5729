package step

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Step is one build action.
type Step interface {
	Name() string
	Run(ctx context.Context, bc *Context) (Result, error)
}

// Checker is implemented by steps that can report staleness without running.
type Checker interface {
	Check(bc *Context) (Result, error)
}

var registry = map[string]Step{}

// Register adds a step.
func Register(s Step) {
	registry[s.Name()] = s
}

// Lookup returns a registered step by name.
func Lookup(name string) (Step, error) {
	s, ok := registry[name]
	if !ok {
		return nil, ErrUnknown{name: name}
	}
	return s, nil
}

// Names lists the registered steps in lexical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Run executes a registered step by name and records it when the context has
// a recorder.
func Run(ctx context.Context, name string, bc *Context) (Result, error) {
	s, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	started := time.Now()
	res, runErr := s.Run(ctx, bc)
	if res.Step == "" {
		res.Step = name
	}
	res.Ran = runErr == nil && !res.Skipped
	if bc.Recorder != nil {
		if err := bc.Recorder.RecordResult(res, started, time.Since(started), runErr); err != nil {
			bc.logger().Warn("failed to record run", zap.String("step", res.Step), zap.Error(err))
		}
	}
	return res, runErr
}

// Check reports the staleness of a registered step without running it.
func Check(name string, bc *Context) (Result, error) {
	s, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	c, ok := s.(Checker)
	if !ok {
		return Result{}, ErrNoCheck{name: name}
	}
	return c.Check(bc)
}

// ErrUnknown is returned when a step is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown step: " + e.name }

// ErrNoCheck is returned by Check for steps without a staleness target.
type ErrNoCheck struct{ name string }

func (e ErrNoCheck) Error() string { return "step has no staleness check: " + e.name }
