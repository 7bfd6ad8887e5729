package check

import "github.com/flarebyte/gwtbuild/internal/step"

const (
	exitCodeSuccess = 0
	exitCodeExecErr = 1
	exitCodeStale   = 2
)

type checkExitError struct {
	code int
	msg  string
}

func (e checkExitError) Error() string { return e.msg }
func (e checkExitError) ExitCode() int { return e.code }

func staleSteps(results []step.Result) []string {
	var out []string
	for _, r := range results {
		if r.Verdict != nil && r.Verdict.Stale {
			out = append(out, r.Step)
		}
	}
	return out
}

// evaluateCheckExit returns a non-nil error carrying exit code 2 when
// exitCode is requested and at least one step is stale.
func evaluateCheckExit(results []step.Result, exitCode bool) error {
	if !exitCode {
		return nil
	}
	stale := staleSteps(results)
	if len(stale) == 0 {
		return nil
	}
	msg := "stale: " + stale[0]
	for _, s := range stale[1:] {
		msg += ", " + s
	}
	return checkExitError{code: exitCodeStale, msg: msg}
}
