package step

import "github.com/flarebyte/gwtbuild/internal/stale"

// Result describes what a step did. Ran is set by Run when the step did its
// work without error.
type Result struct {
	Step    string         `json:"step"`
	Target  string         `json:"target,omitempty"`
	Skipped bool           `json:"skipped"`
	Ran     bool           `json:"ran,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Verdict *stale.Verdict `json:"verdict,omitempty"`
	Command []string       `json:"command,omitempty"`
}

func skipped(name, target, reason string, v *stale.Verdict) Result {
	return Result{Step: name, Target: target, Skipped: true, Reason: reason, Verdict: v}
}
