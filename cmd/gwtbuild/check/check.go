// Package check reports step staleness without running anything.
package check

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/session"
	"github.com/flarebyte/gwtbuild/internal/report"
	"github.com/flarebyte/gwtbuild/internal/step"
)

var (
	flagSteps    []string
	flagFormat   string
	flagExitCode bool
)

var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Report which build steps are stale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := report.CheckFormat(flagFormat); err != nil {
			return err
		}
		names, err := checkedSteps(flagSteps)
		if err != nil {
			return err
		}
		s, err := session.Open(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		results := make([]step.Result, 0, len(names))
		for _, n := range names {
			res, err := step.Check(n, s.Context)
			if err != nil {
				return checkExitError{code: exitCodeExecErr, msg: n + ": " + err.Error()}
			}
			results = append(results, res)
		}
		if err := report.WriteResults(os.Stdout, flagFormat, results); err != nil {
			return err
		}
		return evaluateCheckExit(results, flagExitCode)
	},
}

// checkedSteps defaults to the checkable steps of the build plan.
func checkedSteps(requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	plan, err := step.Plan("build")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range plan {
		s, err := step.Lookup(n)
		if err != nil {
			return nil, err
		}
		if _, ok := s.(step.Checker); ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no checkable steps")
	}
	return out, nil
}

func init() {
	Cmd.Flags().StringSliceVar(&flagSteps, "step", nil, "Steps to check (default: every checkable step of the build plan)")
	Cmd.Flags().StringVar(&flagFormat, "format", report.FormatText, "Output format: text, json or yaml")
	Cmd.Flags().BoolVar(&flagExitCode, "exit-code", false, "Exit with status 2 when a step is stale")
}
