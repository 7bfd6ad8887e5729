// Package report renders step verdicts and run history as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/flarebyte/gwtbuild/internal/history"
	"github.com/flarebyte/gwtbuild/internal/step"
)

// Formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	staleLabel   = color.New(color.FgRed, color.Bold)
	freshLabel   = color.New(color.FgGreen, color.Bold)
	skippedLabel = color.New(color.FgYellow)
	dimLabel     = color.New(color.Faint)
)

// CheckFormat validates a --format value.
func CheckFormat(f string) error {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid format: %q (expected text, json or yaml)", f)
}

// WriteResults renders step results.
func WriteResults(w io.Writer, format string, results []step.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []step.Result{}
		}
		return enc.Encode(results)
	case FormatYAML:
		b, err := marshalYAML(resultsTree(results))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatText:
		for _, r := range results {
			if err := writeResultText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
	return CheckFormat(format)
}

func writeResultText(w io.Writer, r step.Result) error {
	label := freshLabel.Sprint("UP-TO-DATE")
	switch {
	case r.Ran && r.Verdict != nil && r.Verdict.Stale:
		label = freshLabel.Sprint("REBUILT")
	case r.Ran:
		label = freshLabel.Sprint("DONE")
	case r.Verdict != nil && r.Verdict.Stale:
		label = staleLabel.Sprint("STALE")
	case r.Verdict == nil && r.Skipped:
		label = skippedLabel.Sprint("SKIPPED")
	case r.Verdict == nil:
		label = freshLabel.Sprint("DONE")
	}
	line := fmt.Sprintf("%s: %s", r.Step, label)
	if r.Target != "" {
		line += "  " + dimLabel.Sprint(r.Target)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if r.Verdict == nil {
		return nil
	}
	for _, reason := range r.Verdict.Reasons {
		if _, err := fmt.Fprintf(w, "  - %s\n", reason); err != nil {
			return err
		}
	}
	return nil
}

func resultsTree(results []step.Result) []any {
	out := make([]any, 0, len(results))
	for _, r := range results {
		m := map[string]any{
			"step":    r.Step,
			"skipped": r.Skipped,
		}
		if r.Target != "" {
			m["target"] = r.Target
		}
		if r.Reason != "" {
			m["reason"] = r.Reason
		}
		if r.Ran {
			m["ran"] = true
		}
		if r.Verdict != nil {
			v := map[string]any{"stale": r.Verdict.Stale}
			if r.Verdict.TargetMissing {
				v["targetMissing"] = true
			}
			if len(r.Verdict.Reasons) > 0 {
				v["reasons"] = r.Verdict.Reasons
			}
			m["verdict"] = v
		}
		if len(r.Command) > 0 {
			m["command"] = r.Command
		}
		out = append(out, m)
	}
	return out
}

// WriteRuns renders recorded runs.
func WriteRuns(w io.Writer, format string, runs []history.Run) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []history.Run{}
		}
		return enc.Encode(runs)
	case FormatYAML:
		tree := make([]any, 0, len(runs))
		for _, r := range runs {
			tree = append(tree, map[string]any{
				"id":         r.ID,
				"step":       r.Step,
				"startedAt":  r.StartedAt.UTC().Format(time.RFC3339),
				"durationMs": r.DurationMs,
				"stale":      r.Stale,
				"skipped":    r.Skipped,
				"exitCode":   r.ExitCode,
				"error":      r.Error,
			})
		}
		b, err := marshalYAML(tree)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case FormatText:
		for _, r := range runs {
			status := freshLabel.Sprint("ok")
			switch {
			case r.Error != "":
				status = staleLabel.Sprint("failed")
			case r.Skipped:
				status = skippedLabel.Sprint("skipped")
			}
			line := fmt.Sprintf("%s  %-24s %-8s %6dms", r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Step, status, r.DurationMs)
			if r.Error != "" {
				line += "  " + strings.SplitN(r.Error, "\n", 2)[0]
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
	return CheckFormat(format)
}
