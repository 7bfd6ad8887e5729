// Package watch re-runs a step whenever the project is polled.
package watch

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/session"
	"github.com/flarebyte/gwtbuild/internal/step"
	iwatch "github.com/flarebyte/gwtbuild/internal/watch"
)

var (
	flagInterval time.Duration
	flagSteps    []string
)

var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the project and re-run stale steps until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session.Open(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		for _, n := range flagSteps {
			if _, err := step.Lookup(n); err != nil {
				return err
			}
		}
		interval := flagInterval
		if interval <= 0 {
			interval = time.Duration(s.Project.Watch.IntervalMs) * time.Millisecond
		}
		log := s.Log.Named("watch")
		log.Debug("watched steps", zap.Strings("steps", flagSteps))
		w := iwatch.New(interval, func(ctx context.Context) error {
			for _, n := range flagSteps {
				res, err := step.Run(ctx, n, s.Context)
				if err != nil {
					return err
				}
				if !res.Skipped {
					log.Info("step ran", zap.String("step", n))
				}
			}
			return nil
		}, log)
		return w.Run(cmd.Context())
	},
}

func init() {
	Cmd.Flags().DurationVar(&flagInterval, "interval", 0, "Polling interval (default: watch.intervalMs of the project file)")
	Cmd.Flags().StringSliceVar(&flagSteps, "step", []string{step.CompileStepName}, "Steps to run on each poll")
}
