// Package history lists recorded step runs.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/session"
	"github.com/flarebyte/gwtbuild/internal/config"
	ihistory "github.com/flarebyte/gwtbuild/internal/history"
	"github.com/flarebyte/gwtbuild/internal/report"
)

var (
	flagLimit  int
	flagStep   string
	flagFormat string
)

var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded step runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := report.CheckFormat(flagFormat); err != nil {
			return err
		}
		f, err := session.ReadFlags(cmd)
		if err != nil {
			return err
		}
		if _, err := session.NewLogger(f); err != nil {
			return err
		}
		p, err := config.Load(f.Config)
		if err != nil {
			return err
		}
		if _, err := os.Stat(p.History.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no history recorded: %s", p.History.Path)
			}
			return err
		}
		st, err := ihistory.Open(p.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		runs, err := st.List(flagStep, flagLimit)
		if err != nil {
			return err
		}
		return report.WriteRuns(os.Stdout, flagFormat, runs)
	},
}

func init() {
	Cmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of runs to list (0 for all)")
	Cmd.Flags().StringVar(&flagStep, "step", "", "Only list runs of this step")
	Cmd.Flags().StringVar(&flagFormat, "format", report.FormatText, "Output format: text, json or yaml")
}
