package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/build"
	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/check"
	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/history"
	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/version"
	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/watch"
	"github.com/flarebyte/gwtbuild/internal/config"
)

// NewRootCmd creates the root command for gwtbuild.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gwtbuild",
		Short: "Build GWT applications: compile modules, generate descriptors, run dev servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", config.DefaultPath, "Path to the project file (.cue)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.Bool("no-color", false, "Disable coloured output")

	// Subcommands
	cmd.AddCommand(version.VersionCmd)
	cmd.AddCommand(build.CompileCmd)
	cmd.AddCommand(build.GenerateModuleCmd)
	cmd.AddCommand(build.MetadataCmd)
	cmd.AddCommand(build.ImportSourcesCmd)
	cmd.AddCommand(build.AddSuperSourcesCmd)
	cmd.AddCommand(build.CodeServerCmd)
	cmd.AddCommand(build.DevModeCmd)
	cmd.AddCommand(build.BuildCmd)
	cmd.AddCommand(check.Cmd)
	cmd.AddCommand(watch.Cmd)
	cmd.AddCommand(history.Cmd)

	return cmd
}

// Execute runs the root command with provided args. SIGINT and SIGTERM cancel
// the command context, which stops any forked JVM.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
