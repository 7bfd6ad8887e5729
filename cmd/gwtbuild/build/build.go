// Package build holds the commands that run build steps.
package build

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/flarebyte/gwtbuild/cmd/gwtbuild/session"
	"github.com/flarebyte/gwtbuild/internal/report"
	"github.com/flarebyte/gwtbuild/internal/step"
)

var (
	flagForce   bool
	flagSkip    bool
	flagModules []string
	flagPlan    string
	flagFormat  string
)

var CompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the GWT module to JavaScript when its output is stale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.CompileStepName, func(s *session.Session) {
			c := &s.Project.Compile
			c.Force = c.Force || flagForce
			c.Skip = c.Skip || flagSkip
		})
	},
}

var GenerateModuleCmd = &cobra.Command{
	Use:   "generate-module",
	Short: "Write the module descriptor (.gwt.xml) into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.GenerateModuleStepName, nil)
	},
}

var MetadataCmd = &cobra.Command{
	Use:   "generate-module-metadata",
	Short: "Write META-INF/gwt/mainModule for library packaging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.MetadataStepName, nil)
	},
}

var ImportSourcesCmd = &cobra.Command{
	Use:   "import-sources",
	Short: "Copy source roots and java-source dependencies into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.ImportSourcesStepName, nil)
	},
}

var AddSuperSourcesCmd = &cobra.Command{
	Use:   "add-super-sources",
	Short: "Copy super-sources into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.AddSuperSourcesStepName, nil)
	},
}

var CodeServerCmd = &cobra.Command{
	Use:   "codeserver",
	Short: "Run the GWT CodeServer (Super Dev Mode) until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.CodeServerStepName, func(s *session.Session) {
			if len(flagModules) > 0 {
				s.Project.CodeServer.Modules = append([]string(nil), flagModules...)
			}
		})
	},
}

var DevModeCmd = &cobra.Command{
	Use:   "devmode",
	Short: "Run GWT DevMode until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStep(cmd, step.DevModeStepName, func(s *session.Session) {
			if len(flagModules) > 0 {
				s.Project.DevMode.Modules = append([]string(nil), flagModules...)
			}
		})
	},
}

var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the build plan: super-sources, sources, metadata, module descriptor, then compilation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := report.CheckFormat(flagFormat); err != nil {
			return err
		}
		s, err := session.Open(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		c := &s.Project.Compile
		c.Force = c.Force || flagForce
		results, runErr := step.RunPlan(cmd.Context(), flagPlan, s.Context)
		if err := report.WriteResults(os.Stdout, flagFormat, results); err != nil {
			return err
		}
		return runErr
	},
}

func runStep(cmd *cobra.Command, name string, adjust func(*session.Session)) error {
	if err := report.CheckFormat(flagFormat); err != nil {
		return err
	}
	s, err := session.Open(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if adjust != nil {
		adjust(s)
	}
	res, runErr := step.Run(cmd.Context(), name, s.Context)
	if runErr != nil {
		return runErr
	}
	return report.WriteResults(os.Stdout, flagFormat, []step.Result{res})
}

func init() {
	CompileCmd.Flags().BoolVar(&flagForce, "force", false, "Compile even when the output is up to date")
	CompileCmd.Flags().BoolVar(&flagSkip, "skip", false, "Skip compilation")
	BuildCmd.Flags().BoolVar(&flagForce, "force", false, "Compile even when the output is up to date")
	BuildCmd.Flags().StringVar(&flagPlan, "plan", "build", "Named plan to run")
	CodeServerCmd.Flags().StringSliceVar(&flagModules, "modules", nil, "Modules to serve (overrides the project file)")
	DevModeCmd.Flags().StringSliceVar(&flagModules, "modules", nil, "Modules to serve (overrides the project file)")
	for _, c := range []*cobra.Command{
		CompileCmd, GenerateModuleCmd, MetadataCmd, ImportSourcesCmd, AddSuperSourcesCmd,
		CodeServerCmd, DevModeCmd, BuildCmd,
	} {
		c.Flags().StringVar(&flagFormat, "format", report.FormatText, "Output format: text, json or yaml")
	}
}
