package step

import (
	"context"
	"errors"

	"github.com/flarebyte/gwtbuild/internal/config"
)

const (
	CodeServerStepName  = "codeserver"
	DevModeStepName     = "devmode"
	CodeServerMainClass = "com.google.gwt.dev.codeserver.CodeServer"
	DevModeMainClass    = "com.google.gwt.dev.DevMode"
)

func init() {
	Register(devServerStep{name: CodeServerStepName, kind: codeServerKind{}})
	Register(devServerStep{name: DevModeStepName, kind: devModeKind{}})
}

// devServerKind holds what differs between CodeServer and DevMode.
type devServerKind interface {
	settings(p *config.Project) config.DevServer
	mainClass() string
	specificArgs(p *config.Project, sources []string) []string
	prependSources() bool
	dirs(p *config.Project) []string
}

type devServerStep struct {
	name string
	kind devServerKind
}

func (s devServerStep) Name() string { return s.name }

func (s devServerStep) Run(ctx context.Context, bc *Context) (Result, error) {
	p := bc.Project
	args, cp, err := s.command(bc)
	if err != nil {
		return Result{}, err
	}
	if err := mkdirs(append([]string{p.BuildDir, s.kind.settings(p).WorkDir}, s.kind.dirs(p)...)...); err != nil {
		return Result{}, err
	}
	r := bc.runner()
	res := Result{Step: s.name, Command: r.Command(args)}
	if err := r.Execute(ctx, cp, args); err != nil {
		return res, err
	}
	return res, nil
}

// command assembles JVM arguments and classpath: JVM options, system
// properties, main class, shared options, step options, then modules.
func (s devServerStep) command(bc *Context) ([]string, []string, error) {
	p := bc.Project
	d := s.kind.settings(p)
	if len(d.Modules) == 0 {
		return nil, nil, errors.New("no module found")
	}
	for _, m := range d.Modules {
		if err := requireModuleName(m); err != nil {
			return nil, nil, err
		}
	}
	sources := uniq(p.SourceRoots)

	var args []string
	args = append(args, d.JVMArgs...)
	args = append(args, systemPropertyArgs(d.SystemProperties)...)
	args = append(args, s.kind.mainClass())
	if d.FailOnError != nil {
		args = append(args, boolFlag("failOnError", *d.FailOnError))
	}
	if d.LogLevel != "" {
		args = append(args, "-logLevel", d.LogLevel)
	}
	args = append(args, "-workDir", d.WorkDir)
	if d.SourceLevel != "" {
		args = append(args, "-sourceLevel", d.SourceLevel)
	}
	if d.Style != "" {
		args = append(args, "-style", d.Style)
	}
	args = append(args, s.kind.specificArgs(p, sources)...)
	args = append(args, d.Modules...)

	toolchain, err := bc.ToolchainClasspath()
	if err != nil {
		return nil, nil, err
	}
	var prepend []string
	if s.kind.prependSources() {
		prepend = sources
	}
	cp := uniq(prepend, []string{p.OutputDir}, p.DependencyPaths(d.ClasspathScope, false), toolchain)
	return args, cp, nil
}

type codeServerKind struct{}

func (codeServerKind) settings(p *config.Project) config.DevServer { return p.CodeServer.DevServer }
func (codeServerKind) mainClass() string                           { return CodeServerMainClass }
func (codeServerKind) prependSources() bool                        { return false }

func (codeServerKind) specificArgs(p *config.Project, sources []string) []string {
	var args []string
	if p.CodeServer.LauncherDir != "" {
		args = append(args, "-launcherDir", p.CodeServer.LauncherDir)
	}
	args = append(args, p.CodeServer.Args...)
	args = append(args, "-allowMissingSrc")
	for _, src := range sources {
		args = append(args, "-src", src)
	}
	return args
}

func (codeServerKind) dirs(p *config.Project) []string {
	return []string{p.CodeServer.LauncherDir}
}

type devModeKind struct{}

func (devModeKind) settings(p *config.Project) config.DevServer { return p.DevMode.DevServer }
func (devModeKind) mainClass() string                           { return DevModeMainClass }
func (devModeKind) prependSources() bool                        { return true }

func (devModeKind) specificArgs(p *config.Project, _ []string) []string {
	args := []string{"-war", p.DevMode.WebappDir}
	return append(args, p.DevMode.Args...)
}

func (devModeKind) dirs(p *config.Project) []string {
	return []string{p.DevMode.WebappDir}
}
