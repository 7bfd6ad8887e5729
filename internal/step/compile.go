package step

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/gwt"
	"github.com/flarebyte/gwtbuild/internal/module"
	"github.com/flarebyte/gwtbuild/internal/stale"
)

const (
	CompileStepName   = "compile"
	CompilerMainClass = "com.google.gwt.dev.Compiler"
)

func init() { Register(compileStep{}) }

type compileStep struct{}

func (compileStep) Name() string { return CompileStepName }

func (s compileStep) Check(bc *Context) (Result, error) {
	if bc.Project.Compile.Skip {
		return skipped(CompileStepName, "", "compilation skipped", nil), nil
	}
	v, target, err := compileVerdict(bc)
	if err != nil {
		return Result{}, err
	}
	return Result{Step: CompileStepName, Target: target, Verdict: &v}, nil
}

func (s compileStep) Run(ctx context.Context, bc *Context) (Result, error) {
	p := bc.Project
	log := bc.logger()
	if p.Compile.Skip {
		log.Info("GWT compilation is skipped")
		return skipped(CompileStepName, "", "compilation skipped", nil), nil
	}
	if err := requireModuleName(p.Module.Name); err != nil {
		return Result{}, err
	}
	var verdict *stale.Verdict
	target := p.Compile.WebappDir
	if !p.Compile.Force {
		v, t, err := compileVerdict(bc)
		if err != nil {
			return Result{}, err
		}
		verdict, target = &v, t
		if !v.Stale {
			log.Info("compilation output seems up to date, GWT compilation skipped")
			return skipped(CompileStepName, target, "up to date", verdict), nil
		}
		log.Debug("compilation output is stale", zap.Strings("reasons", v.Reasons))
	}

	cp, err := compileClasspath(bc)
	if err != nil {
		return Result{}, err
	}
	args := compileArgs(p, bc.fallbackLogLevel())
	if err := mkdirs(p.BuildDir, p.Compile.WorkDir); err != nil {
		return Result{}, err
	}
	r := bc.runner()
	res := Result{Step: CompileStepName, Target: target, Verdict: verdict, Command: r.Command(args)}
	if err := r.Execute(ctx, cp, args); err != nil {
		return res, fmt.Errorf("GWT compilation failed: %w", err)
	}
	return res, nil
}

// compileVerdict checks the single *.nocache.js of the webapp directory
// against sources, resources, compiled classes, the project file, compile
// dependencies and the toolchain.
func compileVerdict(bc *Context) (stale.Verdict, string, error) {
	p := bc.Project
	log := bc.logger()
	nocache, err := findNocacheJs(p.Compile.WebappDir)
	if err != nil {
		return stale.Verdict{}, "", err
	}
	if nocache == "" {
		log.Debug("no single *.nocache.js file found, recompiling", zap.String("webappDir", p.Compile.WebappDir))
		return stale.Verdict{Stale: true, TargetMissing: true, Reasons: []string{p.Compile.WebappDir}}, p.Compile.WebappDir, nil
	}
	log.Debug("found *.nocache.js", zap.String("path", nocache))

	filter, err := stale.NewFilter(p.Compile.Includes, p.Compile.Excludes, p.Compile.DefaultExcludes)
	if err != nil {
		return stale.Verdict{}, "", err
	}
	checker, err := stale.NewChecker(p.Compile.StaleMillis, filter, log)
	if err != nil {
		return stale.Verdict{}, "", err
	}
	toolchain, err := bc.ToolchainClasspath()
	if err != nil {
		return stale.Verdict{}, "", err
	}
	var inputs []stale.Input
	inputs = append(inputs, dirInputs(p.SourceRoots)...)
	inputs = append(inputs, dirInputs(p.ResourceRoots)...)
	inputs = append(inputs, stale.DirInput(p.OutputDir), stale.FileInput(p.Path))
	inputs = append(inputs, pathInputs(p.DependencyPaths(config.ScopeCompile, false))...)
	inputs = append(inputs, pathInputs(toolchain)...)
	v, err := checker.Check(nocache, inputs)
	return v, nocache, err
}

// findNocacheJs returns the only *.nocache.js below dir, or "" when there is
// none or more than one.
func findNocacheJs(dir string) (string, error) {
	filter := stale.MustFilter("**/*.nocache.js")
	var found []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == dir {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if filter.Match(filepath.ToSlash(rel)) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return "", &stale.ScanError{Path: dir, Err: err}
	}
	if len(found) != 1 {
		return "", nil
	}
	return found[0], nil
}

func compileClasspath(bc *Context) ([]string, error) {
	p := bc.Project
	toolchain, err := bc.ToolchainClasspath()
	if err != nil {
		return nil, err
	}
	return uniq(p.SourceRoots, p.ResourceRoots, []string{p.OutputDir}, p.DependencyPaths(config.ScopeCompile, false), toolchain), nil
}

func compileArgs(p *config.Project, fallback gwt.LogLevel) []string {
	c := p.Compile
	var args []string
	args = append(args, c.JVMArgs...)
	args = append(args, systemPropertyArgs(c.SystemProperties)...)
	args = append(args, CompilerMainClass)
	extra := ""
	if c.OutputExtra {
		extra = c.ExtraDir
	}
	args = append(args, gwt.BuildArgs(p.BuildDir, gwt.Options{
		LogLevel:     gwt.LogLevel(c.LogLevel),
		Style:        gwt.Style(c.Style),
		Optimize:     c.Optimize,
		WarDir:       c.WebappDir,
		WorkDir:      c.WorkDir,
		DeployDir:    c.DeployDir,
		ExtraDir:     extra,
		DraftCompile: c.DraftCompile,
		LocalWorkers: c.LocalWorkers,
		SourceLevel:  c.SourceLevel,
	}, fallback)...)
	if c.OutputGen {
		args = append(args, "-gen", c.GenDir)
	}
	if c.FailOnError != nil {
		args = append(args, boolFlag("failOnError", *c.FailOnError))
	}
	switch c.CompileReport {
	case "ON":
		args = append(args, "-compileReport")
	case "DETAILED":
		args = append(args, "-compileReport", "-XdetailedCompileReport")
	}
	flags := []struct {
		on   bool
		flag string
	}{
		{c.Strict, "-strict"},
		{c.ValidateOnly, "-validateOnly"},
		{c.EnableAssertions, "-ea"},
		{c.EnableClosureCompiler, "-XenableClosureCompiler"},
		{c.CompilerMetrics, "-XcompilerMetrics"},
		{c.DisableAggressiveOptimization || c.DraftCompile, "-XdisableAggressiveOptimization"},
		{c.DisableCastChecking, "-XdisableCastChecking"},
		{c.DisableClassMetadata, "-XdisableClassMetadata"},
		{c.DisableRunAsync, "-XdisableRunAsync"},
		{c.DisableUpdateCheck, "-XdisableUpdateCheck"},
	}
	for _, f := range flags {
		if f.on {
			args = append(args, f.flag)
		}
	}
	if c.FragmentCount > 0 {
		args = append(args, "-XfragmentCount", strconv.Itoa(c.FragmentCount))
	}
	args = append(args, c.Args...)
	return append(args, p.Module.Name)
}

func systemPropertyArgs(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, "-D"+k+"="+props[k])
	}
	return out
}

func boolFlag(name string, on bool) string {
	if on {
		return "-" + name
	}
	return "-no" + name
}

func requireModuleName(name string) error {
	if name == "" {
		return errors.New("missing module.name")
	}
	if !module.IsValidModuleName(name) {
		return fmt.Errorf("invalid module name: %s", name)
	}
	return nil
}
