package step

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/module"
	"github.com/flarebyte/gwtbuild/internal/stale"
)

const GenerateModuleStepName = "generate-module"

func init() { Register(generateModuleStep{}) }

type generateModuleStep struct{}

func (generateModuleStep) Name() string { return GenerateModuleStepName }

func (generateModuleStep) Check(bc *Context) (Result, error) {
	if bc.Project.Module.Skip {
		return skipped(GenerateModuleStepName, "", "module generation skipped", nil), nil
	}
	if err := requireModuleName(bc.Project.Module.Name); err != nil {
		return Result{}, err
	}
	v, target, err := moduleVerdict(bc)
	if err != nil {
		return Result{}, err
	}
	return Result{Step: GenerateModuleStepName, Target: target, Verdict: &v}, nil
}

func (generateModuleStep) Run(ctx context.Context, bc *Context) (Result, error) {
	p := bc.Project
	log := bc.logger()
	if p.Module.Skip {
		return skipped(GenerateModuleStepName, "", "module generation skipped", nil), nil
	}
	if err := requireModuleName(p.Module.Name); err != nil {
		return Result{}, err
	}
	v, target, err := moduleVerdict(bc)
	if err != nil {
		return Result{}, err
	}
	if !v.Stale {
		log.Info("module descriptor seems up to date, skipped", zap.String("path", target))
		return skipped(GenerateModuleStepName, target, "up to date", &v), nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	inherits, err := module.MainModulesFrom(moduleDependencies(p), log)
	if err != nil {
		return Result{}, err
	}
	spec := module.Spec{
		ShortName:          p.Module.ShortName,
		EntryPoint:         p.Module.EntryPoint,
		DependencyInherits: inherits,
		Inherits:           p.Module.Inherits,
	}
	hasTemplate, err := fileExists(p.Module.Template)
	if err != nil {
		return Result{}, err
	}
	if hasTemplate {
		f, err := os.Open(p.Module.Template)
		if err != nil {
			return Result{}, err
		}
		defer f.Close()
		spec.Template = f
	}
	if err := writeAtomic(target, func(w io.Writer) error { return module.Generate(w, spec, log) }); err != nil {
		return Result{}, fmt.Errorf("generate %s: %w", target, err)
	}
	log.Info("generated module descriptor", zap.String("path", target))
	return Result{Step: GenerateModuleStepName, Target: target, Verdict: &v}, nil
}

// moduleDependencies are the direct compile and runtime dependencies.
func moduleDependencies(p *config.Project) []string {
	return p.DependencyPaths(config.ScopeCompilePlusRuntime, true)
}

func moduleVerdict(bc *Context) (stale.Verdict, string, error) {
	p := bc.Project
	target := module.DescriptorPath(p.OutputDir, p.Module.Name)
	inputs := []stale.Input{stale.FileInput(p.Path)}
	hasTemplate, err := fileExists(p.Module.Template)
	if err != nil {
		return stale.Verdict{}, "", err
	}
	if hasTemplate {
		inputs = append(inputs, stale.FileInput(p.Module.Template))
	}
	inputs = append(inputs, pathInputs(moduleDependencies(p))...)
	checker, err := stale.NewChecker(0, nil, bc.logger())
	if err != nil {
		return stale.Verdict{}, "", err
	}
	v, err := checker.Check(target, inputs)
	return v, target, err
}

// writeAtomic writes through a temporary file renamed over path.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
