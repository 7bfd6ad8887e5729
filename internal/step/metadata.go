package step

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/module"
	"github.com/flarebyte/gwtbuild/internal/stale"
)

const MetadataStepName = "generate-module-metadata"

func init() { Register(metadataStep{}) }

type metadataStep struct{}

func (metadataStep) Name() string { return MetadataStepName }

// Check compares content rather than times: the file is up to date when it
// names the configured module.
func (metadataStep) Check(bc *Context) (Result, error) {
	p := bc.Project
	if p.Module.SkipMetadata {
		return skipped(MetadataStepName, "", "module metadata skipped", nil), nil
	}
	if err := requireModuleName(p.Module.Name); err != nil {
		return Result{}, err
	}
	target := filepath.Join(p.Module.MetadataDir, "mainModule")
	b, err := os.ReadFile(target)
	var v stale.Verdict
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v = stale.Verdict{Stale: true, TargetMissing: true, Reasons: []string{target}}
	case err != nil:
		return Result{}, &stale.ScanError{Path: target, Err: err}
	case strings.TrimSpace(string(b)) != p.Module.Name:
		v = stale.Verdict{Stale: true, Reasons: []string{p.Path}}
	}
	return Result{Step: MetadataStepName, Target: target, Verdict: &v}, nil
}

func (metadataStep) Run(_ context.Context, bc *Context) (Result, error) {
	p := bc.Project
	if p.Module.SkipMetadata {
		return skipped(MetadataStepName, "", "module metadata skipped", nil), nil
	}
	if err := requireModuleName(p.Module.Name); err != nil {
		return Result{}, err
	}
	target := filepath.Join(p.Module.MetadataDir, "mainModule")
	wrote, err := module.WriteMetadata(p.Module.MetadataDir, p.Module.Name)
	if err != nil {
		return Result{}, err
	}
	if !wrote {
		bc.logger().Info("module metadata up to date, skipped", zap.String("path", target))
		return skipped(MetadataStepName, target, "up to date", nil), nil
	}
	bc.logger().Info("wrote module metadata", zap.String("path", target))
	return Result{Step: MetadataStepName, Target: target}, nil
}
