package step

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/stale"
)

const (
	ImportSourcesStepName   = "import-sources"
	AddSuperSourcesStepName = "add-super-sources"

	// JavaSourceType marks dependencies that ship GWT sources to unpack.
	JavaSourceType = "java-source"
)

func init() {
	Register(importSourcesStep{})
	Register(superSourcesStep{})
}

// importSourcesStep copies the GWT sources the compiler needs next to the
// compiled classes: java-source dependencies are unpacked into the import
// directory first, then source roots and the import directory are synced into
// the output directory.
type importSourcesStep struct{}

func (importSourcesStep) Name() string { return ImportSourcesStepName }

func (importSourcesStep) Run(ctx context.Context, bc *Context) (Result, error) {
	p := bc.Project
	log := bc.logger()
	if p.Sources.SkipImport {
		return skipped(ImportSourcesStepName, "", "source import skipped", nil), nil
	}
	filter, err := stale.NewFilter(p.Sources.Includes, p.Sources.Excludes, true)
	if err != nil {
		return Result{}, err
	}
	if err := mkdirs(p.Sources.ImportDir, p.OutputDir); err != nil {
		return Result{}, err
	}
	for _, d := range javaSourceDependencies(p) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		log.Info("importing", zap.String("dependency", d.Path))
		n, err := importDependency(ctx, d.Path, p.Sources.ImportDir, log)
		if err != nil {
			return Result{}, err
		}
		log.Debug("dependency imported", zap.String("dependency", d.Path), zap.Int("files", n))
	}

	sync, err := newTreeSync(filter, log)
	if err != nil {
		return Result{}, err
	}
	roots := filterSourceRoots(log, p.ResourceRoots, append(append([]string(nil), p.SourceRoots...), p.Sources.ImportDir))
	copied := 0
	for _, root := range roots {
		n, err := sync.run(ctx, root, p.OutputDir)
		if err != nil {
			return Result{}, err
		}
		copied += n
	}
	log.Info("sources imported", zap.Int("copied", copied), zap.String("into", p.OutputDir))
	return Result{Step: ImportSourcesStepName, Target: p.OutputDir}, nil
}

// superSourcesStep copies the super-source directory into the output
// directory, optionally relocated under the module package's "super" folder.
type superSourcesStep struct{}

func (superSourcesStep) Name() string { return AddSuperSourcesStepName }

func (superSourcesStep) Run(ctx context.Context, bc *Context) (Result, error) {
	p := bc.Project
	log := bc.logger()
	src := p.Sources
	if src.SkipSuperSources {
		return skipped(AddSuperSourcesStepName, "", "super-sources skipped", nil), nil
	}
	if len(filterSourceRoots(log, p.ResourceRoots, []string{src.SuperSourceDir})) == 0 {
		return skipped(AddSuperSourcesStepName, "", "super-source directory conflicts with a resource root", nil), nil
	}
	target := p.OutputDir
	if src.RelocateSuperSource {
		rel, err := superSourcePath(p.Module.Name)
		if err != nil {
			return Result{}, err
		}
		target = filepath.Join(target, rel)
	}
	fi, err := os.Stat(src.SuperSourceDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("no super-source directory", zap.String("path", src.SuperSourceDir))
		return skipped(AddSuperSourcesStepName, target, "no super-source directory", nil), nil
	case err != nil:
		return Result{}, &stale.ScanError{Path: src.SuperSourceDir, Err: err}
	case !fi.IsDir():
		return Result{}, fmt.Errorf("super-source path is not a directory: %s", src.SuperSourceDir)
	}

	filter, err := stale.NewFilter(nil, src.Excludes, true)
	if err != nil {
		return Result{}, err
	}
	sync, err := newTreeSync(filter, log)
	if err != nil {
		return Result{}, err
	}
	n, err := sync.run(ctx, src.SuperSourceDir, target)
	if err != nil {
		return Result{}, err
	}
	log.Info("super-sources added", zap.Int("copied", n), zap.String("into", target))
	return Result{Step: AddSuperSourcesStepName, Target: target}, nil
}

// superSourcePath is the relocation folder for module: its package path
// followed by "super".
func superSourcePath(module string) (string, error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return "", errors.New("cannot relocate super-sources without module.name")
	}
	pkg := ""
	if i := strings.LastIndexByte(module, '.'); i >= 0 {
		pkg = module[:i]
	}
	return filepath.Join(filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/")), "super"), nil
}

// javaSourceDependencies are the direct runtime and system dependencies of
// type java-source.
func javaSourceDependencies(p *config.Project) []config.Dependency {
	var out []config.Dependency
	for _, d := range p.DependenciesIn(config.ScopeRuntimePlusSystem, true) {
		if d.Type == JavaSourceType {
			out = append(out, d)
		}
	}
	return out
}

// filterSourceRoots drops roots that are already resource roots and roots
// that overlap one, since both would be copied twice.
func filterSourceRoots(log *zap.Logger, resourceRoots, roots []string) []string {
	var out []string
	for _, root := range roots {
		if keepSourceRoot(log, resourceRoots, root) {
			out = append(out, root)
		}
	}
	return out
}

func keepSourceRoot(log *zap.Logger, resourceRoots []string, root string) bool {
	r := withTrailingSlash(root)
	for _, res := range resourceRoots {
		d := withTrailingSlash(res)
		if d == r {
			log.Info("already a resource folder, skipped", zap.String("path", root))
			return false
		}
		if strings.HasPrefix(d, r) || strings.HasPrefix(r, d) {
			log.Warn("source folder overlaps a resource folder, skipped",
				zap.String("path", root), zap.String("resource", res))
			return false
		}
	}
	return true
}

func withTrailingSlash(dir string) string {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

func importDependency(ctx context.Context, dep, dir string, log *zap.Logger) (int, error) {
	fi, err := os.Stat(dep)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, &stale.MissingInputError{Path: dep}
		}
		return 0, &stale.ScanError{Path: dep, Err: err}
	}
	if fi.IsDir() {
		log.Warn("java-source dependency is a directory, copying it as is", zap.String("path", dep))
		sync, err := newTreeSync(stale.MustFilter(), log)
		if err != nil {
			return 0, err
		}
		return sync.run(ctx, dep, dir)
	}
	return unpackArchive(dep, fi.ModTime(), dir)
}

// unpackArchive extracts every entry of the jar at path into dir. Entries no
// newer than the file already extracted are left alone; extracted files carry
// the entry time, or the jar's own time when the entry has none.
func unpackArchive(path string, jarTime time.Time, dir string) (int, error) {
	zr, err := zip.OpenReader(path)
	if errors.Is(err, zip.ErrInsecurePath) {
		if zr != nil {
			_ = zr.Close()
		}
		return 0, fmt.Errorf("unsafe entry in %s: %w", path, err)
	}
	if err != nil {
		return 0, fmt.Errorf("open java-source archive %s: %w", path, err)
	}
	defer zr.Close()
	n := 0
	for _, zf := range zr.File {
		name := filepath.FromSlash(zf.Name)
		if !filepath.IsLocal(name) {
			return n, fmt.Errorf("unsafe entry %q in %s", zf.Name, path)
		}
		target := filepath.Join(dir, name)
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return n, err
			}
			continue
		}
		mt := zf.Modified
		if mt.IsZero() {
			mt = jarTime
		}
		if ti, err := os.Stat(target); err == nil && !mt.After(ti.ModTime()) {
			continue
		}
		if err := extractEntry(zf, target, mt); err != nil {
			return n, fmt.Errorf("extract %s!/%s: %w", path, zf.Name, err)
		}
		n++
	}
	return n, nil
}

func extractEntry(zf *zip.File, target string, mt time.Time) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := writeAtomic(target, func(w io.Writer) error {
		_, err := io.Copy(w, rc)
		return err
	}); err != nil {
		return err
	}
	return os.Chtimes(target, mt, mt)
}

// treeSync copies the files of a directory that the filter selects and that
// are stale in the destination. Copies keep the source modification time so
// an unchanged file is never copied twice.
type treeSync struct {
	filter  *stale.Filter
	checker *stale.Checker
	log     *zap.Logger
}

func newTreeSync(filter *stale.Filter, log *zap.Logger) (*treeSync, error) {
	checker, err := stale.NewChecker(0, nil, log)
	if err != nil {
		return nil, err
	}
	return &treeSync{filter: filter, checker: checker, log: log}, nil
}

// run syncs src into dst and returns the number of files copied. A missing
// src copies nothing.
func (s *treeSync) run(ctx context.Context, src, dst string) (int, error) {
	fi, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("source directory does not exist", zap.String("path", src))
			return 0, nil
		}
		return 0, &stale.ScanError{Path: src, Err: err}
	}
	if !fi.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", src)
	}
	copied := 0
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &stale.ScanError{Path: p, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == src {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		slash := filepath.ToSlash(rel)
		if d.IsDir() {
			if s.filter.Excluded(slash, true) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.filter.Match(slash) {
			return nil
		}
		target := filepath.Join(dst, rel)
		v, err := s.checker.Check(target, []stale.Input{stale.FileInput(p)})
		if err != nil {
			return err
		}
		if !v.Stale {
			return nil
		}
		if err := copyFile(p, target); err != nil {
			return fmt.Errorf("copy %s: %w", p, err)
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}
	if err := writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	}); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
