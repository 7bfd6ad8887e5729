package config

import (
	"path/filepath"
	"strings"
)

const (
	DefaultStyle          = "OBFUSCATED"
	DefaultOptimize       = 9
	DefaultCompileReport  = "OFF"
	DefaultClasspathScope = ScopeRuntime
	DefaultWatchInterval  = 2000
)

// applyDefaults fills unset fields and makes every path absolute.
func applyDefaults(p *Project) {
	p.BuildDir = p.Resolve(orDefault(p.BuildDir, "target"))
	p.OutputDir = p.Resolve(orDefault(p.OutputDir, "target/classes"))
	if p.SourceRoots == nil {
		p.SourceRoots = []string{"src/main/java"}
	}
	if p.ResourceRoots == nil {
		p.ResourceRoots = []string{"src/main/resources"}
	}
	p.SourceRoots = p.resolveAll(p.SourceRoots)
	p.ResourceRoots = p.resolveAll(p.ResourceRoots)
	for i := range p.Dependencies {
		p.Dependencies[i].Path = p.Resolve(p.Dependencies[i].Path)
	}
	p.Toolchain.JavaHome = p.Resolve(p.Toolchain.JavaHome)
	if strings.ContainsRune(p.Toolchain.JVM, filepath.Separator) || strings.Contains(p.Toolchain.JVM, "/") {
		p.Toolchain.JVM = p.Resolve(p.Toolchain.JVM)
	}
	p.Toolchain.Classpath = p.resolveAll(p.Toolchain.Classpath)

	m := &p.Module
	m.Template = p.Resolve(orDefault(m.Template, "src/main/module.gwt.xml"))
	m.MetadataDir = p.Resolve(orDefault(m.MetadataDir, filepath.Join(p.OutputDir, "META-INF", "gwt")))

	src := &p.Sources
	src.ImportDir = p.Resolve(orDefault(src.ImportDir, filepath.Join(p.BuildDir, "generated-resources", "gwt-sources")))
	src.SuperSourceDir = p.Resolve(orDefault(src.SuperSourceDir, "src/main/super"))
	if len(src.Includes) == 0 {
		src.Includes = []string{"**/*.java"}
	}

	gwtDir := filepath.Join(p.BuildDir, "gwt")
	c := &p.Compile
	c.WebappDir = p.Resolve(orDefault(c.WebappDir, filepath.Join(p.BuildDir, p.Name)))
	c.WorkDir = p.Resolve(orDefault(c.WorkDir, filepath.Join(gwtDir, "work")))
	c.DeployDir = p.Resolve(orDefault(c.DeployDir, filepath.Join(gwtDir, "deploy")))
	c.ExtraDir = p.Resolve(orDefault(c.ExtraDir, filepath.Join(gwtDir, "extra")))
	c.GenDir = p.Resolve(orDefault(c.GenDir, filepath.Join(gwtDir, "gen")))
	c.Style = strings.ToUpper(orDefault(c.Style, DefaultStyle))
	c.LogLevel = strings.ToUpper(c.LogLevel)
	c.CompileReport = strings.ToUpper(orDefault(c.CompileReport, DefaultCompileReport))
	if c.Optimize < 0 {
		c.Optimize = DefaultOptimize
	}

	applyDevServerDefaults(p, &p.CodeServer.DevServer, filepath.Join(gwtDir, "codeserver"))
	p.CodeServer.LauncherDir = p.Resolve(p.CodeServer.LauncherDir)
	applyDevServerDefaults(p, &p.DevMode.DevServer, filepath.Join(gwtDir, "devmode"))
	p.DevMode.WebappDir = p.Resolve(orDefault(p.DevMode.WebappDir, c.WebappDir))

	p.History.Path = p.Resolve(orDefault(p.History.Path, filepath.Join(p.BuildDir, "gwtbuild-history.db")))
	if p.Watch.IntervalMs <= 0 {
		p.Watch.IntervalMs = DefaultWatchInterval
	}
}

func applyDevServerDefaults(p *Project, d *DevServer, workDir string) {
	d.WorkDir = p.Resolve(orDefault(d.WorkDir, workDir))
	d.LogLevel = strings.ToUpper(d.LogLevel)
	d.Style = strings.ToUpper(d.Style)
	d.ClasspathScope = orDefault(d.ClasspathScope, DefaultClasspathScope)
	if len(d.Modules) == 0 && p.Module.Name != "" {
		d.Modules = []string{p.Module.Name}
	}
}

func (p *Project) resolveAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, s := range paths {
		out = append(out, p.Resolve(s))
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
