package config

import (
	"fmt"

	"cuelang.org/go/cue"
)

func parseProjectSection(v cue.Value, p *Project) error {
	s := &fieldSet{v: v}
	s.str("project.name", &p.Name)
	s.str("project.buildDir", &p.BuildDir)
	s.str("project.outputDir", &p.OutputDir)
	s.strings("project.sourceRoots", &p.SourceRoots)
	s.strings("project.resourceRoots", &p.ResourceRoots)
	s.str("project.toolchain.jvm", &p.Toolchain.JVM)
	s.str("project.toolchain.javaHome", &p.Toolchain.JavaHome)
	s.strings("project.toolchain.classpath", &p.Toolchain.Classpath)
	if s.err != nil {
		return s.err
	}
	deps, err := parseDependencies(v)
	if err != nil {
		return err
	}
	p.Dependencies = deps
	return nil
}

func parseDependencies(v cue.Value) ([]Dependency, error) {
	f, ok, err := lookup(v, "project.dependencies", cue.ListKind, "list")
	if !ok {
		return nil, err
	}
	it, err := f.List()
	if err != nil {
		return nil, fmt.Errorf("invalid project.dependencies: %v", err)
	}
	var out []Dependency
	for i := 0; it.Next(); i++ {
		item := it.Value()
		if item.Kind() != cue.StructKind {
			return nil, fmt.Errorf("invalid type for field: project.dependencies[%d] (expected struct)", i)
		}
		if err := requireStringField(item, "path"); err != nil {
			return nil, fmt.Errorf("project.dependencies[%d]: %w", i, err)
		}
		d := Dependency{Scope: ScopeCompile, Type: "jar", Direct: true}
		s := &fieldSet{v: item}
		s.str("path", &d.Path)
		s.str("scope", &d.Scope)
		s.str("type", &d.Type)
		s.boolean("direct", &d.Direct)
		if s.err != nil {
			return nil, fmt.Errorf("project.dependencies[%d]: %w", i, s.err)
		}
		if !isDependencyScope(d.Scope) {
			return nil, fmt.Errorf("project.dependencies[%d]: invalid scope %q", i, d.Scope)
		}
		out = append(out, d)
	}
	return out, nil
}
