package config

// Dependency scopes.
const (
	ScopeCompile  = "compile"
	ScopeProvided = "provided"
	ScopeRuntime  = "runtime"
	ScopeSystem   = "system"
	ScopeTest     = "test"
)

// Classpath scopes that select dependencies.
const (
	ScopeCompilePlusRuntime = "compile+runtime"
	ScopeRuntimePlusSystem  = "runtime+system"
)

var scopeIncludes = map[string][]string{
	ScopeCompile:            {ScopeSystem, ScopeProvided, ScopeCompile},
	ScopeRuntime:            {ScopeCompile, ScopeRuntime},
	ScopeCompilePlusRuntime: {ScopeSystem, ScopeProvided, ScopeCompile, ScopeRuntime},
	ScopeRuntimePlusSystem:  {ScopeSystem, ScopeCompile, ScopeRuntime},
	ScopeTest:               {ScopeSystem, ScopeProvided, ScopeCompile, ScopeRuntime, ScopeTest},
}

func isDependencyScope(s string) bool {
	switch s {
	case ScopeCompile, ScopeProvided, ScopeRuntime, ScopeSystem, ScopeTest:
		return true
	}
	return false
}

// IsClasspathScope reports whether s names a known classpath scope.
func IsClasspathScope(s string) bool {
	_, ok := scopeIncludes[s]
	return ok
}

// ScopeIncludes reports whether a dependency of scope dep belongs to the
// classpath scope.
func ScopeIncludes(scope, dep string) bool {
	for _, s := range scopeIncludes[scope] {
		if s == dep {
			return true
		}
	}
	return false
}

// DependenciesIn returns the dependencies selected by scope, in declaration
// order. With directOnly, transitive dependencies are left out.
func (p *Project) DependenciesIn(scope string, directOnly bool) []Dependency {
	var out []Dependency
	for _, d := range p.Dependencies {
		if directOnly && !d.Direct {
			continue
		}
		if ScopeIncludes(scope, d.Scope) {
			out = append(out, d)
		}
	}
	return out
}

// DependencyPaths returns the paths of DependenciesIn(scope, directOnly).
func (p *Project) DependencyPaths(scope string, directOnly bool) []string {
	deps := p.DependenciesIn(scope, directOnly)
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Path)
	}
	return out
}
