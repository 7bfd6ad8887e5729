package stale

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultExcludes are skipped by every directory scan unless disabled:
// editor backup and swap files plus version control metadata.
var DefaultExcludes = []string{
	"*~",
	"#*#",
	".#*",
	"%*%",
	"._*",
	"*.swp",
	"*.swo",
	".DS_Store",
	"CVS/",
	".cvsignore",
	"SCCS/",
	"vssver.scc",
	".svn/",
	".git/",
	".gitignore",
	".gitattributes",
	".hg/",
	".hgignore",
	".bzr/",
	".bzrignore",
	"_darcs/",
}

// Filter decides which files under a scanned directory count as inputs.
// Includes use Ant style globs ("**/*.java"), excludes use gitignore syntax.
type Filter struct {
	includes []glob.Glob
	patterns []string
	excludes gitgitignore.Matcher
}

// NewFilter compiles include and exclude patterns. An empty include list
// matches every file.
func NewFilter(includes, excludes []string, defaultExcludes bool) (*Filter, error) {
	f := &Filter{}
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	for _, inc := range includes {
		gs, err := compileInclude(inc)
		if err != nil {
			return nil, err
		}
		f.includes = append(f.includes, gs...)
		f.patterns = append(f.patterns, inc)
	}
	var ps []gitgitignore.Pattern
	if defaultExcludes {
		for _, line := range DefaultExcludes {
			ps = append(ps, gitgitignore.ParsePattern(line, nil))
		}
	}
	for _, line := range excludes {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitgitignore.ParsePattern(line, nil))
	}
	if len(ps) > 0 {
		f.excludes = gitgitignore.NewMatcher(ps)
	}
	return f, nil
}

// MustFilter is NewFilter for static patterns; it panics on a bad pattern.
func MustFilter(includes ...string) *Filter {
	f, err := NewFilter(includes, nil, true)
	if err != nil {
		panic(err)
	}
	return f
}

// compileInclude expands the Ant rule that every "**/" also matches no
// directory and that a trailing "/" means everything below.
func compileInclude(pattern string) ([]glob.Glob, error) {
	p := strings.ReplaceAll(pattern, "\\", "/")
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	alts := doubleStarAlternatives(strings.Split(p, "/"))
	out := make([]glob.Glob, 0, len(alts))
	for _, a := range alts {
		g, err := glob.Compile(a, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %v", pattern, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// doubleStarAlternatives returns every pattern obtained by keeping or
// dropping each "**" segment that is followed by another segment. The first
// alternative is the pattern itself.
func doubleStarAlternatives(segs []string) []string {
	alts := [][]string{nil}
	for i, seg := range segs {
		optional := seg == "**" && i < len(segs)-1
		next := make([][]string, 0, len(alts)*2)
		for _, a := range alts {
			next = append(next, append(append([]string(nil), a...), seg))
			if optional {
				next = append(next, append([]string(nil), a...))
			}
		}
		alts = next
	}
	seen := make(map[string]bool, len(alts))
	out := make([]string, 0, len(alts))
	for _, a := range alts {
		joined := strings.Join(a, "/")
		if seen[joined] {
			continue
		}
		seen[joined] = true
		out = append(out, joined)
	}
	return out
}

// Includes returns the include patterns as given.
func (f *Filter) Includes() []string {
	return append([]string(nil), f.patterns...)
}

// Excluded reports whether rel (slash separated, relative to the scanned root)
// matches an exclude pattern.
func (f *Filter) Excluded(rel string, isDir bool) bool {
	if f == nil || f.excludes == nil || rel == "" || rel == "." {
		return false
	}
	return f.excludes.Match(strings.Split(rel, "/"), isDir)
}

// Match reports whether the file at rel is an input.
func (f *Filter) Match(rel string) bool {
	if f == nil {
		return true
	}
	rel = path.Clean(rel)
	if f.Excluded(rel, false) {
		return false
	}
	for _, g := range f.includes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
