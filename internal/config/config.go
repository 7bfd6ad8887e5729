package config

import (
	"fmt"
	"path/filepath"

	"cuelang.org/go/cue"
)

// DefaultPath is the project file looked up when none is given.
const DefaultPath = "gwt.cue"

// Project is a loaded and validated project file. All paths are absolute.
type Project struct {
	// Path is the project file itself; it is an input of every build step.
	Path          string
	BaseDir       string
	ConfigVersion string
	Name          string

	BuildDir      string
	OutputDir     string
	SourceRoots   []string
	ResourceRoots []string
	Dependencies  []Dependency
	Toolchain     Toolchain

	Module     Module
	Sources    Sources
	Compile    Compile
	CodeServer CodeServer
	DevMode    DevMode
	History    History
	Watch      Watch
}

// Dependency is a resolved artifact: a jar file or a classes directory.
type Dependency struct {
	Path  string
	Scope string
	Type  string
	// Direct is false for transitive dependencies.
	Direct bool
}

// Toolchain locates the JVM and the GWT SDK jars (gwt-dev and its dependencies).
type Toolchain struct {
	JVM       string
	JavaHome  string
	Classpath []string
}

// Module configures the module descriptor and its metadata file.
type Module struct {
	Name         string
	ShortName    string
	Template     string
	EntryPoint   string
	Inherits     []string
	Skip         bool
	SkipMetadata bool
	MetadataDir  string
}

// Compile configures the GWT compiler run.
type Compile struct {
	WebappDir   string
	WorkDir     string
	DeployDir   string
	ExtraDir    string
	OutputExtra bool
	GenDir      string
	OutputGen   bool

	Style         string
	LogLevel      string
	SourceLevel   string
	CompileReport string
	Optimize      int
	LocalWorkers  int
	FragmentCount int

	DraftCompile                  bool
	Strict                        bool
	ValidateOnly                  bool
	EnableAssertions              bool
	EnableClosureCompiler         bool
	CompilerMetrics               bool
	DisableAggressiveOptimization bool
	DisableCastChecking           bool
	DisableClassMetadata          bool
	DisableRunAsync               bool
	DisableUpdateCheck            bool
	FailOnError                   *bool

	StaleMillis      int64
	Force            bool
	Skip             bool
	Includes         []string
	Excludes         []string
	DefaultExcludes  bool
	JVMArgs          []string
	SystemProperties map[string]string
	Args             []string
}

// DevServer holds the settings shared by codeserver and devmode.
type DevServer struct {
	WorkDir          string
	Modules          []string
	LogLevel         string
	Style            string
	SourceLevel      string
	FailOnError      *bool
	ClasspathScope   string
	JVMArgs          []string
	SystemProperties map[string]string
	Args             []string
}

// CodeServer configures SuperDevMode.
type CodeServer struct {
	DevServer
	LauncherDir string
}

// DevMode configures classic DevMode.
type DevMode struct {
	DevServer
	WebappDir string
}

// Sources configures the steps that copy GWT sources next to the compiled
// classes: imported sources (source roots and java-source dependencies) and
// super-sources.
type Sources struct {
	SkipImport bool
	// ImportDir receives unpacked java-source dependencies.
	ImportDir string
	Includes  []string
	Excludes  []string

	SkipSuperSources    bool
	SuperSourceDir      string
	RelocateSuperSource bool
}

// History configures the run log.
type History struct {
	Enabled bool
	Path    string
}

// Watch configures `gwtbuild watch`.
type Watch struct {
	IntervalMs int
}

// Load reads, validates and resolves the project file at path.
func Load(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	v, err := compileCUE(abs)
	if err != nil {
		return nil, err
	}
	return parse(abs, v)
}

func parse(abs string, v cue.Value) (*Project, error) {
	if err := requireStringField(v, "configVersion"); err != nil {
		return nil, err
	}
	if err := requireStringField(v, "project.name"); err != nil {
		return nil, err
	}
	p := &Project{Path: abs, BaseDir: filepath.Dir(abs)}
	if _, err := lookupString(v, "configVersion", &p.ConfigVersion); err != nil {
		return nil, err
	}
	if err := checkConfigVersion(p.ConfigVersion); err != nil {
		return nil, err
	}
	sections := []func(cue.Value, *Project) error{
		parseProjectSection,
		parseModuleSection,
		parseSourcesSection,
		parseCompileSection,
		parseCodeServerSection,
		parseDevModeSection,
		parseHistoryWatchSection,
	}
	for _, parseSection := range sections {
		if err := parseSection(v, p); err != nil {
			return nil, err
		}
	}
	applyDefaults(p)
	if err := validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolve makes a project-relative path absolute.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, filepath.FromSlash(path))
}
