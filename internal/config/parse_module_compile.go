package config

import (
	"cuelang.org/go/cue"
)

func parseModuleSection(v cue.Value, p *Project) error {
	m := &p.Module
	s := &fieldSet{v: v}
	s.str("module.name", &m.Name)
	s.str("module.shortName", &m.ShortName)
	s.str("module.template", &m.Template)
	s.str("module.entryPoint", &m.EntryPoint)
	s.strings("module.inherits", &m.Inherits)
	s.boolean("module.skip", &m.Skip)
	s.boolean("module.skipMetadata", &m.SkipMetadata)
	s.str("module.metadataDir", &m.MetadataDir)
	return s.err
}

func parseSourcesSection(v cue.Value, p *Project) error {
	src := &p.Sources
	s := &fieldSet{v: v}
	s.boolean("sources.skipImport", &src.SkipImport)
	s.str("sources.importDir", &src.ImportDir)
	s.strings("sources.includes", &src.Includes)
	s.strings("sources.excludes", &src.Excludes)
	s.boolean("sources.skipSuperSources", &src.SkipSuperSources)
	s.str("sources.superSourceDir", &src.SuperSourceDir)
	s.boolean("sources.relocateSuperSource", &src.RelocateSuperSource)
	return s.err
}

func parseCompileSection(v cue.Value, p *Project) error {
	c := &p.Compile
	c.Optimize = -1
	c.DefaultExcludes = true
	s := &fieldSet{v: v}
	s.str("compile.webappDir", &c.WebappDir)
	s.str("compile.workDir", &c.WorkDir)
	s.str("compile.deployDir", &c.DeployDir)
	s.str("compile.extraDir", &c.ExtraDir)
	s.boolean("compile.outputExtra", &c.OutputExtra)
	s.str("compile.genDir", &c.GenDir)
	s.boolean("compile.outputGen", &c.OutputGen)

	s.str("compile.style", &c.Style)
	s.str("compile.logLevel", &c.LogLevel)
	s.str("compile.sourceLevel", &c.SourceLevel)
	s.str("compile.compileReport", &c.CompileReport)
	s.integer("compile.optimize", &c.Optimize)
	s.integer("compile.localWorkers", &c.LocalWorkers)
	s.integer("compile.fragmentCount", &c.FragmentCount)

	s.boolean("compile.draftCompile", &c.DraftCompile)
	s.boolean("compile.strict", &c.Strict)
	s.boolean("compile.validateOnly", &c.ValidateOnly)
	s.boolean("compile.enableAssertions", &c.EnableAssertions)
	s.boolean("compile.enableClosureCompiler", &c.EnableClosureCompiler)
	s.boolean("compile.compilerMetrics", &c.CompilerMetrics)
	s.boolean("compile.disableAggressiveOptimization", &c.DisableAggressiveOptimization)
	s.boolean("compile.disableCastChecking", &c.DisableCastChecking)
	s.boolean("compile.disableClassMetadata", &c.DisableClassMetadata)
	s.boolean("compile.disableRunAsync", &c.DisableRunAsync)
	s.boolean("compile.disableUpdateCheck", &c.DisableUpdateCheck)
	s.optBool("compile.failOnError", &c.FailOnError)

	var staleMillis int
	s.integer("compile.staleMillis", &staleMillis)
	s.boolean("compile.forceCompilation", &c.Force)
	s.boolean("compile.skipCompilation", &c.Skip)
	s.strings("compile.includes", &c.Includes)
	s.strings("compile.excludes", &c.Excludes)
	s.boolean("compile.defaultExcludes", &c.DefaultExcludes)
	s.strings("compile.jvmArgs", &c.JVMArgs)
	s.stringMap("compile.systemProperties", &c.SystemProperties)
	s.strings("compile.compilerArgs", &c.Args)
	c.StaleMillis = int64(staleMillis)
	return s.err
}
