package config

import (
	"cuelang.org/go/cue"
)

func parseDevServer(s *fieldSet, prefix string, d *DevServer) {
	s.str(prefix+".workDir", &d.WorkDir)
	s.strings(prefix+".modules", &d.Modules)
	s.str(prefix+".logLevel", &d.LogLevel)
	s.str(prefix+".style", &d.Style)
	s.str(prefix+".sourceLevel", &d.SourceLevel)
	s.optBool(prefix+".failOnError", &d.FailOnError)
	s.str(prefix+".classpathScope", &d.ClasspathScope)
	s.strings(prefix+".jvmArgs", &d.JVMArgs)
	s.stringMap(prefix+".systemProperties", &d.SystemProperties)
	s.strings(prefix+".args", &d.Args)
}

func parseCodeServerSection(v cue.Value, p *Project) error {
	s := &fieldSet{v: v}
	parseDevServer(s, "codeserver", &p.CodeServer.DevServer)
	s.str("codeserver.launcherDir", &p.CodeServer.LauncherDir)
	return s.err
}

func parseDevModeSection(v cue.Value, p *Project) error {
	s := &fieldSet{v: v}
	parseDevServer(s, "devmode", &p.DevMode.DevServer)
	s.str("devmode.webappDir", &p.DevMode.WebappDir)
	return s.err
}

func parseHistoryWatchSection(v cue.Value, p *Project) error {
	s := &fieldSet{v: v}
	s.boolean("history.enabled", &p.History.Enabled)
	s.str("history.path", &p.History.Path)
	s.integer("watch.intervalMs", &p.Watch.IntervalMs)
	return s.err
}
