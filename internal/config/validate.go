package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validStyles         = []string{"DETAILED", "OBFUSCATED", "PRETTY"}
	validLogLevels      = []string{"ERROR", "WARN", "INFO", "TRACE", "DEBUG", "SPAM", "ALL"}
	validCompileReports = []string{"OFF", "ON", "DETAILED"}
)

func validate(p *Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project.name must not be empty")
	}
	c := p.Compile
	if err := oneOf("compile.style", c.Style, validStyles); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if err := oneOf("compile.logLevel", c.LogLevel, validLogLevels); err != nil {
			return err
		}
	}
	if err := oneOf("compile.compileReport", c.CompileReport, validCompileReports); err != nil {
		return err
	}
	if c.StaleMillis < 0 {
		return fmt.Errorf("invalid compile.staleMillis: %d (must be >= 0)", c.StaleMillis)
	}
	if c.FragmentCount < 0 {
		return fmt.Errorf("invalid compile.fragmentCount: %d (must be >= 0)", c.FragmentCount)
	}
	servers := []struct {
		name string
		d    DevServer
	}{{"codeserver", p.CodeServer.DevServer}, {"devmode", p.DevMode.DevServer}}
	for _, srv := range servers {
		name, d := srv.name, srv.d
		if d.Style != "" {
			if err := oneOf(name+".style", d.Style, validStyles); err != nil {
				return err
			}
		}
		if d.LogLevel != "" {
			if err := oneOf(name+".logLevel", d.LogLevel, validLogLevels); err != nil {
				return err
			}
		}
		if !IsClasspathScope(d.ClasspathScope) {
			return fmt.Errorf("invalid %s.classpathScope: %q", name, d.ClasspathScope)
		}
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %q (allowed: %s)", field, v, strings.Join(allowed, ", "))
}
