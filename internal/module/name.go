// Package module reads and writes GWT module descriptors and the
// META-INF/gwt/mainModule metadata file.
package module

import (
	"path/filepath"
	"strings"
	"unicode"
)

// CoreModule is inherited when a generated module inherits nothing else.
const CoreModule = "com.google.gwt.core.Core"

// IsValidModuleName reports whether name is a dot-separated list of Java
// identifiers.
func IsValidModuleName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !isJavaIdentifier(part) {
			return false
		}
	}
	return true
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !(unicode.IsLetter(r) || r == '_' || r == '$') {
				return false
			}
			continue
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			return false
		}
	}
	return true
}

// DescriptorPath returns where the descriptor of name lives under dir.
func DescriptorPath(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(name, ".", "/"))+".gwt.xml")
}
