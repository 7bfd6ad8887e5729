package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

// lookup returns the field at path when present and of the wanted kind.
func lookup(v cue.Value, path string, kind cue.Kind, kindName string) (cue.Value, bool, error) {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return f, false, nil
	}
	if f.Kind() != kind {
		return f, false, fmt.Errorf("invalid type for field: %s (expected %s)", path, kindName)
	}
	return f, true, nil
}

func lookupString(v cue.Value, path string, dst *string) (bool, error) {
	f, ok, err := lookup(v, path, cue.StringKind, "string")
	if !ok {
		return false, err
	}
	if err := f.Decode(dst); err != nil {
		return false, fmt.Errorf("invalid value for %s: %v", path, err)
	}
	return true, nil
}

func lookupBool(v cue.Value, path string, dst *bool) (bool, error) {
	f, ok, err := lookup(v, path, cue.BoolKind, "bool")
	if !ok {
		return false, err
	}
	if err := f.Decode(dst); err != nil {
		return false, fmt.Errorf("invalid value for %s: %v", path, err)
	}
	return true, nil
}

func lookupInt(v cue.Value, path string, dst *int) (bool, error) {
	f, ok, err := lookup(v, path, cue.IntKind, "int")
	if !ok {
		return false, err
	}
	if err := f.Decode(dst); err != nil {
		return false, fmt.Errorf("invalid value for %s: %v", path, err)
	}
	return true, nil
}

func lookupStrings(v cue.Value, path string, dst *[]string) (bool, error) {
	f, ok, err := lookup(v, path, cue.ListKind, "list of strings")
	if !ok {
		return false, err
	}
	if err := f.Decode(dst); err != nil {
		return false, fmt.Errorf("invalid type for field: %s (expected list of strings)", path)
	}
	return true, nil
}

func lookupStringMap(v cue.Value, path string, dst *map[string]string) (bool, error) {
	f, ok, err := lookup(v, path, cue.StructKind, "struct of strings")
	if !ok {
		return false, err
	}
	if err := f.Decode(dst); err != nil {
		return false, fmt.Errorf("invalid type for field: %s (expected struct of strings)", path)
	}
	return true, nil
}

// fieldSet collects the first error of a sequence of lookups.
type fieldSet struct {
	v   cue.Value
	err error
}

func (s *fieldSet) str(path string, dst *string) {
	if s.err == nil {
		_, s.err = lookupString(s.v, path, dst)
	}
}

func (s *fieldSet) boolean(path string, dst *bool) {
	if s.err == nil {
		_, s.err = lookupBool(s.v, path, dst)
	}
}

func (s *fieldSet) optBool(path string, dst **bool) {
	if s.err != nil {
		return
	}
	var b bool
	var ok bool
	ok, s.err = lookupBool(s.v, path, &b)
	if ok {
		*dst = &b
	}
}

func (s *fieldSet) integer(path string, dst *int) {
	if s.err == nil {
		_, s.err = lookupInt(s.v, path, dst)
	}
}

func (s *fieldSet) strings(path string, dst *[]string) {
	if s.err == nil {
		_, s.err = lookupStrings(s.v, path, dst)
	}
}

func (s *fieldSet) stringMap(path string, dst *map[string]string) {
	if s.err == nil {
		_, s.err = lookupStringMap(s.v, path, dst)
	}
}
