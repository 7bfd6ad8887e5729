package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteMetadata writes name to dir/mainModule. It returns false without
// writing when the file already holds that name.
func WriteMetadata(dir, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, fmt.Errorf("missing module name")
	}
	if !IsValidModuleName(name) {
		return false, fmt.Errorf("invalid module name: %s", name)
	}
	p := filepath.Join(dir, "mainModule")
	if b, err := os.ReadFile(p); err == nil && strings.TrimSpace(string(b)) == name {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(p, []byte(name), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
