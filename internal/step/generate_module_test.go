package step

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateModule_WritesThenSkips(t *testing.T) {
	p, _, bc := stageProject(t)
	res, err := Run(context.Background(), GenerateModuleStepName, bc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(p.OutputDir, "com", "example", "App.gwt.xml")
	if res.Skipped || res.Target != want {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	text := string(b)
	for _, s := range []string{
		`<module rename-to="app">`,
		`<inherits name="com.google.gwt.user.User">`,
		`<entry-point class="com.example.client.App">`,
		`<source path="client">`,
	} {
		if !strings.Contains(text, s) {
			t.Fatalf("descriptor lacks %s:\n%s", s, text)
		}
	}
	if strings.Contains(text, "com.google.gwt.core.Core") {
		t.Fatalf("template inherits must suppress the core module:\n%s", text)
	}

	res, err = Run(context.Background(), GenerateModuleStepName, bc)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("second run should be up to date: %+v", res)
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(p.Module.Template, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	res, err = Run(context.Background(), GenerateModuleStepName, bc)
	if err != nil {
		t.Fatalf("third Run: %v", err)
	}
	if res.Skipped || res.Verdict == nil || res.Verdict.Reasons[0] != p.Module.Template {
		t.Fatalf("template change should regenerate: %+v", res)
	}
}

func TestGenerateModule_SkipAndInvalidName(t *testing.T) {
	p, _, bc := stageProject(t)
	p.Module.Skip = true
	res, err := Run(context.Background(), GenerateModuleStepName, bc)
	if err != nil || !res.Skipped {
		t.Fatalf("expected skip: %+v %v", res, err)
	}
	p.Module.Skip = false
	p.Module.Name = "com.example.9App"
	if _, err := Run(context.Background(), GenerateModuleStepName, bc); err == nil || err.Error() != "invalid module name: com.example.9App" {
		t.Fatalf("expected invalid name error, got %v", err)
	}
}
