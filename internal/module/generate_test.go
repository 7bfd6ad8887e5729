package module

import (
	"bytes"
	"strings"
	"testing"
)

type flat struct{ name, key, value string }

func generate(t *testing.T, spec Spec) (*element, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := Generate(&buf, spec, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	root, err := parseTemplate(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, buf.String())
	}
	return root, buf.String()
}

func children(e *element) []flat {
	var out []flat
	for _, c := range e.children {
		f := flat{name: c.name}
		if len(c.attrs) > 0 {
			f.key, f.value = c.attrs[0].Name.Local, c.attrs[0].Value
		}
		out = append(out, f)
	}
	return out
}

func sameChildren(t *testing.T, got, want []flat) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("children\nwant: %v\n got: %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("child %d\nwant: %v\n got: %v", i, want[i], got[i])
		}
	}
}

func TestGenerate_EmptyTemplateAddsDefaults(t *testing.T) {
	root, text := generate(t, Spec{})
	sameChildren(t, children(root), []flat{
		{"inherits", "name", CoreModule},
		{"source", "path", "client"},
		{"source", "path", "shared"},
		{"super-source", "path", "super"},
	})
	if len(root.attrs) != 0 {
		t.Fatalf("unexpected attributes: %v", root.attrs)
	}
	if !strings.HasPrefix(text, "<module>\n  <inherits") {
		t.Fatalf("expected two-space indentation:\n%s", text)
	}
}

func TestGenerate_MergesTemplate(t *testing.T) {
	tmpl := `<module rename-to="old" type="app">
  <!-- a comment -->
  <inherits name="com.google.gwt.user.User"/>
  <source path="ui"/>
  <set-property name="user.agent" value="safari"/>
</module>`
	root, _ := generate(t, Spec{
		ShortName:          "app",
		EntryPoint:         "com.example.client.App",
		DependencyInherits: []string{"com.dep.Dep"},
		Inherits:           []string{"com.extra.Extra"},
		Template:           strings.NewReader(tmpl),
	})
	if v, _ := root.attr("rename-to"); v != "app" {
		t.Fatalf("rename-to not overridden: %v", root.attrs)
	}
	if root.attrs[0].Name.Local != "rename-to" {
		t.Fatalf("rename-to must come first: %v", root.attrs)
	}
	if v, _ := root.attr("type"); v != "app" {
		t.Fatalf("template attribute lost: %v", root.attrs)
	}
	sameChildren(t, children(root), []flat{
		{"inherits", "name", "com.dep.Dep"},
		{"inherits", "name", "com.extra.Extra"},
		{"inherits", "name", "com.google.gwt.user.User"},
		{"source", "path", "ui"},
		{"set-property", "name", "user.agent"},
		{"entry-point", "class", "com.example.client.App"},
	})
}

func TestGenerate_KeepsTemplateRenameTo(t *testing.T) {
	root, _ := generate(t, Spec{Template: strings.NewReader(`<module rename-to="keep"><entry-point class="a.B"/></module>`), EntryPoint: "x.Y"})
	if v, _ := root.attr("rename-to"); v != "keep" {
		t.Fatalf("rename-to: %v", root.attrs)
	}
	sameChildren(t, children(root), []flat{
		{"entry-point", "class", "a.B"},
		{"inherits", "name", CoreModule},
		{"source", "path", "client"},
		{"source", "path", "shared"},
		{"super-source", "path", "super"},
	})
}

func TestGenerate_DependencyInheritsSuppressCore(t *testing.T) {
	root, _ := generate(t, Spec{DependencyInherits: []string{"com.dep.Dep"}})
	for _, c := range children(root) {
		if c.value == CoreModule {
			t.Fatalf("core module must not be added when something is inherited")
		}
	}
}

func TestGenerate_InvalidTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, Spec{Template: strings.NewReader(`<project/>`)}, nil); err == nil {
		t.Fatalf("expected error for non-module root")
	}
	if err := Generate(&buf, Spec{Template: strings.NewReader(`<module>`)}, nil); err == nil {
		t.Fatalf("expected error for truncated template")
	}
}
