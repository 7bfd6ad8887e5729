package stale

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// touch creates path (and parents) with its mtime set to ms milliseconds after the epoch.
func touch(t *testing.T, path string, ms int64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	ts := time.UnixMilli(ms)
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func mustCheck(t *testing.T, target string, inputs []Input, granularityMs int64, filter *Filter) Verdict {
	t.Helper()
	v, err := IsStale(target, inputs, granularityMs, filter)
	if err != nil {
		t.Fatalf("IsStale: %v", err)
	}
	return v
}

func TestCheck_MissingTargetIsStale(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "build", "out", "app.nocache.js")
	// Even a missing input is not looked at when the target is absent.
	v := mustCheck(t, target, []Input{FileInput(filepath.Join(d, "nope.jar"))}, 0, nil)
	if !v.Stale || !v.TargetMissing {
		t.Fatalf("expected stale missing target, got %+v", v)
	}
}

func TestCheck_EqualTimestampsUpToDate(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	in := filepath.Join(d, "in.jar")
	touch(t, target, 1000)
	touch(t, in, 1000)
	if v := mustCheck(t, target, []Input{FileInput(in)}, 0, nil); v.Stale {
		t.Fatalf("expected up to date, got %+v", v)
	}
}

func TestCheck_GranularityWindow(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	touch(t, target, 1000)

	older := filepath.Join(d, "a.jar")
	touch(t, older, 1049)
	if v := mustCheck(t, target, []Input{FileInput(older)}, 50, nil); v.Stale {
		t.Fatalf("1049 within granularity should be up to date: %+v", v)
	}

	newer := filepath.Join(d, "b.jar")
	touch(t, newer, 1051)
	v := mustCheck(t, target, []Input{FileInput(newer)}, 50, nil)
	if !v.Stale {
		t.Fatalf("1051 beyond granularity should be stale")
	}
	if len(v.Reasons) != 1 || v.Reasons[0] != newer {
		t.Fatalf("unexpected reasons: %v", v.Reasons)
	}
}

func TestCheck_ExactBoundaryIsNotStale(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	in := filepath.Join(d, "in.jar")
	touch(t, target, 1000)
	touch(t, in, 1050)
	if v := mustCheck(t, target, []Input{FileInput(in)}, 50, nil); v.Stale {
		t.Fatalf("boundary must not be stale: %+v", v)
	}
}

func TestCheck_DirectoryNewestMatchingFile(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	src := filepath.Join(d, "src")
	touch(t, target, 5000)
	touch(t, filepath.Join(src, "a", "A.java"), 1000)
	touch(t, filepath.Join(src, "b", "B.java"), 4000)

	java := MustFilter("**/*.java")
	if v := mustCheck(t, target, []Input{DirInput(src)}, 0, java); v.Stale {
		t.Fatalf("expected up to date: %+v", v)
	}

	newest := filepath.Join(src, "b", "c", "C.java")
	touch(t, newest, 6000)
	v := mustCheck(t, target, []Input{DirInput(src)}, 0, java)
	if !v.Stale || len(v.Reasons) != 1 || v.Reasons[0] != newest {
		t.Fatalf("expected stale because of %s, got %+v", newest, v)
	}
}

func TestCheck_NonMatchingDirectoryIsNotStale(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	src := filepath.Join(d, "src")
	touch(t, target, 1000)
	touch(t, filepath.Join(src, "notes.txt"), 9000)
	touch(t, filepath.Join(src, "pkg", "readme.txt"), 9000)

	if v := mustCheck(t, target, []Input{DirInput(src)}, 0, MustFilter("**/*.java")); v.Stale {
		t.Fatalf("txt files must not count: %+v", v)
	}
	empty := filepath.Join(d, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if v := mustCheck(t, target, []Input{DirInput(empty)}, 0, nil); v.Stale {
		t.Fatalf("empty directory must not count: %+v", v)
	}
}

func TestCheck_DefaultExcludesIgnoreSwapFiles(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	src := filepath.Join(d, "src")
	touch(t, target, 1000)
	touch(t, filepath.Join(src, "App.java"), 500)
	touch(t, filepath.Join(src, ".App.java.swp"), 9000)
	touch(t, filepath.Join(src, "App.java~"), 9000)
	touch(t, filepath.Join(src, ".git", "HEAD"), 9000)

	if v := mustCheck(t, target, []Input{DirInput(src)}, 0, nil); v.Stale {
		t.Fatalf("editor and vcs files must not count: %+v", v)
	}
}

func TestCheck_MissingDirectoryRootIsIgnored(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	touch(t, target, 1000)
	v := mustCheck(t, target, []Input{DirInput(filepath.Join(d, "generated-sources"))}, 0, nil)
	if v.Stale {
		t.Fatalf("missing source root must not be stale: %+v", v)
	}
}

func TestCheck_MissingFileInputIsError(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	touch(t, target, 1000)
	missing := filepath.Join(d, "lib", "dep.jar")

	v, err := IsStale(target, []Input{FileInput(missing)}, 0, nil)
	if err == nil {
		t.Fatalf("expected error, got verdict %+v", v)
	}
	if v.Stale {
		t.Fatalf("error must not come with a stale verdict")
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	var mi *MissingInputError
	if !errors.As(err, &mi) || mi.Path != missing {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestCheck_UnreadableDirectoryIsScanError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	src := filepath.Join(d, "src")
	touch(t, target, 5000)
	touch(t, filepath.Join(src, "a", "A.java"), 1000)
	locked := filepath.Join(src, "b")
	touch(t, filepath.Join(locked, "B.java"), 1000)
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	v, err := IsStale(target, []Input{DirInput(src)}, 0, MustFilter("**/*.java"))
	if err == nil {
		t.Fatalf("expected scan error, got verdict %+v", v)
	}
	var se *ScanError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ScanError, got %#v", err)
	}
	if errors.Is(err, ErrMissingInput) {
		t.Fatalf("scan failure must not look like a missing input")
	}
	if v.Stale || v.TargetMissing || len(v.Reasons) != 0 {
		t.Fatalf("expected zero verdict with error, got %+v", v)
	}
}

func TestCheck_ShortCircuitsBeforeLaterMissingInput(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	in := filepath.Join(d, "new.jar")
	touch(t, target, 1000)
	touch(t, in, 2000)
	v := mustCheck(t, target, []Input{FileInput(in), FileInput(filepath.Join(d, "missing.jar"))}, 0, nil)
	if !v.Stale {
		t.Fatalf("expected stale")
	}
}

func TestCheck_Idempotent(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	src := filepath.Join(d, "src")
	touch(t, target, 3000)
	touch(t, filepath.Join(src, "A.java"), 2000)
	inputs := []Input{DirInput(src)}

	first := mustCheck(t, target, inputs, 0, nil)
	second := mustCheck(t, target, inputs, 0, nil)
	if first.Stale != second.Stale || len(first.Reasons) != len(second.Reasons) {
		t.Fatalf("verdicts differ: %+v vs %+v", first, second)
	}
}

func TestCheck_Monotonic(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "out.js")
	old := filepath.Join(d, "old.jar")
	fresh := filepath.Join(d, "fresh.jar")
	touch(t, target, 3000)
	touch(t, old, 1000)
	touch(t, fresh, 4000)

	if v := mustCheck(t, target, []Input{FileInput(old)}, 0, nil); v.Stale {
		t.Fatalf("baseline should be up to date")
	}
	for _, inputs := range [][]Input{
		{FileInput(old), FileInput(fresh)},
		{FileInput(fresh), FileInput(old)},
	} {
		if v := mustCheck(t, target, inputs, 0, nil); !v.Stale {
			t.Fatalf("adding a stale input must make the set stale: %v", inputs)
		}
	}
}

func TestCheck_ScenarioMissingTargetWithSources(t *testing.T) {
	d := t.TempDir()
	src := filepath.Join(d, "src")
	for i, name := range []string{"A.java", "B.java", "C.java"} {
		touch(t, filepath.Join(src, name), int64(1000*(i+1)))
	}
	jar := filepath.Join(d, "dep.jar")
	touch(t, jar, 1000)

	v, err := IsStale(filepath.Join(d, "war", "app", "app.nocache.js"), []Input{DirInput(src), FileInput(jar)}, 0, MustFilter("**/*.java"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Stale {
		t.Fatalf("expected stale")
	}
}

func TestCheck_ScenarioUpToDate(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "app.nocache.js")
	src := filepath.Join(d, "src")
	jar := filepath.Join(d, "dep.jar")
	touch(t, target, 5000)
	touch(t, filepath.Join(src, "A.java"), 2000)
	touch(t, filepath.Join(src, "pkg", "B.java"), 4000)
	touch(t, jar, 3000)

	v, err := IsStale(target, []Input{DirInput(src), FileInput(jar)}, 0, MustFilter("**/*.java"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Stale {
		t.Fatalf("expected up to date, got %+v", v)
	}
}

func TestNewChecker_NegativeGranularity(t *testing.T) {
	if _, err := NewChecker(-1, nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}
