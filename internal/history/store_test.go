package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/flarebyte/gwtbuild/internal/gwt"
	"github.com/flarebyte/gwtbuild/internal/stale"
	"github.com/flarebyte/gwtbuild/internal/step"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndListNewestFirst(t *testing.T) {
	s := openStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"compile", "generate-module", "compile"} {
		if err := s.Record(&Run{Step: name, StartedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	all, err := s.List("", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || !all[0].StartedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("ids must be assigned and unique")
	}
	compiles, err := s.List("compile", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(compiles) != 1 || compiles[0].Step != "compile" || !compiles[0].StartedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected filtered list: %+v", compiles)
	}
}

func TestStore_RecordResult(t *testing.T) {
	s := openStore(t)
	res := step.Result{
		Step:    "compile",
		Target:  "/w/app.nocache.js",
		Verdict: &stale.Verdict{Stale: true, Reasons: []string{"/src/A.java", "/src/B.java"}},
		Command: []string{"java", "com.google.gwt.dev.Compiler", "a.B"},
	}
	started := time.Now()
	if err := s.RecordResult(res, started, 1500*time.Millisecond, &gwt.ExitError{Code: 4}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	runs, err := s.List("compile", 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("List: %v %v", runs, err)
	}
	r := runs[0]
	if !r.Stale || r.Reasons != "/src/A.java\n/src/B.java" || r.ExitCode != 4 || r.DurationMs != 1500 {
		t.Fatalf("unexpected run: %+v", r)
	}
	if r.CommandHash != CommandHash(res.Command) || r.Error != "GWT exited with status 4" {
		t.Fatalf("unexpected run: %+v", r)
	}

	if err := s.RecordResult(step.Result{Step: "devmode"}, started, 0, errors.New("boom")); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	runs, _ = s.List("devmode", 0)
	if len(runs) != 1 || runs[0].ExitCode != -1 {
		t.Fatalf("unexpected devmode run: %+v", runs)
	}
}

func TestCommandHash(t *testing.T) {
	a := CommandHash([]string{"java", "-Da=b c"})
	b := CommandHash([]string{"java", "-Da=b", "c"})
	if a == b {
		t.Fatalf("argument boundaries must change the hash")
	}
	if a != CommandHash([]string{"java", "-Da=b c"}) {
		t.Fatalf("hash must be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %d chars", len(a))
	}
}

func TestOpen_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	junk := strings.Repeat("not a sqlite database\n", 64)
	if err := os.WriteFile(path, []byte(junk), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err == nil {
		_ = s.Close()
		t.Fatalf("expected error opening a non-database file")
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the database: %v", err)
	}
}
