package step

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/flarebyte/gwtbuild/internal/config"
	"github.com/flarebyte/gwtbuild/internal/testutil"
)

type call struct {
	classpath []string
	args      []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Command(args []string) []string {
	return append([]string{"java"}, args...)
}

func (f *fakeRunner) Execute(_ context.Context, classpath, args []string) error {
	f.calls = append(f.calls, call{classpath: classpath, args: args})
	return f.err
}

type recorded struct {
	res    Result
	runErr error
}

type fakeRecorder struct{ runs []recorded }

func (f *fakeRecorder) RecordResult(res Result, _ time.Time, _ time.Duration, runErr error) error {
	f.runs = append(f.runs, recorded{res: res, runErr: runErr})
	return nil
}

// stageProject copies the fixture project into a temp dir and loads it.
func stageProject(t *testing.T) (*config.Project, *fakeRunner, *Context) {
	t.Helper()
	dst := filepath.Join(t.TempDir(), "project")
	if err := testutil.CopyTree(filepath.Join("testdata", "project"), dst); err != nil {
		t.Fatalf("copy fixture: %v", err)
	}
	p, err := config.Load(filepath.Join(dst, "gwt.cue"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := &fakeRunner{}
	return p, r, NewContext(p, nil, r)
}

// ageTree sets the mtime of every file under dir to ms milliseconds after the epoch.
func ageTree(t *testing.T, dir string, ms int64) {
	t.Helper()
	if err := testutil.SetTreeMtime(dir, time.UnixMilli(ms)); err != nil {
		t.Fatalf("age tree: %v", err)
	}
}

func touch(t *testing.T, path string, ms int64) {
	t.Helper()
	if err := testutil.WriteFileAt(path, "x", time.UnixMilli(ms)); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
