package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/flarebyte/gwtbuild/internal/history"
	"github.com/flarebyte/gwtbuild/internal/stale"
	"github.com/flarebyte/gwtbuild/internal/step"
)

func init() { color.NoColor = true }

var sample = []step.Result{
	{Step: "compile", Target: "/w/app.nocache.js", Verdict: &stale.Verdict{Stale: true, Reasons: []string{"/src/A.java"}}},
	{Step: "generate-module", Target: "/out/App.gwt.xml", Verdict: &stale.Verdict{}},
}

func TestWriteResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, FormatText, sample); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	want := "compile: STALE  /w/app.nocache.js\n  - /src/A.java\ngenerate-module: UP-TO-DATE  /out/App.gwt.xml\n"
	if buf.String() != want {
		t.Fatalf("unexpected text\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestWriteResults_TextAfterRun(t *testing.T) {
	var buf bytes.Buffer
	results := []step.Result{
		{Step: "compile", Target: "/w/app.nocache.js", Ran: true, Verdict: &stale.Verdict{Stale: true, Reasons: []string{"/src/A.java"}}},
		{Step: "generate-module-metadata", Target: "/out/META-INF/gwt/mainModule", Ran: true},
		{Step: "generate-module", Skipped: true, Reason: "module generation skipped"},
	}
	if err := WriteResults(&buf, FormatText, results); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	want := "compile: REBUILT  /w/app.nocache.js\n  - /src/A.java\n" +
		"generate-module-metadata: DONE  /out/META-INF/gwt/mainModule\n" +
		"generate-module: SKIPPED\n"
	if buf.String() != want {
		t.Fatalf("unexpected text\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestWriteResults_YAMLCanonical(t *testing.T) {
	var b1, b2 bytes.Buffer
	if err := WriteResults(&b1, FormatYAML, sample); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if err := WriteResults(&b2, FormatYAML, sample); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if b1.String() != b2.String() {
		t.Fatalf("not rewrite-stable")
	}
	want := "- skipped: false\n  step: compile\n  target: /w/app.nocache.js\n  verdict:\n    reasons:\n      - /src/A.java\n    stale: true\n" +
		"- skipped: false\n  step: generate-module\n  target: /out/App.gwt.xml\n  verdict:\n    stale: false\n"
	if b1.String() != want {
		t.Fatalf("unexpected yaml\nwant:\n%s\ngot:\n%s", want, b1.String())
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, FormatJSON, sample); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	var got []step.Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || !got[0].Verdict.Stale || got[1].Verdict.Stale {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestWriteRuns_Text(t *testing.T) {
	var buf bytes.Buffer
	runs := []history.Run{
		{Step: "compile", StartedAt: time.Now(), DurationMs: 1200, Error: "GWT exited with status 1"},
		{Step: "generate-module", StartedAt: time.Now(), Skipped: true},
	}
	if err := WriteRuns(&buf, FormatText, runs); err != nil {
		t.Fatalf("WriteRuns: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "failed") || !strings.HasSuffix(lines[0], "GWT exited with status 1") {
		t.Fatalf("unexpected line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "skipped") {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestCheckFormat(t *testing.T) {
	if err := CheckFormat("xml"); err == nil {
		t.Fatalf("expected error")
	}
	if err := WriteResults(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Fatalf("expected error")
	}
}
