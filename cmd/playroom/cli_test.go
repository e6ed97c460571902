package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/playroom/internal/model"
	"github.com/sandeepkv93/playroom/internal/schedule"
)

func TestParseAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "", want: now},
		{raw: "07:45", want: time.Date(2024, 1, 1, 7, 45, 0, 0, time.UTC)},
		{raw: "2024-01-02T21:00:00Z", want: time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseAt(tt.raw, now)
		if err != nil {
			t.Fatalf("parseAt(%q): %v", tt.raw, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("parseAt(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
	if _, err := parseAt("7:45", now); err == nil {
		t.Fatal("expected error for unpadded clock")
	}
}

func TestPrintToday(t *testing.T) {
	var out bytes.Buffer
	now := time.Date(2024, 1, 2, 6, 30, 0, 0, time.UTC)
	printToday(&out, schedule.Project(model.DefaultEvents(), now))
	got := out.String()
	for _, want := range []string{"Tuesday 06:30", "future  16:30-17:30 Taekwondo", "now: Bedtime"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := &cli{}
	root := newRootCommand(c)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		t.Fatalf("playroom %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestOpenFailureReleasesLog(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYROOM_LOG_PATH", filepath.Join(dir, "playroom.log"))
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	c := &cli{dbPath: filepath.Join(blocker, "playroom.db")}
	if err := c.open(); err == nil {
		t.Fatal("expected open to fail for a database under a regular file")
	}
	if c.closeLog != nil || c.repo != nil || c.ws != nil {
		t.Fatalf("expected resources released after failed open, got %+v", c)
	}
}

func TestFailedCommandStillCloses(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYROOM_LOG_PATH", filepath.Join(dir, "playroom.log"))

	c := &cli{}
	root := newRootCommand(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--db", filepath.Join(dir, "playroom.db"), "import", filepath.Join(dir, "missing.yaml")})
	if err := root.Execute(); err == nil {
		t.Fatal("expected import of a missing file to fail")
	}
	if c.repo == nil || c.closeLog == nil {
		t.Fatal("expected resources open until close")
	}
	if err := c.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if c.repo != nil || c.closeLog != nil {
		t.Fatal("expected resources released")
	}
	if err := c.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYROOM_LOG_PATH", filepath.Join(dir, "playroom.log"))
	src := filepath.Join(dir, "source.db")
	dst := filepath.Join(dir, "copy.db")
	file := filepath.Join(dir, "schedule.yaml")

	out := runRoot(t, "--db", src, "export", file)
	if !strings.Contains(out, "exported 6 events") {
		t.Fatalf("unexpected export output: %q", out)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	doc, issues, err := model.DecodeDocument(data, model.FormatYAML)
	if err != nil || len(issues) != 0 || len(doc.Events) != 6 {
		t.Fatalf("unexpected exported document: events=%d issues=%v err=%v", len(doc.Events), issues, err)
	}

	out = runRoot(t, "--db", dst, "import", file)
	if !strings.Contains(out, "imported 6 events and 0 presets") {
		t.Fatalf("unexpected import output: %q", out)
	}

	out = runRoot(t, "--db", dst, "today", "--at", "07:45")
	if !strings.Contains(out, "now: Breakfast") {
		t.Fatalf("unexpected today output: %q", out)
	}
}

func TestImportReportsDroppedRecords(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLAYROOM_LOG_PATH", filepath.Join(dir, "playroom.log"))
	file := filepath.Join(dir, "events.json")
	payload := `[{"id":"a","title":"Snack","startTime":"10:00","endTime":"10:15","days":[1]},
{"id":"b","title":"Broken","startTime":"25:00","endTime":"10:15","days":[1]}]`
	if err := os.WriteFile(file, []byte(payload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	out := runRoot(t, "--db", filepath.Join(dir, "p.db"), "import", file)
	if !strings.Contains(out, "skipped events[1]") || !strings.Contains(out, "imported 1 events") {
		t.Fatalf("unexpected import output: %q", out)
	}
}
