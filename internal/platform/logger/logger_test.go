package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

var fixedNow = func() time.Time { return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC) }

func TestLogger_TextFormat_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatText, App: "ranking", Writer: &buf, Now: fixedNow})

	l.Info("snapshot refreshed", map[string]any{"logs": 3, "skipped": 0})

	got := strings.TrimSpace(buf.String())
	want := `app=ranking level=info logs=3 msg="snapshot refreshed" skipped=0 ts=2025-12-22T10:00:00Z`
	if got != want {
		t.Fatalf("unexpected line\n got: %s\nwant: %s", got, want)
	}
}

func TestLogger_JSONFormat_WithFields(t *testing.T) {
	var buf bytes.Buffer
	root := New(Options{Level: Debug, Format: FormatJSON, Writer: &buf, Now: fixedNow})
	child := root.With(map[string]any{"component": "refresher", "": "ignored"})

	child.Debug("tick", map[string]any{"n": 1})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json: %v (%s)", err, buf.String())
	}
	if entry["component"] != "refresher" || entry["msg"] != "tick" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key should be dropped")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Writer: &buf, Now: fixedNow})

	l.Debug("no", nil)
	l.Info("no", nil)
	l.Warn("yes", nil)
	l.Error("yes", nil)

	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", n, buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if lvl, err := ParseLevel(" WARNING "); err != nil || lvl != Warn {
		t.Fatalf("expected warn, got %v %v", lvl, err)
	}
	if lvl, err := ParseLevel(""); err != nil || lvl != Info {
		t.Fatalf("expected info default, got %v %v", lvl, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("expected json, got %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNop(t *testing.T) {
	l := Nop().With(map[string]any{"a": 1})
	l.Error("nothing", nil)
}
