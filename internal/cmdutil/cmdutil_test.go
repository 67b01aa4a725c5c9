package cmdutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kmertools/internal/pipeline"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "info", "json", false)
	if err != nil {
		t.Fatal(err)
	}
	Warnf(l, "bad base at %d", 3)
	l.Debug("hidden")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("want one JSON record, got %q", buf.String())
	}
	if rec["level"] != "WARN" || rec["msg"] != "bad base at 3" {
		t.Fatalf("record = %v", rec)
	}

	buf.Reset()
	// auto on a buffer (not a terminal) picks JSON
	l, _ = NewLogger(&buf, "debug", "auto", true)
	l.Warn("suppressed")
	l.Error("shown")
	if strings.Contains(buf.String(), "suppressed") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Fatalf("quiet output = %q", buf.String())
	}

	if _, err := NewLogger(&buf, "loud", "text", false); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := NewLogger(&buf, "info", "xml", false); err == nil {
		t.Fatal("expected format error")
	}
	if lvl, _ := ParseLevel("warn"); lvl != slog.LevelWarn {
		t.Fatalf("ParseLevel = %v", lvl)
	}
}

func TestProgressDisabledOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false)
	for i := 0; i < progressEvery*2; i++ {
		p.Add()
	}
	p.Done()
	if buf.Len() != 0 || p.Count() != progressEvery*2 {
		t.Fatalf("out=%q count=%d", buf.String(), p.Count())
	}
}

func TestProgressEnabled(t *testing.T) {
	var buf bytes.Buffer
	p := &Progress{w: &buf, enabled: true}
	for i := 0; i < progressEvery+5; i++ {
		p.Add()
	}
	p.Done()
	if got := buf.String(); got != "\rprocessed 10,000 sequences\rprocessed 10,005 sequences\n" {
		t.Fatalf("progress = %q", got)
	}
}

func TestRunStream(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fq")
	if err := os.WriteFile(fn, []byte("@a\nAC\n+\nII\n@b\nACG\n+\nIII\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []int
	p := NewProgress(&bytes.Buffer{}, true)
	n, err := RunStream(context.Background(), pipeline.Config{Threads: 2}, []string{fn}, p,
		func(it pipeline.Item) (int, error) { return len(it.Seq), nil },
		func(v int) error { got = append(got, v); return nil })
	if err != nil || n != 2 || got[0] != 2 || got[1] != 3 || p.Count() != 2 {
		t.Fatalf("n=%d got=%v err=%v", n, got, err)
	}
}
