package main

import (
	"path/filepath"
	"testing"

	"firevalid/internal/report"
)

func TestNewWriterStdoutOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, err := newWriter("", false, false)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	if _, ok := w.(*report.StdoutWriter); !ok {
		t.Fatalf("expected *report.StdoutWriter, got %T", w)
	}
}

func TestNewWriterQuietFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "metrics.json")
	w, err := newWriter(path, true, false)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	if _, ok := w.(*report.FileWriter); !ok {
		t.Fatalf("expected *report.FileWriter, got %T", w)
	}
}

func TestNewWriterQuietTUI(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, err := newWriter("", true, true)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	if _, ok := w.(*report.TUIWriter); !ok {
		t.Fatalf("expected *report.TUIWriter, got %T", w)
	}
}

func TestNewWriterFanout(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "metrics.json")
	w, err := newWriter(path, false, false)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	mw, ok := w.(*report.MultiWriter)
	if !ok {
		t.Fatalf("expected *report.MultiWriter, got %T", w)
	}
	if err := mw.WriteSummary(report.Summary{Case: "c1"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	info, err := filepath.Glob(path)
	if err != nil || len(info) != 1 {
		t.Fatalf("expected metrics file at %q", path)
	}
}

func TestNewWriterQuietEmpty(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, err := newWriter("", true, false)
	if err != nil {
		t.Fatalf("newWriter returned error: %v", err)
	}
	mw, ok := w.(*report.MultiWriter)
	if !ok {
		t.Fatalf("expected empty *report.MultiWriter, got %T", w)
	}
	if err := mw.WriteSummary(report.Summary{}); err != nil {
		t.Fatalf("no-op writer returned error: %v", err)
	}
}
