package indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func buildTestIndex(t *testing.T, layout map[string]string) *Index {
	t.Helper()
	workspace := t.TempDir()
	for rel, content := range layout {
		abs := filepath.Join(workspace, rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	idx := NewIndex(workspace, 0)
	if err := idx.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return idx
}

func TestBuild_SkipsNoiseDirectories(t *testing.T) {
	idx := buildTestIndex(t, map[string]string{
		"main.go":                   "package main",
		"node_modules/pkg/index.js": "x",
		"dist/bundle.js":            "x",
		".palette/config.json":      "{}",
	})

	files := idx.Files()
	if len(files) != 1 || files[0] != "main.go" {
		t.Fatalf("expected only main.go indexed, got %v", files)
	}
}

func TestBuild_SkipsConfiguredExtraDirectories(t *testing.T) {
	workspace := t.TempDir()
	for rel, content := range map[string]string{
		"main.go":          "package main",
		"generated/gen.go": "package generated",
		"cache/blob.bin":   "x",
	} {
		abs := filepath.Join(workspace, rel)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	idx := NewIndex(workspace, 0)
	idx.AddSkipDirs("generated", "cache/")
	if err := idx.Build(); err != nil {
		t.Fatalf("build: %v", err)
	}

	files := idx.Files()
	if len(files) != 1 || files[0] != "main.go" {
		t.Fatalf("expected only main.go indexed, got %v", files)
	}
}

func TestBuild_RespectsGitignore(t *testing.T) {
	idx := buildTestIndex(t, map[string]string{
		".gitignore":     "*.log\nvendor/\n",
		"app.go":         "package app",
		"trace.log":      "noise",
		"vendor/lib.go":  "package lib",
		"docs/notes.txt": "keep",
	})

	files := idx.Files()
	for _, f := range files {
		if f == "trace.log" || f == "vendor/lib.go" {
			t.Fatalf("ignored file indexed: %s (all: %v)", f, files)
		}
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
}

func TestRecentFiles_OrderedByModTime(t *testing.T) {
	idx := buildTestIndex(t, map[string]string{
		"old.go": "a",
		"new.go": "b",
	})

	// Force distinct, known mod times
	now := time.Now()
	if err := os.Chtimes(filepath.Join(idx.WorkspacePath(), "old.go"), now.Add(-time.Hour), now.Add(-time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(filepath.Join(idx.WorkspacePath(), "new.go"), now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := idx.Build(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	recent := idx.RecentFiles()
	if len(recent) != 2 || recent[0] != "new.go" {
		t.Fatalf("expected new.go first, got %v", recent)
	}
}

func TestUpdateFile_RemovesDeleted(t *testing.T) {
	idx := buildTestIndex(t, map[string]string{"gone.txt": "x"})

	if err := os.Remove(filepath.Join(idx.WorkspacePath(), "gone.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	idx.updateFile("gone.txt")

	if idx.Count() != 0 {
		t.Fatalf("expected empty index, got %v", idx.Files())
	}
}
