package capability

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"palette/indexer"
)

func searcherOverFiles(t *testing.T, layout map[string]string) *Searcher {
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

	idx := indexer.NewIndex(workspace, 0)
	if err := idx.Build(); err != nil {
		t.Fatalf("build index: %v", err)
	}
	return NewSearcher(idx)
}

func TestSearchInProject_FindsMatchesInOrder(t *testing.T) {
	s := searcherOverFiles(t, map[string]string{
		"b.go": "package b\nfunc Hello() {}\n",
		"a.go": "package a\n// Hello there\nfunc Hello() {}\n",
	})

	summary, err := s.SearchInProject(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if summary.Count != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", summary.Count, summary.Matches)
	}
	if summary.Matches[0].Path != "a.go" || summary.Matches[0].Line != 2 {
		t.Fatalf("expected stable path/line ordering, got %+v", summary.Matches)
	}
}

func TestSearchInProject_InvalidRegexFallsBackToLiteral(t *testing.T) {
	s := searcherOverFiles(t, map[string]string{
		"a.txt": "price is $(total)\n",
	})

	summary, err := s.SearchInProject(context.Background(), "$(total")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if summary.Count != 1 {
		t.Fatalf("expected literal fallback match, got %d", summary.Count)
	}
}

func TestSearchInProject_EmptyPattern(t *testing.T) {
	s := searcherOverFiles(t, map[string]string{"a.txt": "x"})
	if _, err := s.SearchInProject(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty pattern")
	}
}

func TestShowSearchPanel(t *testing.T) {
	s := searcherOverFiles(t, map[string]string{"a.txt": "x"})

	if err := s.ShowSearchPanel(context.Background()); err == nil {
		t.Fatalf("expected unimplemented error without a panel hook")
	}

	shown := false
	s.OnShowPanel(func() { shown = true })
	if err := s.ShowSearchPanel(context.Background()); err != nil {
		t.Fatalf("show panel: %v", err)
	}
	if !shown {
		t.Fatalf("panel hook not invoked")
	}
}
