package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"palette/capability"
	"palette/indexer"
)

func TestMatchLiveGrep(t *testing.T) {
	cases := []struct {
		body    string
		pattern string
		ok      bool
	}{
		{"grep TODO", "TODO", true},
		{"grep  foo bar", "foo bar", true},
		{"grep\tpattern", "pattern", true},
		{"grep", "", false},
		{"grepx foo", "", false},
		{"save", "", false},
	}

	for _, tc := range cases {
		pattern, ok := MatchLiveGrep(tc.body)
		if ok != tc.ok || pattern != tc.pattern {
			t.Fatalf("MatchLiveGrep(%q) = (%q, %v), want (%q, %v)", tc.body, pattern, ok, tc.pattern, tc.ok)
		}
	}
}

func TestGrepPreview_RecencyOrderAndLimit(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	fresh := filepath.Join(dir, "fresh.txt")
	if err := os.WriteFile(old, []byte("needle one\nneedle two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(fresh, []byte("needle three\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	idx := indexer.NewIndex(dir, 0)
	if err := idx.Build(); err != nil {
		t.Fatalf("build index: %v", err)
	}

	hits := GrepPreview(idx, "needle", 2)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Path != "fresh.txt" {
		t.Fatalf("freshest file should lead: %+v", hits)
	}
	if hits[1].Path != "old.txt" || hits[1].Line != 1 {
		t.Fatalf("unexpected second hit: %+v", hits[1])
	}
}

func TestGrepPreview_InvalidRegexFallsBackToLiteral(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("call(a+(x))\nplain\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	idx := indexer.NewIndex(dir, 0)
	if err := idx.Build(); err != nil {
		t.Fatalf("build index: %v", err)
	}

	// "a+(" does not compile as a regex; it should still match literally.
	hits := GrepPreview(idx, "a+(", 10)
	if len(hits) != 1 || hits[0].Line != 1 {
		t.Fatalf("literal fallback failed: %+v", hits)
	}
}

func TestGrepPreview_EmptyPatternOrNilIndex(t *testing.T) {
	if hits := GrepPreview(nil, "x", 10); hits != nil {
		t.Fatalf("nil index should produce no hits: %+v", hits)
	}

	dir := t.TempDir()
	idx := indexer.NewIndex(dir, 0)
	if err := idx.Build(); err != nil {
		t.Fatalf("build index: %v", err)
	}
	if hits := GrepPreview(idx, "   ", 10); hits != nil {
		t.Fatalf("blank pattern should produce no hits: %+v", hits)
	}
}

func TestFormatSearchSummary(t *testing.T) {
	empty := formatSearchSummary(capability.SearchSummary{Pattern: "nope"})
	if empty != `No matches for "nope".` {
		t.Fatalf("unexpected empty rendering: %q", empty)
	}

	out := formatSearchSummary(capability.SearchSummary{
		Pattern: "x",
		Count:   2,
		Matches: []capability.SearchMatch{
			{Path: "a.go", Line: 1, Text: "x := 1"},
			{Path: "b.go", Line: 9, Text: "x++"},
		},
	})
	for _, want := range []string{`2 match(es) for "x"`, "a.go:1: x := 1", "b.go:9: x++"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}
