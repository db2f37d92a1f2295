package normalize

import (
	"strings"
	"testing"
)

func TestSummarizeDiff_Positional(t *testing.T) {
	d := summarizeDiff("a\nb\nc", "a\nx\nc\nd")
	if len(d.removed) != 1 || d.removed[0] != "b" {
		t.Fatalf("expected removed [b], got %v", d.removed)
	}
	if len(d.added) != 2 || d.added[0] != "x" || d.added[1] != "d" {
		t.Fatalf("expected added [x d], got %v", d.added)
	}
	if d.renumbered {
		t.Fatalf("plain content must use positional comparison")
	}
}

func TestSummarizeDiff_NumberedContentSet(t *testing.T) {
	oldContent := "1 foo\n2 bar\n3 baz"
	newContent := "1 foo\n2 new\n3 bar\n4 baz"

	d := summarizeDiff(oldContent, newContent)
	if !d.renumbered {
		t.Fatalf("expected line-numbered detection")
	}
	if len(d.added) != 1 || d.added[0] != "new" {
		t.Fatalf("expected added [new], got %v", d.added)
	}
	if len(d.removed) != 0 {
		t.Fatalf("renumbered lines reported as removed: %v", d.removed)
	}
}

func TestSummarizeDiff_NumberedDuplicates(t *testing.T) {
	// Multiset comparison: dropping one of two identical lines is a
	// removal even though the other copy survives.
	d := summarizeDiff("1 dup\n2 dup", "1 dup")
	if len(d.removed) != 1 || d.removed[0] != "dup" {
		t.Fatalf("expected one dup removed, got %v", d.removed)
	}
}

func TestSummarizeDiff_RenumberedOnly(t *testing.T) {
	d := summarizeDiff("1 a\n2 b", "5 a\n6 b")
	if len(d.added) != 0 || len(d.removed) != 0 {
		t.Fatalf("pure renumbering must produce no changes, got +%v -%v", d.added, d.removed)
	}
}

func TestSummarizeDiff_MixedNumberingFallsBack(t *testing.T) {
	// One side not fully numbered: positional comparison applies.
	d := summarizeDiff("1 a\nplain", "1 a\nplain")
	if d.renumbered {
		t.Fatalf("partially numbered content must not use set comparison")
	}
	if len(d.added) != 0 || len(d.removed) != 0 {
		t.Fatalf("identical content produced changes: +%v -%v", d.added, d.removed)
	}
}

func TestSummarizeDiff_TrailingNewlineIgnored(t *testing.T) {
	d := summarizeDiff("a\nb\n", "a\nb")
	if len(d.added) != 0 || len(d.removed) != 0 {
		t.Fatalf("trailing newline must not count as a change: +%v -%v", d.added, d.removed)
	}
}

func TestRenderWriteReport_NoChanges(t *testing.T) {
	out := Normalize(map[string]interface{}{
		"filePath":        "same.txt",
		"success":         true,
		"originalContent": "a\nb",
		"newContent":      "a\nb",
	}, nil)
	if !strings.Contains(out, "No content changes") {
		t.Fatalf("expected explicit no-change note, got %q", out)
	}
}
