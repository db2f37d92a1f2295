package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindGitRootWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := findGitRoot(nested)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedGot, _ := filepath.EvalSymlinks(got)
	if resolvedGot != resolvedRoot {
		t.Fatalf("expected git root %s, got %s", resolvedRoot, resolvedGot)
	}
}

func TestFindGitRootWithoutRepo(t *testing.T) {
	dir := t.TempDir()
	if got := findGitRoot(dir); got != "" {
		t.Fatalf("expected empty result, got %s", got)
	}
}

func TestEnsureStateDir(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureStateDir(dir); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	info, err := os.Stat(StateDir(dir))
	if err != nil {
		t.Fatalf("state dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("state dir is not a directory")
	}

	// Idempotent on an existing directory.
	if err := EnsureStateDir(dir); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
}
