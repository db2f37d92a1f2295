package capability

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_SaveCurrentFile(t *testing.T) {
	workspace := t.TempDir()
	abs := filepath.Join(workspace, "a.txt")
	if err := os.WriteFile(abs, []byte("before"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileStore(workspace)
	if _, err := fs.Open(context.Background(), "a.txt"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.SetContent("a.txt", "after"); err != nil {
		t.Fatalf("set content: %v", err)
	}

	res, err := fs.SaveCurrentFile(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Path != "a.txt" {
		t.Fatalf("unexpected path: %q", res.Path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "after" {
		t.Fatalf("expected buffer flushed, got %q", data)
	}
}

func TestFileStore_SaveWithNothingOpen(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	if _, err := fs.SaveCurrentFile(context.Background()); err == nil {
		t.Fatalf("expected error with no file open")
	}
}

func TestFileStore_SaveAllCountsDirtyOnly(t *testing.T) {
	workspace := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(workspace, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	fs := NewFileStore(workspace)
	ctx := context.Background()
	if _, err := fs.Open(ctx, "a.txt"); err != nil {
		t.Fatalf("open a: %v", err)
	}
	if _, err := fs.Open(ctx, "b.txt"); err != nil {
		t.Fatalf("open b: %v", err)
	}
	if err := fs.SetContent("b.txt", "changed"); err != nil {
		t.Fatalf("set content: %v", err)
	}

	res, err := fs.SaveAllFiles(ctx)
	if err != nil {
		t.Fatalf("save all: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("expected 1 dirty file saved, got %d", res.Count)
	}
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	if _, err := fs.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatalf("expected path escape rejection")
	}
}

func TestFileStore_RejectsSiblingWithWorkspacePrefix(t *testing.T) {
	// A sibling directory whose name shares the workspace path as a
	// string prefix must not pass the containment check.
	parent := t.TempDir()
	workspace := filepath.Join(parent, "ws")
	sibling := filepath.Join(parent, "wsevil")
	for _, dir := range []string{workspace, sibling} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	secret := filepath.Join(sibling, "secret.txt")
	if err := os.WriteFile(secret, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileStore(workspace)
	if _, err := fs.Open(context.Background(), secret); err == nil {
		t.Fatalf("expected rejection of %s", secret)
	}
	if _, err := fs.Open(context.Background(), "../wsevil/secret.txt"); err == nil {
		t.Fatalf("expected rejection of relative sibling path")
	}
}

func TestFileStore_OpenedFilesTracksDirty(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileStore(workspace)
	ctx := context.Background()
	if _, err := fs.Open(ctx, "a.txt"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := fs.SetContent("a.txt", "y"); err != nil {
		t.Fatalf("set content: %v", err)
	}

	files, err := fs.OpenedFiles(ctx)
	if err != nil {
		t.Fatalf("opened files: %v", err)
	}
	if len(files) != 1 || !files[0].IsDirty {
		t.Fatalf("expected one dirty file, got %+v", files)
	}
	if !strings.HasPrefix(files[0].ID, "file-") {
		t.Fatalf("unexpected file id: %q", files[0].ID)
	}
}
