package capability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// EditorHost is the Editor implementation for the terminal host. It
// operates on the file store's current file; formatting is supported for
// Go sources via gofmt.
type EditorHost struct {
	workspacePath string
	files         *FileStore
}

var _ Editor = (*EditorHost)(nil)

// NewEditorHost creates an editor host bound to a file store.
func NewEditorHost(workspacePath string, files *FileStore) *EditorHost {
	return &EditorHost{workspacePath: workspacePath, files: files}
}

// FormatDocument formats the current file in place and reports how many
// line insertions and deletions the formatter produced.
func (e *EditorHost) FormatDocument(ctx context.Context) (FormatResult, error) {
	rel, ok := e.files.CurrentPath()
	if !ok {
		return FormatResult{}, fmt.Errorf("no file open")
	}
	if !strings.HasSuffix(rel, ".go") {
		return FormatResult{}, fmt.Errorf("formatting not supported for %s", rel)
	}

	abs := filepath.Join(e.workspacePath, rel)
	original, err := os.ReadFile(abs)
	if err != nil {
		return FormatResult{}, fmt.Errorf("failed to read %s: %w", rel, err)
	}

	cmd := exec.CommandContext(ctx, "gofmt", abs)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		if errBuf.Len() > 0 {
			return FormatResult{}, fmt.Errorf("gofmt: %s", strings.TrimSpace(errBuf.String()))
		}
		return FormatResult{}, fmt.Errorf("gofmt: %w", err)
	}

	formatted := out.Bytes()
	result := FormatResult{Path: rel}
	if bytes.Equal(original, formatted) {
		return result, nil
	}

	// Count changed lines via a line-mode diff
	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(string(original), string(formatted))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)
	for _, d := range diffs {
		lines := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			result.Insertions += lines
		case diffmatchpatch.DiffDelete:
			result.Deletions += lines
		}
	}

	if err := os.WriteFile(abs, formatted, 0644); err != nil {
		return FormatResult{}, fmt.Errorf("failed to write %s: %w", rel, err)
	}
	result.Changed = true
	return result, nil
}

// ExecuteAction dispatches a named editor action. The terminal host has
// no action surface.
func (e *EditorHost) ExecuteAction(ctx context.Context, actionID string) error {
	return unimplemented(fmt.Sprintf("editor action %q", actionID))
}
