package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// bufferedFile is one tracked file: its on-disk identity plus an
// in-memory buffer that may diverge from disk until saved.
type bufferedFile struct {
	id      string
	relPath string
	content string
	dirty   bool
}

// FileStore is the workspace-backed File implementation. Files are
// tracked in open order; the most recently opened file is current.
type FileStore struct {
	workspacePath string

	mu      sync.Mutex
	files   []*bufferedFile
	current int // index into files, -1 when none open
	nextID  int
}

var _ File = (*FileStore)(nil)

// NewFileStore creates a file store rooted at the workspace.
func NewFileStore(workspacePath string) *FileStore {
	return &FileStore{
		workspacePath: workspacePath,
		current:       -1,
	}
}

// Open tracks a file and makes it current. Re-opening an already tracked
// file only switches the current pointer.
func (fs *FileStore) Open(ctx context.Context, path string) (OpenFile, error) {
	abs, rel, err := fs.resolve(path)
	if err != nil {
		return OpenFile{}, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i, f := range fs.files {
		if f.relPath == rel {
			fs.current = i
			return fs.describe(f), nil
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return OpenFile{}, fmt.Errorf("file not found: %s", path)
		}
		return OpenFile{}, fmt.Errorf("failed to read file: %w", err)
	}

	fs.nextID++
	f := &bufferedFile{
		id:      fmt.Sprintf("file-%d", fs.nextID),
		relPath: rel,
		content: string(data),
	}
	fs.files = append(fs.files, f)
	fs.current = len(fs.files) - 1
	return fs.describe(f), nil
}

// SetContent replaces the buffer of a tracked file and marks it dirty.
func (fs *FileStore) SetContent(path, content string) error {
	_, rel, err := fs.resolve(path)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, f := range fs.files {
		if f.relPath == rel {
			f.content = content
			f.dirty = true
			return nil
		}
	}
	return fmt.Errorf("file not open: %s", path)
}

// SaveCurrentFile writes the current file's buffer to disk.
func (fs *FileStore) SaveCurrentFile(ctx context.Context) (SaveResult, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.current < 0 || fs.current >= len(fs.files) {
		return SaveResult{}, errors.New("no file open")
	}

	f := fs.files[fs.current]
	if err := fs.flush(f); err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Path: f.relPath}, nil
}

// SaveAllFiles writes every dirty buffer to disk and reports how many
// files were written.
func (fs *FileStore) SaveAllFiles(ctx context.Context) (SaveAllResult, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	count := 0
	for _, f := range fs.files {
		if !f.dirty {
			continue
		}
		if err := fs.flush(f); err != nil {
			return SaveAllResult{Count: count}, err
		}
		count++
	}
	return SaveAllResult{Count: count}, nil
}

// OpenedFiles lists tracked files in open order.
func (fs *FileStore) OpenedFiles(ctx context.Context) ([]OpenFile, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make([]OpenFile, len(fs.files))
	for i, f := range fs.files {
		out[i] = fs.describe(f)
	}
	return out, nil
}

// CurrentPath returns the current file's workspace-relative path.
func (fs *FileStore) CurrentPath() (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.current < 0 || fs.current >= len(fs.files) {
		return "", false
	}
	return fs.files[fs.current].relPath, true
}

func (fs *FileStore) flush(f *bufferedFile) error {
	abs := filepath.Join(fs.workspacePath, f.relPath)
	if err := os.WriteFile(abs, []byte(f.content), 0644); err != nil {
		return fmt.Errorf("failed to save %s: %w", f.relPath, err)
	}
	f.dirty = false
	return nil
}

func (fs *FileStore) describe(f *bufferedFile) OpenFile {
	return OpenFile{
		ID:      f.id,
		Path:    f.relPath,
		Name:    filepath.Base(f.relPath),
		IsDirty: f.dirty,
	}
}

// resolve normalizes a path and ensures it stays inside the workspace.
func (fs *FileStore) resolve(path string) (abs, rel string, err error) {
	abs = path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(fs.workspacePath, abs)
	}
	abs = filepath.Clean(abs)

	if abs != fs.workspacePath && !strings.HasPrefix(abs, fs.workspacePath+string(filepath.Separator)) {
		return "", "", errors.New("file path must be within the workspace")
	}

	rel, err = filepath.Rel(fs.workspacePath, abs)
	if err != nil {
		return "", "", err
	}
	return abs, rel, nil
}
