// Package indexer maintains a lightweight index of workspace files: path,
// size and modification time. The index backs live-grep previews (ranked
// by recency) and project search, and stays fresh through an fsnotify
// watcher.
package indexer

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories never indexed. Mirrors the noise set excluded from
// directory-listing summaries, plus VCS internals.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"out":          true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
	".vscode":      true,
	".idea":        true,
	"tmp":          true,
	"temp":         true,
	".palette":     true,
}

// FileMeta represents metadata for a single indexed file
type FileMeta struct {
	RelativePath string    `json:"relative_path"`
	Size         int64     `json:"size"`
	ModTime      time.Time `json:"mod_time"`
}

// Index represents the workspace file index
type Index struct {
	workspacePath string
	maxFileSize   int64
	gitIgnore     *GitIgnore
	extraSkip     map[string]bool

	mu    sync.RWMutex
	files map[string]*FileMeta

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewIndex creates a new Index instance
func NewIndex(workspacePath string, maxFileSize int64) *Index {
	return &Index{
		workspacePath: workspacePath,
		maxFileSize:   maxFileSize,
		extraSkip:     make(map[string]bool),
		files:         make(map[string]*FileMeta),
		stopChan:      make(chan struct{}),
	}
}

// AddSkipDirs extends the excluded directory set with user-configured
// names. Call before Build or StartWatching.
func (idx *Index) AddSkipDirs(names ...string) {
	for _, name := range names {
		name = strings.TrimSuffix(strings.TrimSpace(name), "/")
		if name != "" {
			idx.extraSkip[name] = true
		}
	}
}

// WorkspacePath returns the indexed workspace root.
func (idx *Index) WorkspacePath() string {
	return idx.workspacePath
}

// Build performs a full scan of the workspace
func (idx *Index) Build() error {
	// Load .gitignore patterns; continue without them on failure
	gitIgnore, err := LoadGitIgnore(idx.workspacePath)
	if err != nil {
		gitIgnore = &GitIgnore{}
	}
	idx.gitIgnore = gitIgnore

	files := make(map[string]*FileMeta)

	err = filepath.Walk(idx.workspacePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		relPath, relErr := filepath.Rel(idx.workspacePath, path)
		if relErr != nil {
			return nil
		}

		if info.IsDir() {
			if idx.shouldSkipDirectory(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if idx.shouldSkipFile(relPath, info) {
			return nil
		}

		files[relPath] = &FileMeta{
			RelativePath: relPath,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	idx.mu.Lock()
	idx.files = files
	idx.mu.Unlock()
	return nil
}

// shouldSkipDirectory reports whether a directory subtree is excluded.
func (idx *Index) shouldSkipDirectory(relPath string) bool {
	if relPath == "." {
		return false
	}
	base := filepath.Base(relPath)
	if skipDirs[base] || idx.extraSkip[base] {
		return true
	}
	if strings.HasPrefix(base, ".") {
		return true
	}
	return idx.gitIgnore.MatchesPath(relPath)
}

// shouldSkipFile reports whether a single file is excluded.
func (idx *Index) shouldSkipFile(relPath string, info os.FileInfo) bool {
	base := filepath.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if idx.maxFileSize > 0 && info.Size() > idx.maxFileSize {
		return true
	}
	return idx.gitIgnore.MatchesPath(relPath)
}

// Files returns the indexed relative paths, sorted alphabetically.
func (idx *Index) Files() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	paths := make([]string, 0, len(idx.files))
	for path := range idx.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// RecentFiles returns the indexed paths ordered by modification time,
// newest first. Ties break alphabetically for stable output.
func (idx *Index) RecentFiles() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	metas := make([]*FileMeta, 0, len(idx.files))
	for _, meta := range idx.files {
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		if !metas[i].ModTime.Equal(metas[j].ModTime) {
			return metas[i].ModTime.After(metas[j].ModTime)
		}
		return metas[i].RelativePath < metas[j].RelativePath
	})

	paths := make([]string, len(metas))
	for i, meta := range metas {
		paths[i] = meta.RelativePath
	}
	return paths
}

// Meta returns the metadata for a relative path.
func (idx *Index) Meta(relPath string) (FileMeta, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	meta, ok := idx.files[relPath]
	if !ok {
		return FileMeta{}, false
	}
	return *meta, true
}

// Count returns the number of indexed files.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.files)
}

// StartWatching starts file system watching for incremental updates
func (idx *Index) StartWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	idx.watcher = watcher

	err = filepath.Walk(idx.workspacePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			relPath, _ := filepath.Rel(idx.workspacePath, path)
			if idx.shouldSkipDirectory(relPath) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	go idx.watchLoop()
	return nil
}

// StopWatching stops file system watching
func (idx *Index) StopWatching() {
	if idx.watcher != nil {
		close(idx.stopChan)
		idx.watcher.Close()
	}
}

// watchLoop batches file system events so a burst of writes triggers one
// index update.
func (idx *Index) watchLoop() {
	updateTimer := time.NewTimer(500 * time.Millisecond)
	updateTimer.Stop()
	pendingUpdates := make(map[string]bool)

	for {
		select {
		case event, ok := <-idx.watcher.Events:
			if !ok {
				return
			}

			relPath, err := filepath.Rel(idx.workspacePath, event.Name)
			if err != nil {
				continue
			}

			pendingUpdates[relPath] = true
			updateTimer.Stop()
			updateTimer.Reset(500 * time.Millisecond)

		case <-updateTimer.C:
			for relPath := range pendingUpdates {
				idx.updateFile(relPath)
			}
			pendingUpdates = make(map[string]bool)

		case _, ok := <-idx.watcher.Errors:
			if !ok {
				return
			}

		case <-idx.stopChan:
			return
		}
	}
}

// updateFile refreshes a single file entry after a watcher event.
func (idx *Index) updateFile(relPath string) {
	fullPath := filepath.Join(idx.workspacePath, relPath)
	info, err := os.Stat(fullPath)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if os.IsNotExist(err) {
		delete(idx.files, relPath)
		return
	}
	if err != nil || info.IsDir() {
		return
	}
	if idx.shouldSkipFile(relPath, info) {
		delete(idx.files, relPath)
		return
	}

	idx.files[relPath] = &FileMeta{
		RelativePath: relPath,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
	}
}
