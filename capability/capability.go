// Package capability defines the typed operation groups the command
// interpreter dispatches into. Each group is a small interface with a
// fixed method set; implementations return explicit errors and never
// panic across the boundary. The interpreter inspects nothing beyond the
// returned values and the error.
package capability

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotImplemented marks operations that exist in the surface but have
// no backing implementation yet. Callers display it like any other error.
var ErrNotImplemented = errors.New("not implemented")

// OpenFile describes a file tracked by the file store.
type OpenFile struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	IsDirty bool   `json:"is_dirty"`
}

// SaveResult reports a completed save.
type SaveResult struct {
	Path string `json:"path"`
}

// SaveAllResult reports how many files a save-all touched.
type SaveAllResult struct {
	Count int `json:"count"`
}

// File exposes file-store operations.
type File interface {
	// Open tracks a file and makes it the current one.
	Open(ctx context.Context, path string) (OpenFile, error)
	// SaveCurrentFile writes the current file's buffer to disk.
	SaveCurrentFile(ctx context.Context) (SaveResult, error)
	// SaveAllFiles writes every dirty buffer to disk.
	SaveAllFiles(ctx context.Context) (SaveAllResult, error)
	// OpenedFiles lists tracked files in open order.
	OpenedFiles(ctx context.Context) ([]OpenFile, error)
}

// FormatResult reports what a formatting pass changed.
type FormatResult struct {
	Path       string `json:"path"`
	Changed    bool   `json:"changed"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// Editor exposes editor-host operations.
type Editor interface {
	FormatDocument(ctx context.Context) (FormatResult, error)
	ExecuteAction(ctx context.Context, actionID string) error
}

// SearchMatch is a single line hit.
type SearchMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SearchSummary reports a project-wide search.
type SearchSummary struct {
	Pattern string        `json:"pattern"`
	Count   int           `json:"count"`
	Matches []SearchMatch `json:"matches"`
}

// Search exposes project search operations.
type Search interface {
	SearchInProject(ctx context.Context, pattern string) (SearchSummary, error)
	ShowSearchPanel(ctx context.Context) error
}

// BuildResult reports a build invocation.
type BuildResult struct {
	Target   string `json:"target"`
	Command  string `json:"command"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Build exposes build operations.
type Build interface {
	ExecuteBuild(ctx context.Context, target string) (BuildResult, error)
	// ShowBuildOutput has no backing surface in the terminal host and
	// fails explicitly.
	ShowBuildOutput(ctx context.Context) error
}

// Settings exposes settings mutation. Unimplemented in this host; Set
// fails explicitly rather than silently dropping the value.
type Settings interface {
	Set(ctx context.Context, key, value string) error
}

// GitStatus summarizes the workspace repository state.
type GitStatus struct {
	Branch    string `json:"branch"`
	Staged    int    `json:"staged"`
	Modified  int    `json:"modified"`
	Untracked int    `json:"untracked"`
	IsClean   bool   `json:"is_clean"`
}

// Git exposes repository inspection.
type Git interface {
	Status(ctx context.Context) (GitStatus, error)
}

// Set bundles one implementation of every capability group. A fresh Set
// is handed to the interpreter per invocation; the interpreter holds no
// state of its own.
type Set struct {
	File     File
	Editor   Editor
	Search   Search
	Build    Build
	Settings Settings
	Git      Git
}

// unimplemented provides a uniform error for stubbed operations.
func unimplemented(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNotImplemented)
}
