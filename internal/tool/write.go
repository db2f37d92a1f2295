package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileArgs represents the arguments for the write_file tool.
type WriteFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// WriteFileResult is the raw write-file result shape: file path, success
// flag, and the before/after content the normalizer summarizes into a
// diff.
type WriteFileResult struct {
	FilePath        string `json:"filePath"`
	Success         bool   `json:"success"`
	Created         bool   `json:"created"`
	OriginalContent string `json:"originalContent,omitempty"`
	NewContent      string `json:"newContent,omitempty"`
}

// RegisterWriteFile registers the write_file tool with the registry.
func RegisterWriteFile(registry *Registry, workspacePath string) error {
	return registry.Register(Definition{
		Name:        "write_file",
		Description: "Writes content to a file in the workspace, creating it if needed",
		Safe:        false,
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args WriteFileArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}

			return writeFile(workspacePath, args)
		},
	})
}

// writeFile implements the file writing logic.
func writeFile(workspacePath string, args WriteFileArgs) (*WriteFileResult, error) {
	if args.Path == "" {
		return nil, errors.New("path is required")
	}

	path, err := validatePath(workspacePath, args.Path)
	if err != nil {
		return nil, err
	}

	result := &WriteFileResult{
		FilePath:   args.Path,
		NewContent: args.Content,
	}

	// Capture the previous content so the result carries a before/after
	// pair for diff summarization
	if original, err := os.ReadFile(path); err == nil {
		result.OriginalContent = string(original)
	} else if os.IsNotExist(err) {
		result.Created = true
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return result, fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(args.Content), 0644); err != nil {
		return result, fmt.Errorf("failed to write file: %w", err)
	}

	result.Success = true
	return result, nil
}
