package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ReadFileArgs represents the arguments for the read_file tool.
type ReadFileArgs struct {
	Path   string `json:"path"`
	Offset int    `json:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	// IncludeLineNumbers controls whether to prefix each line with its
	// line number. Defaults to true.
	IncludeLineNumbers *bool `json:"include_line_numbers,omitempty"`
}

// ReadFileResult represents the result of the read_file tool.
type ReadFileResult struct {
	Content string `json:"content"`
	Lines   int    `json:"lines"`
	Path    string `json:"path"`
}

// RegisterReadFile registers the read_file tool with the registry.
func RegisterReadFile(registry *Registry, workspacePath string) error {
	return registry.Register(Definition{
		Name:        "read_file",
		Description: "Reads the content of a file in the workspace",
		Safe:        true,
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args ReadFileArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}

			return readFile(workspacePath, args)
		},
	})
}

// readFile implements the file reading logic.
func readFile(workspacePath string, args ReadFileArgs) (*ReadFileResult, error) {
	if args.Path == "" {
		return nil, errors.New("path is required")
	}

	path, err := validatePath(workspacePath, args.Path)
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", args.Path)
		}
		return nil, fmt.Errorf("failed to access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, errors.New("cannot read a directory, specify a file path")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentStr := string(content)
	totalLines := strings.Count(contentStr, "\n") + 1

	// Apply offset and limit if specified
	startLine := 1
	if args.Offset > 0 || args.Limit > 0 {
		contentLines := strings.Split(contentStr, "\n")

		start := 0
		if args.Offset > 0 {
			start = args.Offset
			if start >= len(contentLines) {
				return nil, fmt.Errorf("offset %d is beyond the file length (%d lines)", args.Offset, len(contentLines))
			}
		}
		startLine = start + 1

		end := len(contentLines)
		if args.Limit > 0 && start+args.Limit < end {
			end = start + args.Limit
		}

		contentStr = strings.Join(contentLines[start:end], "\n")
	}

	// Line numbers default on; the "N content" form matches the numbered
	// convention the diff summarizer recognizes.
	includeNumbers := true
	if args.IncludeLineNumbers != nil {
		includeNumbers = *args.IncludeLineNumbers
	}
	if includeNumbers {
		contentStr = addLineNumbers(contentStr, startLine)
	}

	return &ReadFileResult{
		Content: contentStr,
		Lines:   totalLines,
		Path:    args.Path,
	}, nil
}

// addLineNumbers prefixes each line with its 1-indexed line number.
func addLineNumbers(content string, startLine int) string {
	if startLine <= 0 {
		startLine = 1
	}
	lines := strings.Split(content, "\n")
	withNums := make([]string, len(lines))
	for i, line := range lines {
		withNums[i] = fmt.Sprintf("%d %s", startLine+i, line)
	}
	return strings.Join(withNums, "\n")
}
