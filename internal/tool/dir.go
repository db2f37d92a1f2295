package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ListDirArgs represents the arguments for the list_dir tool.
type ListDirArgs struct {
	Path string `json:"path"`
}

// RegisterListDir registers the list_dir tool with the registry.
// The result is a plain array of entry names, directories marked with a
// trailing slash; the normalizer compacts it into a count summary.
func RegisterListDir(registry *Registry, workspacePath string) error {
	return registry.Register(Definition{
		Name:        "list_dir",
		Description: "List the contents of a directory in the workspace",
		Safe:        true,
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args ListDirArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}

			// Default to the workspace root if not specified
			if args.Path == "" {
				args.Path = "."
			}

			return listDir(workspacePath, args)
		},
	})
}

// listDir implements the directory listing logic.
func listDir(workspacePath string, args ListDirArgs) ([]string, error) {
	absPath, err := validatePath(workspacePath, args.Path)
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !fileInfo.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", args.Path)
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}

	// Directories first, then files, both alphabetically
	sort.Slice(names, func(i, j int) bool {
		iDir := names[i][len(names[i])-1] == '/'
		jDir := names[j][len(names[j])-1] == '/'
		if iDir != jDir {
			return iDir
		}
		return names[i] < names[j]
	})

	return names, nil
}
