package tool

import (
	"errors"
	"path/filepath"
	"strings"
)

// validatePath resolves a possibly relative path and ensures it stays
// within the workspace.
func validatePath(workspacePath, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(workspacePath, abs)
	}
	abs = filepath.Clean(abs)

	if abs != workspacePath && !strings.HasPrefix(abs, workspacePath+string(filepath.Separator)) {
		return "", errors.New("path must be within the workspace")
	}
	return abs, nil
}
