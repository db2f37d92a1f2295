package workspace

import (
	"os"
	"path/filepath"
)

// StateDirName is the per-workspace directory palette keeps its state in.
const StateDirName = ".palette"

// Detect detects the workspace root directory.
// It tries to find the Git repository root, otherwise uses the current directory.
func Detect() (string, error) {
	// Get current working directory
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Try to find Git repository root
	gitRoot := findGitRoot(pwd)
	if gitRoot != "" {
		return gitRoot, nil
	}

	// If no Git repository found, use current directory
	return pwd, nil
}

// findGitRoot walks up the directory tree looking for a .git directory
func findGitRoot(startPath string) string {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			return currentPath
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			// Reached the root directory
			break
		}
		currentPath = parentPath
	}

	return ""
}

// StateDir returns the workspace state directory path.
func StateDir(workspacePath string) string {
	return filepath.Join(workspacePath, StateDirName)
}

// EnsureStateDir creates the .palette directory if it doesn't exist.
func EnsureStateDir(workspacePath string) error {
	dir := StateDir(workspacePath)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
