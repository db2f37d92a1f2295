package indexer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitIgnore holds parsed .gitignore patterns. Negation patterns are not
// supported; a negated entry is ignored.
type GitIgnore struct {
	patterns []string
}

// LoadGitIgnore loads and parses the workspace .gitignore file. A missing
// file yields an empty matcher.
func LoadGitIgnore(workspacePath string) (*GitIgnore, error) {
	file, err := os.Open(filepath.Join(workspacePath, ".gitignore"))
	if err != nil {
		return &GitIgnore{}, nil
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}

	return &GitIgnore{patterns: patterns}, scanner.Err()
}

// MatchesPath reports whether a relative path matches any pattern.
func (gi *GitIgnore) MatchesPath(path string) bool {
	if gi == nil || len(gi.patterns) == 0 {
		return false
	}

	path = filepath.ToSlash(path)
	segments := strings.Split(path, "/")

	for _, pattern := range gi.patterns {
		if gi.matchPattern(pattern, path, segments) {
			return true
		}
	}
	return false
}

func (gi *GitIgnore) matchPattern(pattern, path string, segments []string) bool {
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	// Anchored patterns match from the workspace root.
	if strings.HasPrefix(pattern, "/") {
		pattern = strings.TrimPrefix(pattern, "/")
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		return strings.HasPrefix(path, pattern+"/")
	}

	// Unanchored patterns match any path segment.
	for _, segment := range segments {
		if ok, _ := filepath.Match(pattern, segment); ok {
			return true
		}
	}

	// Patterns containing slashes match against the whole path.
	if strings.Contains(pattern, "/") {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}

	return false
}
