package tool

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SearchCodeArgs describes a code search.
type SearchCodeArgs struct {
	// Pattern is a regular expression; invalid patterns are matched
	// literally.
	Pattern string `json:"pattern"`
	// Path restricts the search to a subdirectory of the workspace.
	Path string `json:"path,omitempty"`
	// MaxResults caps the match count. Defaults to 100.
	MaxResults int `json:"max_results,omitempty"`
}

// SearchCodeMatch is one matching line.
type SearchCodeMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SearchCodeResult is the raw search result shape.
type SearchCodeResult struct {
	Pattern string            `json:"pattern"`
	Count   int               `json:"count"`
	Matches []SearchCodeMatch `json:"matches"`
}

// Directories skipped during a search walk.
var searchSkipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"out":          true,
	".palette":     true,
}

// RegisterSearchCode registers the search_code tool.
func RegisterSearchCode(registry *Registry, workspacePath string) error {
	return registry.Register(Definition{
		Name:        "search_code",
		Description: "Search workspace files for a pattern. Returns matching lines with locations.",
		Safe:        true,
		Handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args SearchCodeArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("failed to parse arguments: %w", err)
			}
			return searchCode(ctx, workspacePath, args)
		},
	})
}

func searchCode(ctx context.Context, workspacePath string, args SearchCodeArgs) (*SearchCodeResult, error) {
	if strings.TrimSpace(args.Pattern) == "" {
		return nil, errors.New("pattern is required")
	}

	re, err := regexp.Compile(args.Pattern)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(args.Pattern))
	}

	root := workspacePath
	if args.Path != "" {
		root, err = validatePath(workspacePath, args.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	result := &SearchCodeResult{Pattern: args.Pattern, Matches: []SearchCodeMatch{}}

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if searchSkipDirs[base] || (base != filepath.Base(root) && strings.HasPrefix(base, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") {
			return nil
		}
		if len(result.Matches) >= maxResults {
			return filepath.SkipAll
		}

		rel, relErr := filepath.Rel(workspacePath, path)
		if relErr != nil {
			return nil
		}
		appendFileMatches(path, rel, re, result, maxResults)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Count = len(result.Matches)
	return result, nil
}

func appendFileMatches(absPath, relPath string, re *regexp.Regexp, result *SearchCodeResult, maxResults int) {
	f, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if re.MatchString(line) {
			result.Matches = append(result.Matches, SearchCodeMatch{
				Path: relPath,
				Line: lineNo,
				Text: strings.TrimSpace(line),
			})
			if len(result.Matches) >= maxResults {
				return
			}
		}
	}
}
