package capability

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"palette/indexer"
)

// searchWorkers bounds the concurrent file scans during a project search.
const searchWorkers = 8

// Searcher is the Search implementation backed by the workspace index.
type Searcher struct {
	index *indexer.Index

	// showPanel is invoked by ShowSearchPanel; the TUI installs a hook,
	// headless hosts leave it nil.
	showPanel func()
}

var _ Search = (*Searcher)(nil)

// NewSearcher creates a searcher over an index.
func NewSearcher(index *indexer.Index) *Searcher {
	return &Searcher{index: index}
}

// OnShowPanel installs the hook invoked by ShowSearchPanel.
func (s *Searcher) OnShowPanel(fn func()) {
	s.showPanel = fn
}

// SearchInProject scans every indexed file for the pattern and returns
// the matches. Files are scanned concurrently; match order is stable
// (path, then line).
func (s *Searcher) SearchInProject(ctx context.Context, pattern string) (SearchSummary, error) {
	if pattern == "" {
		return SearchSummary{}, fmt.Errorf("search pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// Fall back to a literal match for patterns that are not valid
		// regular expressions
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}

	files := s.index.Files()
	workspacePath := s.index.WorkspacePath()

	var mu sync.Mutex
	var matches []SearchMatch

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(searchWorkers)

	for _, rel := range files {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fileMatches, err := scanFile(filepath.Join(workspacePath, rel), rel, re)
			if err != nil {
				return nil // unreadable files are skipped, not fatal
			}
			if len(fileMatches) > 0 {
				mu.Lock()
				matches = append(matches, fileMatches...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchSummary{}, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})

	return SearchSummary{Pattern: pattern, Count: len(matches), Matches: matches}, nil
}

// ShowSearchPanel reveals the host's search panel, when one exists.
func (s *Searcher) ShowSearchPanel(ctx context.Context) error {
	if s.showPanel == nil {
		return unimplemented("search panel")
	}
	s.showPanel()
	return nil
}

// scanFile collects the matching lines of a single file.
func scanFile(absPath, relPath string, re *regexp.Regexp) ([]SearchMatch, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []SearchMatch
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, SearchMatch{Path: relPath, Line: lineNo, Text: line})
		}
	}
	return matches, scanner.Err()
}
