package command

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"palette/capability"
	"palette/indexer"
)

// liveGrepRe recognizes the grep pseudo-command: the literal word "grep"
// followed by whitespace and a non-empty pattern. A bare "grep" does not
// match and falls through to normal resolution (where it fails as an
// unknown command).
var liveGrepRe = regexp.MustCompile(`^grep\s+(.+)$`)

// MatchLiveGrep reports whether a command body is a grep submission and
// returns the raw pattern text if so.
func MatchLiveGrep(body string) (string, bool) {
	m := liveGrepRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// GrepHit is one preview line for the live grep overlay.
type GrepHit struct {
	Path string
	Line int
	Text string
}

// GrepPreview scans indexed files for a pattern and returns up to limit
// hits. Files are visited in recency order so the freshest matches
// surface first; an invalid regex is retried as a literal string. The
// preview is best-effort and unranked beyond recency — the full search
// capability handles exhaustive results.
func GrepPreview(index *indexer.Index, pattern string, limit int) []GrepHit {
	if index == nil || strings.TrimSpace(pattern) == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = regexp.MustCompile(regexp.QuoteMeta(pattern))
	}

	var hits []GrepHit
	for _, relPath := range index.RecentFiles() {
		if len(hits) >= limit {
			break
		}
		hits = scanForPreview(index.WorkspacePath(), relPath, re, hits, limit)
	}
	return hits
}

// scanForPreview appends matches from a single file until the limit is
// reached. Unreadable files are skipped silently.
func scanForPreview(workspacePath, relPath string, re *regexp.Regexp, hits []GrepHit, limit int) []GrepHit {
	f, err := os.Open(filepath.Join(workspacePath, relPath))
	if err != nil {
		return hits
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if re.MatchString(text) {
			hits = append(hits, GrepHit{Path: relPath, Line: lineNum, Text: strings.TrimSpace(text)})
			if len(hits) >= limit {
				return hits
			}
		}
	}
	return hits
}

// formatSearchSummary renders a project search result for the transcript.
func formatSearchSummary(summary capability.SearchSummary) string {
	if summary.Count == 0 {
		return fmt.Sprintf("No matches for %q.", summary.Pattern)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d match(es) for %q:\n", summary.Count, summary.Pattern)
	shown := summary.Matches
	const maxShown = 50
	if len(shown) > maxShown {
		shown = shown[:maxShown]
	}
	for _, m := range shown {
		fmt.Fprintf(&b, "%s:%d: %s\n", m.Path, m.Line, m.Text)
	}
	if remaining := len(summary.Matches) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "… %d more\n", remaining)
	}
	return strings.TrimRight(b.String(), "\n")
}
