package normalize

import (
	"regexp"
	"strings"
)

// diffSummary is a bounded line-level comparison of a file before and
// after a write.
type diffSummary struct {
	added      []string
	removed    []string
	renumbered bool // both sides were line-number-prefixed; sets compared
}

// Matches a line rendered with a leading line number, e.g. "12  foo()".
var numberedLineRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)

// summarizeDiff compares old and new content line by line.
//
// When every line on both sides carries a line-number prefix the content
// came from a numbered file view: inserting one line renumbers everything
// after it, so a positional comparison would report the whole file as
// rewritten. In that case the numbers are stripped and the content is
// compared as multisets, surfacing only genuinely added or removed lines.
func summarizeDiff(oldContent, newContent string) diffSummary {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	if allNumbered(oldLines) && allNumbered(newLines) {
		return diffSummary{
			added:      setDifference(stripNumbers(newLines), stripNumbers(oldLines)),
			removed:    setDifference(stripNumbers(oldLines), stripNumbers(newLines)),
			renumbered: true,
		}
	}

	// Positional comparison: line i against line i, tail counts whole.
	var d diffSummary
	n := len(oldLines)
	if len(newLines) > n {
		n = len(newLines)
	}
	for i := 0; i < n; i++ {
		var oldLine, newLine string
		hasOld := i < len(oldLines)
		hasNew := i < len(newLines)
		if hasOld {
			oldLine = oldLines[i]
		}
		if hasNew {
			newLine = newLines[i]
		}
		if hasOld && hasNew && oldLine == newLine {
			continue
		}
		if hasOld {
			d.removed = append(d.removed, oldLine)
		}
		if hasNew {
			d.added = append(d.added, newLine)
		}
	}
	return d
}

func splitLines(content string) []string {
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func allNumbered(lines []string) bool {
	for _, line := range lines {
		if !numberedLineRe.MatchString(line) {
			return false
		}
	}
	return len(lines) > 0
}

func stripNumbers(lines []string) []string {
	stripped := make([]string, len(lines))
	for i, line := range lines {
		m := numberedLineRe.FindStringSubmatch(line)
		stripped[i] = m[2]
	}
	return stripped
}

// setDifference returns the lines of a that exceed their multiplicity in
// b, in a's order.
func setDifference(a, b []string) []string {
	counts := make(map[string]int, len(b))
	for _, line := range b {
		counts[line]++
	}

	var diff []string
	for _, line := range a {
		if counts[line] > 0 {
			counts[line]--
			continue
		}
		diff = append(diff, line)
	}
	return diff
}
