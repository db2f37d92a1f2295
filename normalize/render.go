package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// render produces the Markdown for a classified variant. Every variant
// type must be handled here; the default arm only fires if decode and
// render fall out of sync.
func render(v variant) string {
	switch t := v.(type) {
	case plainText:
		return t.text
	case fileReadSummary:
		return renderFileRead(t)
	case dirSummary:
		return renderDirSummary(t)
	case emptyList:
		return "No results."
	case pathList:
		return renderPathList(t)
	case mixedList:
		return renderMixedList(t)
	case valueList:
		return renderValueList(t)
	case writeReport:
		return renderWriteReport(t)
	case shellReport:
		return renderShellReport(t)
	case genericObject:
		return renderGenericObject(t)
	case opaque:
		return renderOpaque(t.raw)
	default:
		return renderOpaque(v)
	}
}

// renderFileRead summarizes file content in one line instead of echoing
// it into the transcript.
func renderFileRead(r fileReadSummary) string {
	path := r.path
	if path == "" {
		path = "file"
	}
	return fmt.Sprintf("Read %s (%d lines, %.1f KB)", path, r.lines, float64(r.bytes)/1024)
}

func renderDirSummary(d dirSummary) string {
	path := d.path
	if path == "" {
		path = "directory"
	}

	// A listing whose entry count is unknown (raw string result).
	if d.total < 0 {
		return fmt.Sprintf("Listed %s", path)
	}

	if !d.split {
		return fmt.Sprintf("%d files/directories listed", d.total)
	}

	out := fmt.Sprintf("Listed %s: %d %s, %d %s",
		path,
		d.files, plural(d.files, "file", "files"),
		d.dirs, plural(d.dirs, "directory", "directories"))
	if d.skipped > 0 {
		out += fmt.Sprintf(" (%d noise %s skipped)", d.skipped, plural(d.skipped, "directory", "directories"))
	}
	return out
}

// renderPathList is the legacy "generated files" rendering.
func renderPathList(p pathList) string {
	var b strings.Builder
	b.WriteString("Generated files:\n")
	for _, path := range p.paths {
		fmt.Fprintf(&b, "- `%s`\n", path)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMixedList(m mixedList) string {
	return fmt.Sprintf("%d items:\n%s", len(m.raw), renderOpaque(m.raw))
}

func renderValueList(l valueList) string {
	parts := make([]string, len(l.items))
	for i, item := range l.items {
		parts[i] = render(item)
	}
	return strings.Join(parts, "\n\n")
}

func renderWriteReport(w writeReport) string {
	var b strings.Builder
	if w.success {
		fmt.Fprintf(&b, "✅ Wrote `%s`", w.path)
	} else {
		fmt.Fprintf(&b, "❌ Failed to write `%s`", w.path)
	}

	if w.diff == nil {
		return b.String()
	}

	b.WriteString("\n")
	if len(w.diff.added) == 0 && len(w.diff.removed) == 0 {
		if w.diff.renumbered {
			b.WriteString("\nNo content changes (lines renumbered only).")
		} else {
			b.WriteString("\nNo content changes.")
		}
		return b.String()
	}

	if len(w.diff.added) > 0 {
		fmt.Fprintf(&b, "\nAdded (%d):\n", len(w.diff.added))
		writeDiffSection(&b, w.diff.added, "+")
	}
	if len(w.diff.removed) > 0 {
		fmt.Fprintf(&b, "\nRemoved (%d):\n", len(w.diff.removed))
		writeDiffSection(&b, w.diff.removed, "-")
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeDiffSection emits at most diffSectionLimit lines plus an overflow
// marker so a large rewrite cannot flood the transcript.
func writeDiffSection(b *strings.Builder, lines []string, sign string) {
	shown := lines
	if len(shown) > diffSectionLimit {
		shown = shown[:diffSectionLimit]
	}
	for _, line := range shown {
		fmt.Fprintf(b, "%s %s\n", sign, line)
	}
	if rest := len(lines) - len(shown); rest > 0 {
		fmt.Fprintf(b, "… %d more\n", rest)
	}
}

func renderShellReport(s shellReport) string {
	var b strings.Builder
	if s.command != "" {
		fmt.Fprintf(&b, "$ %s\n", s.command)
	}

	stdout := strings.TrimRight(s.stdout, "\n")
	stderr := strings.TrimRight(s.stderr, "\n")

	if stdout != "" {
		lines := strings.Count(stdout, "\n") + 1
		if lines > stdoutNoteLines {
			fmt.Fprintf(&b, "\nOutput (%d lines):\n", lines)
		} else {
			b.WriteString("\nOutput:\n")
		}
		fmt.Fprintf(&b, "```\n%s\n```\n", stdout)
	}
	if stderr != "" {
		fmt.Fprintf(&b, "\nErrors:\n```\n%s\n```\n", stderr)
	}

	// An empty result is still a result: say so instead of rendering a
	// blank section.
	if stdout == "" && stderr == "" && (!s.hasExitCode || s.exitCode == 0) {
		b.WriteString("\nCommand produced no output.\n")
	}

	if s.hasExitCode {
		glyph := "✅"
		if s.exitCode != 0 {
			glyph = "❌"
		}
		fmt.Fprintf(&b, "\n%s Exit code: %d", glyph, s.exitCode)
		if s.hasDuration {
			fmt.Fprintf(&b, " (%dms)", s.durationMs)
		}
		b.WriteString("\n")
	} else if s.hasDuration {
		fmt.Fprintf(&b, "\nElapsed: %dms\n", s.durationMs)
	}

	return strings.TrimSpace(b.String())
}

// Keys rendered as dedicated sections, in display order. Anything else
// lands in the key/value appendix.
var genericSectionKeys = []string{"success", "path", "paths", "files", "error", "message", "content"}

func renderGenericObject(g genericObject) string {
	var b strings.Builder

	if success, ok := boolField(g.fields, "success"); ok {
		if success {
			b.WriteString("✅ Success\n")
		} else {
			b.WriteString("❌ Failed\n")
		}
	}
	if path, ok := stringField(g.fields, "path"); ok {
		fmt.Fprintf(&b, "\n**Path:** `%s`\n", path)
	}
	writeStringListSection(&b, g.fields, "paths", "Paths")
	writeStringListSection(&b, g.fields, "files", "Files")
	if errMsg, ok := stringField(g.fields, "error"); ok && errMsg != "" {
		fmt.Fprintf(&b, "\n❌ Error: %s\n", errMsg)
	}
	if msg, ok := stringField(g.fields, "message"); ok && msg != "" {
		fmt.Fprintf(&b, "\n%s\n", msg)
	}
	if content, ok := stringField(g.fields, "content"); ok && content != "" {
		writeContentSection(&b, content)
	}

	// Appendix: remaining keys, sorted for stable output.
	known := make(map[string]bool, len(genericSectionKeys))
	for _, key := range genericSectionKeys {
		known[key] = true
	}
	var rest []string
	for key := range g.fields {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(&b, "\n**%s:** %s\n", key, compactJSON(g.fields[key]))
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return renderOpaque(g.fields)
	}
	return out
}

// writeContentSection renders a bounded preview of a content field. Long
// content is truncated with a footnote carrying the real size.
func writeContentSection(b *strings.Builder, content string) {
	preview := content
	truncated := false
	if len(preview) > contentPreviewChars {
		preview = preview[:contentPreviewChars]
		truncated = true
	}
	fmt.Fprintf(b, "\n**Content:**\n```\n%s\n```\n", strings.TrimRight(preview, "\n"))
	if truncated {
		lines := strings.Count(content, "\n") + 1
		fmt.Fprintf(b, "_truncated: %d chars, %d lines total_\n", len(content), lines)
	}
}

func writeStringListSection(b *strings.Builder, fields map[string]interface{}, key, label string) {
	items, ok := fields[key].([]interface{})
	if !ok || len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", label)
	for _, it := range items {
		if s, ok := it.(string); ok {
			fmt.Fprintf(b, "- `%s`\n", s)
		} else {
			fmt.Fprintf(b, "- %s\n", compactJSON(it))
		}
	}
}

func compactJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
