package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Classification thresholds. The character-array repair bounds were tuned
// against the one observed upstream defect; an array of more than ten
// single-character strings is assumed to be a broken string, which can
// misfire on a legitimate list of single-letter tokens of that size.
const (
	charArrayMinLen     = 10  // repair fires only above this many elements
	contentPreviewChars = 200 // generic content preview cap
	diffSectionLimit    = 20  // displayed lines per added/removed section
	stdoutNoteLines     = 5   // stdout longer than this gets a line-count note
)

// noiseDirs are well-known directories excluded from directory-listing
// counts. Includes palette's own state directory.
var noiseDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"out":          true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
	".vscode":      true,
	".idea":        true,
	"tmp":          true,
	"temp":         true,
	".palette":     true,
}

var bareIdentifierRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// variant is the tagged classification of a raw tool result. Rendering
// switches exhaustively over the concrete types below; no shape-sniffing
// happens outside decode.
type variant interface{ isVariant() }

type plainText struct{ text string }

// fileReadSummary replaces raw file content with a one-line digest so a
// transcript never echoes whole files.
type fileReadSummary struct {
	path  string
	lines int
	bytes int
}

// dirSummary is the compact rendering of a directory listing. Counts are
// split into files and directories only when the invocation hint
// identified a listing tool; otherwise only the total is known.
type dirSummary struct {
	path    string
	total   int
	files   int
	dirs    int
	split   bool // files/dirs counts are meaningful
	skipped int  // noise directories excluded from the counts
}

type emptyList struct{}

type pathList struct{ paths []string }

type mixedList struct{ raw []interface{} }

type valueList struct{ items []variant }

type writeReport struct {
	path    string
	success bool
	diff    *diffSummary // nil when no original content was provided
}

type shellReport struct {
	command     string
	stdout      string
	stderr      string
	exitCode    int
	hasExitCode bool
	durationMs  int
	hasDuration bool
}

type genericObject struct{ fields map[string]interface{} }

type opaque struct{ raw interface{} }

func (plainText) isVariant()       {}
func (fileReadSummary) isVariant() {}
func (dirSummary) isVariant()      {}
func (emptyList) isVariant()       {}
func (pathList) isVariant()        {}
func (mixedList) isVariant()       {}
func (valueList) isVariant()       {}
func (writeReport) isVariant()     {}
func (shellReport) isVariant()     {}
func (genericObject) isVariant()   {}
func (opaque) isVariant()          {}

// decode classifies a JSON value into a variant. First match wins; the
// order mirrors the priority of the known result families.
func decode(raw interface{}, hint *Hint) variant {
	switch v := raw.(type) {
	case string:
		return decodeString(v, hint)
	case []interface{}:
		return decodeArray(v, hint)
	case map[string]interface{}:
		return decodeObject(v)
	case nil:
		return emptyList{}
	default:
		return opaque{raw: raw}
	}
}

// decodeString handles raw string results. JSON-encoded payloads are
// unwrapped and re-classified; everything else is either summarized per
// the invocation hint or passed through verbatim.
func decodeString(s string, hint *Hint) variant {
	var parsed interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		// Avoid infinite recursion: a bare JSON string parses to itself.
		if inner, ok := parsed.(string); !ok || inner != s {
			return decode(parsed, hint)
		}
	}

	switch {
	case hint.isReadFile():
		return fileReadSummary{
			path:  hint.pathArg(),
			lines: strings.Count(s, "\n") + 1,
			bytes: len(s),
		}
	case hint.isListDir():
		return dirSummary{path: hint.pathArg(), total: -1}
	default:
		return plainText{text: s}
	}
}

// decodeArray handles array results, repairing the character-array defect
// before any other classification.
func decodeArray(items []interface{}, hint *Hint) variant {
	// Character-array repair: a long array of single-character strings is
	// presumed to be one string serialized element-by-element. Short
	// arrays are left alone; three single-letter flags are a list, not a
	// broken string.
	if len(items) > charArrayMinLen && allSingleCharStrings(items) {
		var b strings.Builder
		for _, it := range items {
			b.WriteString(it.(string))
		}
		return decodeString(b.String(), hint)
	}

	if len(items) == 0 {
		return emptyList{}
	}

	if ds, ok := decodeDirListing(items, hint); ok {
		return ds
	}

	if paths, ok := asPathList(items); ok {
		return pathList{paths: paths}
	}

	if mixedTypes(items) {
		return mixedList{raw: items}
	}

	decoded := make([]variant, len(items))
	for i, it := range items {
		// Element recursion drops the hint: it described the invocation,
		// not the individual elements.
		decoded[i] = decode(it, nil)
	}
	return valueList{items: decoded}
}

// decodeDirListing applies the directory-listing heuristic: at least two
// multi-character strings where something looks like a file name.
func decodeDirListing(items []interface{}, hint *Hint) (dirSummary, bool) {
	if len(items) < 2 {
		return dirSummary{}, false
	}

	looksLikeListing := false
	for _, it := range items {
		s, ok := it.(string)
		if !ok || utf8.RuneCountInString(s) <= 1 {
			return dirSummary{}, false
		}
		if strings.ContainsAny(s, "./") || bareIdentifierRe.MatchString(s) {
			looksLikeListing = true
		}
	}
	if !looksLikeListing {
		return dirSummary{}, false
	}

	ds := dirSummary{path: hint.pathArg(), total: len(items)}
	if !hint.isListDir() {
		return ds, true
	}

	// With a listing hint we can split files from subdirectories and
	// drop well-known noise directories from the counts.
	ds.split = true
	ds.total = 0
	for _, it := range items {
		entry := it.(string)
		isDir := strings.HasSuffix(entry, "/")
		name := strings.TrimSuffix(entry, "/")
		if noiseDirs[name] || hint.isNoise(name) {
			ds.skipped++
			continue
		}
		ds.total++
		if isDir {
			ds.dirs++
		} else {
			ds.files++
		}
	}
	return ds, true
}

// asPathList reports whether every element is a string containing a path
// separator. Retained for the legacy "generated files" rendering.
func asPathList(items []interface{}) ([]string, bool) {
	paths := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok || !strings.Contains(s, "/") {
			return nil, false
		}
		paths[i] = s
	}
	return paths, true
}

func allSingleCharStrings(items []interface{}) bool {
	for _, it := range items {
		s, ok := it.(string)
		if !ok || utf8.RuneCountInString(s) > 1 {
			return false
		}
	}
	return true
}

func mixedTypes(items []interface{}) bool {
	first := jsonType(items[0])
	for _, it := range items[1:] {
		if jsonType(it) != first {
			return true
		}
	}
	return false
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case nil:
		return "null"
	default:
		return "other"
	}
}

// decodeObject classifies object results. The write-file and shell-exec
// families are recognized by their characteristic keys; anything else is
// rendered field-by-field.
func decodeObject(obj map[string]interface{}) variant {
	if path, ok := stringField(obj, "filePath", "file_path"); ok {
		if success, ok := boolField(obj, "success"); ok {
			wr := writeReport{path: path, success: success}
			oldContent, hasOld := stringField(obj, "originalContent", "original_content")
			newContent, hasNew := stringField(obj, "newContent", "new_content")
			if hasOld {
				if !hasNew {
					newContent, _ = stringField(obj, "content")
				}
				d := summarizeDiff(oldContent, newContent)
				wr.diff = &d
			}
			return wr
		}
	}

	if hasAnyKey(obj, "stdout", "stderr", "command") {
		sr := shellReport{}
		sr.command, _ = stringField(obj, "command")
		sr.stdout, _ = stringField(obj, "stdout")
		sr.stderr, _ = stringField(obj, "stderr")
		if code, ok := intField(obj, "exitCode", "exit_code"); ok {
			sr.exitCode = code
			sr.hasExitCode = true
		}
		if ms, ok := intField(obj, "durationMs", "duration_ms", "elapsedMs", "elapsed_ms"); ok {
			sr.durationMs = ms
			sr.hasDuration = true
		}
		return sr
	}

	return genericObject{fields: obj}
}

func (h *Hint) isReadFile() bool {
	if h == nil {
		return false
	}
	switch h.ToolName {
	case "read_file", "readFile", "file_read", "read":
		return true
	}
	return false
}

func (h *Hint) isListDir() bool {
	if h == nil {
		return false
	}
	switch h.ToolName {
	case "list_dir", "listDir", "list_directory", "list_files", "ls":
		return true
	}
	return false
}

func (h *Hint) isNoise(name string) bool {
	if h == nil {
		return false
	}
	for _, dir := range h.ExtraNoiseDirs {
		if strings.TrimSuffix(dir, "/") == name {
			return true
		}
	}
	return false
}

func (h *Hint) pathArg() string {
	if h == nil || h.Args == nil {
		return ""
	}
	for _, key := range []string{"path", "file_path", "filePath", "dir"} {
		if s, ok := h.Args[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringField(obj map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := obj[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

func boolField(obj map[string]interface{}, keys ...string) (bool, bool) {
	for _, key := range keys {
		if b, ok := obj[key].(bool); ok {
			return b, true
		}
	}
	return false, false
}

func intField(obj map[string]interface{}, keys ...string) (int, bool) {
	for _, key := range keys {
		if f, ok := obj[key].(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

func hasAnyKey(obj map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}
