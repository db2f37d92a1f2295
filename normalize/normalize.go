// Package normalize converts raw tool-call results into bounded,
// human-readable Markdown summaries.
//
// Tool results arrive as untyped JSON-like values with no shared schema:
// plain strings, JSON-encoded strings, arrays of paths, objects from file
// writes or shell executions, and at least one known upstream defect where
// a string is serialized as an array of its individual characters. The
// normalizer classifies the value once at the boundary into a tagged
// variant, then renders that variant. It never fails: any value that
// matches no known shape is rendered as a pretty-printed JSON block.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Hint carries optional information about the tool invocation that
// produced a result. It disambiguates shapes that cannot be classified
// from the value alone, e.g. a raw string that is file content versus a
// raw string that is a message. ExtraNoiseDirs extends the built-in set
// of directories excluded from listing counts.
type Hint struct {
	ToolName       string
	Args           map[string]interface{}
	ExtraNoiseDirs []string
}

// Normalize renders a raw tool result as Markdown. It is a pure function
// of its inputs: identical inputs produce byte-identical output. It never
// panics; unclassifiable or malformed input falls back to a raw JSON
// rendering.
func Normalize(raw interface{}, hint *Hint) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = renderOpaque(raw)
		}
	}()

	v := decode(toJSONValue(raw), hint)
	return render(v)
}

// toJSONValue reduces arbitrary Go values to the JSON data model
// (map[string]interface{}, []interface{}, string, float64, bool, nil) so
// that classification sees one representation regardless of whether the
// caller passed decoded JSON or a typed struct.
func toJSONValue(raw interface{}) interface{} {
	switch raw.(type) {
	case nil, string, bool, float64, int, int64,
		map[string]interface{}, []interface{}, []string:
		return normalizeScalars(raw)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

// normalizeScalars widens the handful of non-JSON types accepted above.
func normalizeScalars(raw interface{}) interface{} {
	switch v := raw.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items
	default:
		return raw
	}
}

// renderOpaque is the terminal fallback: pretty-printed JSON.
func renderOpaque(raw interface{}) string {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Sprintf("```\n%v\n```", raw)
	}
	return fmt.Sprintf("```json\n%s\n```", strings.TrimSpace(string(data)))
}
