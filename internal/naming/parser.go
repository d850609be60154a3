package naming

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema constrains the decoded object to the shape the prompt
// contract promises. Anything that fails validation degrades rather than
// being half-decoded into an empty Result.
const resultSchema = `{
  "type": "object",
  "required": ["primary"],
  "properties": {
    "primary": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "explanation": {"type": "string"}
      }
    },
    "alternatives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "explanation": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(resultSchema)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*\\n([\\s\\S]*?)\\n```")

// ParseResult extracts a structured Result from raw model output.
//
// The model is instructed to emit strict JSON but may wrap it in prose or a
// code fence. ParseResult looks for a fenced block first, then the first
// balanced top-level object, and validates the decoded object against the
// expected schema. Any failure degrades to a placeholder result carrying
// the raw text verbatim; it never returns an error.
func ParseResult(raw string) Result {
	jsonText := extractJSON(raw)
	if jsonText == "" {
		return DegradedResult(raw)
	}

	validation, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(jsonText))
	if err != nil || !validation.Valid() {
		return DegradedResult(raw)
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return DegradedResult(raw)
	}

	if result.Alternatives == nil {
		result.Alternatives = []Suggestion{}
	}
	return result
}

// extractJSON locates the JSON payload in raw text: a fenced code block if
// present, otherwise the first balanced `{...}` span.
func extractJSON(raw string) string {
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if strings.HasPrefix(candidate, "{") {
			return candidate
		}
	}
	if extracted, ok := firstJSONObject(raw); ok {
		return extracted
	}
	return ""
}

// firstJSONObject scans text to find the first JSON object (starting at
// '{'). It tolerates leading prose before the JSON payload and ignores
// anything after the balanced object.
func firstJSONObject(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	start := strings.Index(trimmed, "{")
	if start == -1 {
		return "", false
	}

	decoder := json.NewDecoder(strings.NewReader(trimmed[start:]))
	decoder.UseNumber()

	var rawMsg json.RawMessage
	if err := decoder.Decode(&rawMsg); err != nil {
		return "", false
	}

	return strings.TrimSpace(string(rawMsg)), true
}
