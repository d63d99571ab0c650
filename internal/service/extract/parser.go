package extract

import (
	"encoding/json"
	"strings"

	"voice2crm-service/internal/models"
)

// ParseLead parses a model reply into a Lead. It first tries the whole
// reply as JSON; if that fails it falls back to the first balanced {...}
// span, tolerating prose the model may add around the object despite
// instructions. An unparseable reply yields an empty Lead — never an error.
// The second return value reports whether the fallback span search was used.
func ParseLead(reply string) (models.Lead, bool) {
	if lead, ok := parseObject(reply); ok {
		return lead, false
	}

	span, ok := firstJSONObject(reply)
	if !ok {
		return models.Lead{}, false
	}
	lead, ok := parseObject(span)
	if !ok {
		return models.Lead{}, true
	}
	return lead, true
}

// parseObject decodes a JSON object and picks the six known fields.
// Unknown keys are ignored; null and non-string values count as absent.
func parseObject(s string) (models.Lead, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &raw); err != nil {
		return models.Lead{}, false
	}

	field := func(key string) string {
		if v, ok := raw[key].(string); ok {
			return v
		}
		return ""
	}

	return models.Lead{
		FirstName: field("first_name"),
		LastName:  field("last_name"),
		JobTitle:  field("job_title"),
		Company:   field("company"),
		Email:     field("email"),
		Phone:     field("phone"),
	}, true
}

// firstJSONObject returns the first balanced top-level {...} span in s.
// Braces inside JSON strings are skipped so nested objects and brace
// characters in values do not break the match.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
