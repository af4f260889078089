package redact

import (
	"encoding/json"
	"regexp"
	"strings"
)

const Placeholder = "[REDACTED]"

var (
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+`)

	// Keys whose values are secret material in IAM and STS responses.
	secretKeys = map[string]struct{}{
		"secretaccesskey": {},
		"sessiontoken":    {},
		"password":        {},
		"privatekey":      {},
	}
)

type Redactor struct{}

func New() *Redactor {
	return &Redactor{}
}

func (r *Redactor) RedactString(input string) string {
	return jwtPattern.ReplaceAllString(input, Placeholder)
}

func (r *Redactor) RedactMap(input map[string]any) map[string]any {
	output := make(map[string]any, len(input))
	for k, v := range input {
		if IsSecretKey(k) {
			if s, ok := v.(string); ok && s == "" {
				output[k] = s
				continue
			}
			output[k] = Placeholder
			continue
		}
		output[k] = r.RedactValue(v)
	}
	return output
}

// RedactValue scrubs generic JSON-shaped values. Typed values (SDK structs) are
// converted through JSON first so their secret fields are found by key.
func (r *Redactor) RedactValue(input any) any {
	switch v := input.(type) {
	case nil:
		return nil
	case string:
		return r.RedactString(v)
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		redacted := make([]any, 0, len(v))
		for _, item := range v {
			redacted = append(redacted, r.RedactValue(item))
		}
		return redacted
	case bool, float64, int, int32, int64:
		return input
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return input
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return input
		}
		return r.RedactValue(generic)
	}
}

func IsSecretKey(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}
