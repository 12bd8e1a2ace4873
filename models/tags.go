package models

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
)

// NormalizeTags coerces client-supplied tag input into the stored form.
// Clients send either a JSON array or a stringified JSON array; a plain
// string that is not valid JSON is kept as a single tag. Blank entries are
// dropped.
func NormalizeTags(raw any) pq.StringArray {
	var tags []string

	switch v := raw.(type) {
	case nil:
		return pq.StringArray{}
	case []string:
		tags = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
	case string:
		if err := sonic.Unmarshal([]byte(v), &tags); err != nil {
			if strings.TrimSpace(v) == "" {
				return pq.StringArray{}
			}
			tags = []string{v}
		}
	default:
		return pq.StringArray{}
	}

	normalized := pq.StringArray{}

	for _, t := range tags {
		t = strings.TrimSpace(t)

		if t == "" {
			continue
		}

		normalized = append(normalized, t)
	}

	return normalized
}

// HasTag reports whether tags contains tag, compared case-insensitively.
// Exact value match only, no substring or prefix matching.
func HasTag(tags pq.StringArray, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}

	return false
}
