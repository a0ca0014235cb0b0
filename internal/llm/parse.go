package llm

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// listMarker matches bullet and numbering prefixes: "-", "*", "•", "1.", "1)"
var listMarker = regexp.MustCompile(`^(?:[-*•]+\s*|\d+[.)]\s+)`)

// ParseList turns a model response into a list of items.
// A JSON payload (an array, an object holding one, or objects wrapping a string)
// is authoritative: its items are used even when there are none. Anything
// else is recovered line by line. Bullet markers and surrounding quotes are
// stripped and blank items dropped. ParseList never fails; an unusable
// response yields an empty list.
func ParseList(text string) []string {
	return parseList(text, false)
}

// ParseKeywordList is ParseList for short terms: a single unmarked line is
// also split on commas.
func ParseKeywordList(text string) []string {
	return parseList(text, true)
}

func parseList(text string, splitCommas bool) []string {
	if payload, ok := jsonPayload(text); ok {
		if items, ok := parseJSONList(payload); ok {
			return items
		}
	}
	return parseLenientList(text, splitCommas)
}

// jsonPayload returns the JSON value the response is built around. A value
// embedded mid-sentence, such as "[2]" in a bullet, does not count.
func jsonPayload(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	payload := CleanJSONBlock(trimmed)
	if payload == "" || (payload[0] != '[' && payload[0] != '{') || !json.Valid([]byte(payload)) {
		return "", false
	}
	if strings.HasPrefix(trimmed, "```") {
		return payload, true
	}

	idx := strings.Index(trimmed, payload)
	if idx < 0 {
		return "", false
	}
	before := strings.TrimRight(trimmed[:idx], " \t")
	if before == "" || strings.HasSuffix(before, "\n") || strings.HasSuffix(before, ":") {
		return payload, true
	}
	return "", false
}

func parseJSONList(text string) ([]string, bool) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case []any:
		return stringItems(v), true
	case map[string]any:
		for _, key := range sortedKeys(v) {
			if arr, ok := v[key].([]any); ok {
				return stringItems(arr), true
			}
		}
		// a lone object is a single item
		items := make([]string, 0, 1)
		if item := cleanItem(objectString(v)); item != "" {
			items = append(items, item)
		}
		return items, true
	}
	return nil, false
}

func stringItems(values []any) []string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		var s string
		switch item := v.(type) {
		case string:
			s = item
		case map[string]any:
			s = objectString(item)
		default:
			continue
		}
		if item := cleanItem(s); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// objectString returns the first non-blank string field of obj, by key order
func objectString(obj map[string]any) string {
	for _, key := range sortedKeys(obj) {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func parseLenientList(text string, splitCommas bool) []string {
	lines := nonBlankLines(text)
	if len(lines) == 1 {
		if splitCommas && !listMarker.MatchString(strings.TrimSpace(lines[0])) {
			lines = strings.Split(lines[0], ",")
		}
	} else if marked := markedLines(lines); len(marked) > 0 {
		// a response mixing prose and a list keeps only the list
		lines = marked
	}

	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if item := cleanItem(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func markedLines(lines []string) []string {
	var marked []string
	for _, line := range lines {
		if listMarker.MatchString(strings.TrimSpace(line)) {
			marked = append(marked, line)
		}
	}
	return marked
}

// cleanItem strips list markers, trailing commas and wrapping quotes
func cleanItem(item string) string {
	item = strings.TrimSpace(item)
	item = listMarker.ReplaceAllString(item, "")
	item = strings.TrimSuffix(strings.TrimSpace(item), ",")
	item = strings.TrimSpace(item)
	if len(item) >= 2 {
		first, last := item[0], item[len(item)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			item = item[1 : len(item)-1]
		}
	}
	return strings.TrimSpace(item)
}

// clip returns at most max items; max <= 0 means no limit
func clip(items []string, max int) []string {
	if max > 0 && len(items) > max {
		return items[:max]
	}
	return items
}
