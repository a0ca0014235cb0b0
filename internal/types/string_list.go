package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringList is a list of strings that also accepts a single comma-separated
// string when decoded. Either form normalizes to trimmed, non-empty items in
// their original order.
type StringList []string

// ParseStringList splits a comma-separated string into a normalized list
func ParseStringList(s string) StringList {
	return NormalizeStrings(strings.Split(s, ","))
}

// NormalizeStrings trims every item and drops the empty ones.
// It also splits items that still contain commas so mixed inputs normalize the same way.
func NormalizeStrings(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// UnmarshalJSON accepts either a JSON array of strings or a JSON string
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode string list: %w", err)
		}
		*l = ParseStringList(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = NormalizeStrings(items)
	return nil
}

// UnmarshalYAML accepts either a YAML sequence or a scalar
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = ParseStringList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("failed to decode string list: %w", err)
		}
		*l = NormalizeStrings(items)
		return nil
	default:
		return fmt.Errorf("failed to decode string list: unexpected YAML node kind %d", value.Kind)
	}
}
