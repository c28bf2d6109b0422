// Package input provides completion for the filter prompt.
package input

import "strings"

// FilterKeys are the keys accepted by timetable.ParseFilter, in suggestion order.
var FilterKeys = []string{"instructor", "room"}

// Choices holds the values a filter key can take.
type Choices map[string][]string

// FilterSuggestions returns completions for the comma-separated segment
// being typed. A segment without "=" completes to a key; "key=prefix"
// completes to the key's values.
func FilterSuggestions(text string, choices Choices) []string {
	segment := lastSegment(text)
	key, value, hasValue := strings.Cut(segment, "=")
	key = strings.ToLower(strings.TrimSpace(key))

	if !hasValue {
		var out []string
		for _, k := range FilterKeys {
			if strings.HasPrefix(k, key) {
				out = append(out, k+"=")
			}
		}
		return out
	}

	key = canonicalKey(key)
	prefix := strings.ToLower(strings.TrimSpace(value))
	var out []string
	for _, v := range choices[key] {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, key+"="+v)
		}
	}
	return out
}

// FilterAutocomplete replaces the segment being typed with the first
// suggestion and reports whether there was one.
func FilterAutocomplete(text string, choices Choices) (string, bool) {
	suggestions := FilterSuggestions(text, choices)
	if len(suggestions) == 0 {
		return text, false
	}
	head := ""
	if i := strings.LastIndex(text, ","); i >= 0 {
		head = text[:i+1] + " "
	}
	return head + suggestions[0], true
}

func lastSegment(text string) string {
	if i := strings.LastIndex(text, ","); i >= 0 {
		return strings.TrimLeft(text[i+1:], " ")
	}
	return strings.TrimLeft(text, " ")
}

func canonicalKey(key string) string {
	switch key {
	case "i":
		return "instructor"
	case "r":
		return "room"
	default:
		return key
	}
}
