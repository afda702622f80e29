package utils

import "strings"

// SplitCSV splits s on commas and trims each value. An empty string yields
// an empty slice.
func SplitCSV(s string) []string {
	if s == "" {
		return []string{}
	}

	values := strings.Split(s, ",")
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
	return values
}
