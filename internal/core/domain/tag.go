package domain

import (
	"sort"
	"strings"
)

// Tag is a free-form label, unique per user by name.
type Tag struct {
	TagID  string `json:"tagID"`
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	AuditFields
}

// NormalizeTagNames trims names, drops empties and duplicates, and sorts the result.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
