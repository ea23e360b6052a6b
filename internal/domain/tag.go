package domain

import "strings"

// Tag is a free-text label. Names are unique per user, case-insensitively.
type Tag struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	UserID        int64  `json:"userId"`
	BookmarkCount int    `json:"bookmarkCount"`
}

// TagInput is the body of POST /tag.
type TagInput struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

// NormalizeTagName trims and lower-cases a tag name.
//
//	"  Golang " → "golang"
//	"Dev Ops"   → "dev ops"
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeTagNames normalizes every name, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTagNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = NormalizeTagName(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
