// Package postfilter narrows an already fetched post collection by keyword,
// category, platform and tag. It performs no I/O and never mutates its input.
package postfilter

import (
	"strings"

	"github.com/anonto42/postcraft/backend/internal/models"
)

// Filter is the state of the four filter inputs. Empty fields match everything.
type Filter struct {
	Keyword  string `query:"keyword" json:"keyword"`
	Category string `query:"category" json:"category"`
	Platform string `query:"platform" json:"platform"`
	Tag      string `query:"tag" json:"tag"`
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Keyword) == "" && f.Category == "" && f.Platform == "" && f.Tag == ""
}

// Matches reports whether p passes all four predicates.
func (f Filter) Matches(p models.Post) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(p.Title), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Platform != "" && !anyContains(p.TargetPlatforms, f.Platform) {
		return false
	}
	if f.Tag != "" && !anyContains(p.Tags, f.Tag) {
		return false
	}
	return true
}

// Apply returns the posts that match f, preserving their order.
// An empty filter returns posts as given.
func Apply(posts []models.Post, f Filter) []models.Post {
	if f.IsEmpty() {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func anyContains(values []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}
