package publish

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	idInvalid   = regexp.MustCompile(`[^a-z0-9._-]`)
	dashRuns    = regexp.MustCompile(`--+`)
	edgeDashes  = regexp.MustCompile(`^-+|-+$`)
)

// BuildRepoName derives a repository name from a free-form slug
func BuildRepoName(prefix, slug string) string {
	safe := strings.ToLower(slug)
	safe = slugInvalid.ReplaceAllString(safe, "-")
	safe = edgeDashes.ReplaceAllString(safe, "")
	safe = dashRuns.ReplaceAllString(safe, "-")
	if safe == "" {
		safe = "submission"
	}
	return prefix + safe
}

// ResolveRepoName derives the per-resource repository name from the item id,
// falling back to the given name when the id is empty.
func ResolveRepoName(prefix, itemID, fallbackName string) string {
	if itemID == "" {
		return fallbackName
	}
	safe := strings.ToLower(itemID)
	safe = idInvalid.ReplaceAllString(safe, "-")
	safe = dashRuns.ReplaceAllString(safe, "-")
	safe = edgeDashes.ReplaceAllString(safe, "")
	return prefix + safe
}
