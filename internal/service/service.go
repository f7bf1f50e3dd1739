// Package service implements the application core: post authoring and
// listing, favoriting, threaded comments and account management. Handlers
// pass in plain data plus the request's viewer; services return plain data
// or a typed *apperr.Error.
package service

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// makeSlug derives a URL slug from a title. A short random suffix keeps
// slugs unique across posts with identical titles.
func makeSlug(title string) string {
	clean := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	suffix := uuid.NewString()[:6]
	if clean == "" {
		return suffix
	}
	return clean + "-" + suffix
}
