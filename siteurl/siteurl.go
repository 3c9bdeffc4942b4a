// Package siteurl maps discovered hrefs to absolute URLs and to
// filesystem-safe PDF names.
package siteurl

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// FallbackName is returned when filename derivation faults internally.
	FallbackName = "unknown_page"

	// homeName is used when the URL path carries no usable segment.
	homeName = "home"
)

// Normalize resolves a raw href against the run's base URL.
//
// Root-relative hrefs resolve against the Google Sites host (every site
// lives under it), absolute hrefs pass through verbatim, and anything
// else is joined onto the base URL with exactly one slash.
func Normalize(href, base, sitesHost string) string {
	switch {
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(sitesHost, "/") + href
	case strings.HasPrefix(href, "http"):
		return href
	default:
		return strings.TrimRight(base, "/") + "/" + href
	}
}

// Filename derives the PDF base name (without extension) for a page URL.
//
// The base URL's path is stripped off the front of the page path, so
// .../view/demo/sub/page under base .../view/demo becomes "sub_page".
// When the remainder is empty the last non-empty path segment is used,
// or "home" when there is none. The result is always a non-empty slug;
// any internal fault yields FallbackName.
func Filename(rawURL, base string) (name string) {
	defer func() {
		if recover() != nil {
			name = FallbackName
		}
	}()

	u, err := url.Parse(rawURL)
	if err != nil {
		return FallbackName
	}
	b, err := url.Parse(base)
	if err != nil {
		return FallbackName
	}

	fullPath := u.Path
	basePath := b.Path

	var rel string
	if strings.HasPrefix(fullPath, basePath) {
		rel = strings.Trim(fullPath[len(basePath):], "/")
	} else {
		rel = strings.Trim(fullPath, "/")
	}

	if rel == "" {
		rel = lastSegment(fullPath)
	}

	name = Slugify(strings.ReplaceAll(rel, "/", "_"))
	if name == "" {
		name = "page"
	}
	return name
}

// lastSegment returns the last non-empty path segment, or "home".
func lastSegment(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return homeName
}

var (
	unsafeChars    = regexp.MustCompile(`[^a-z0-9_]+`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// Slugify lowercases text and collapses anything outside [a-z0-9_] into
// single underscores. The result may be empty for input with no safe
// characters; callers supply their own fallback.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = unsafeChars.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
