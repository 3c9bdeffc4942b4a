// Package nav locates a site's navigation links in rendered HTML.
package nav

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/sitepdf/models"
)

// Candidates is the selector cascade, tried in order. Structurally
// marked navigation comes first; the bare same-domain anchor pattern is
// the last resort.
var Candidates = []string{
	"nav ul li a",
	"[role='navigation'] a",
	".navigation a",
	"aside a",
	".sidebar a",
	"a[href*='sites.google.com']",
}

// Link is one anchor pulled out of the winning selector's matches.
type Link struct {
	Label string // trimmed visible text
	Href  string // raw href attribute, not yet resolved
}

// Discover runs the selector cascade over the rendered page HTML.
//
// The first selector matching at least one element wins and its matches
// become the link set; selectors that fail to compile are skipped.
// Matched anchors without visible text or an href are dropped. When no
// selector matches anything, a MENU_NOT_FOUND error is returned.
func Discover(rawHTML string) (string, []Link, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", nil, models.NewExportError(
			models.ErrCodeMenuNotFound,
			"could not parse the rendered page",
			err,
		)
	}

	for _, selector := range Candidates {
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			// A broken candidate is a non-match, not a failure.
			continue
		}
		matches := doc.FindMatcher(matcher)
		if matches.Length() == 0 {
			continue
		}

		links := make([]Link, 0, matches.Length())
		matches.Each(func(_ int, s *goquery.Selection) {
			label := strings.TrimSpace(s.Text())
			href, ok := s.Attr("href")
			if label == "" || !ok || href == "" {
				return
			}
			links = append(links, Link{Label: label, Href: href})
		})
		return selector, links, nil
	}

	return "", nil, models.NewExportError(
		models.ErrCodeMenuNotFound,
		"no navigation selector matched any element on the page",
		nil,
	)
}
