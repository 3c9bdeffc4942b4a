package nav

import (
	"errors"
	"testing"

	"github.com/andybalholm/cascadia"

	"github.com/use-agent/sitepdf/models"
)

func TestDiscover_SemanticNavWins(t *testing.T) {
	html := `<html><body>
		<nav><ul>
			<li><a href="/view/demo/home">Home</a></li>
			<li><a href="/view/demo/about">About</a></li>
		</ul></nav>
		<aside><a href="/view/demo/other">Other</a></aside>
	</body></html>`

	selector, links, err := Discover(html)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if selector != "nav ul li a" {
		t.Errorf("selector = %q, want %q", selector, "nav ul li a")
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %v", len(links), links)
	}
	if links[0].Label != "Home" || links[0].Href != "/view/demo/home" {
		t.Errorf("first link = %+v", links[0])
	}
	if links[1].Label != "About" || links[1].Href != "/view/demo/about" {
		t.Errorf("second link = %+v", links[1])
	}
}

func TestDiscover_AriaLandmarkFallback(t *testing.T) {
	html := `<html><body>
		<div role="navigation">
			<a href="/view/demo/docs">Docs</a>
		</div>
	</body></html>`

	selector, links, err := Discover(html)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if selector != "[role='navigation'] a" {
		t.Errorf("selector = %q, want the ARIA landmark candidate", selector)
	}
	if len(links) != 1 || links[0].Label != "Docs" {
		t.Errorf("links = %v", links)
	}
}

func TestDiscover_DomainAnchorLastResort(t *testing.T) {
	html := `<html><body>
		<p><a href="https://sites.google.com/view/demo/page">A Page</a></p>
		<p><a href="https://example.com/out">External</a></p>
	</body></html>`

	selector, links, err := Discover(html)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if selector != "a[href*='sites.google.com']" {
		t.Errorf("selector = %q, want the domain-anchor candidate", selector)
	}
	if len(links) != 1 || links[0].Href != "https://sites.google.com/view/demo/page" {
		t.Errorf("links = %v", links)
	}
}

func TestDiscover_DropsAnchorsWithoutLabelOrHref(t *testing.T) {
	html := `<html><body><nav><ul>
		<li><a href="/view/demo/one">One</a></li>
		<li><a href="/view/demo/empty">   </a></li>
		<li><a>No Href</a></li>
	</ul></nav></body></html>`

	selector, links, err := Discover(html)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if selector != "nav ul li a" {
		t.Errorf("selector = %q", selector)
	}
	if len(links) != 1 || links[0].Label != "One" {
		t.Errorf("expected only the usable anchor, got %v", links)
	}
}

func TestDiscover_WinningSelectorStopsCascade(t *testing.T) {
	// The nav matches but yields no usable anchors; the sidebar below
	// must NOT be consulted because the cascade stops at first match.
	html := `<html><body>
		<nav><ul><li><a href="/x">  </a></li></ul></nav>
		<div class="sidebar"><a href="/view/demo/side">Side</a></div>
	</body></html>`

	selector, links, err := Discover(html)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if selector != "nav ul li a" {
		t.Errorf("selector = %q, want the first matching candidate", selector)
	}
	if len(links) != 0 {
		t.Errorf("expected no usable links, got %v", links)
	}
}

func TestDiscover_NoMatchIsDiscoveryError(t *testing.T) {
	html := `<html><body><p>Nothing navigational here.</p></body></html>`

	_, _, err := Discover(html)
	if err == nil {
		t.Fatal("expected a discovery error")
	}
	var exportErr *models.ExportError
	if !errors.As(err, &exportErr) || exportErr.Code != models.ErrCodeMenuNotFound {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeMenuNotFound)
	}
}

func TestCandidates_AllCompile(t *testing.T) {
	// Discover skips selectors that fail to compile; the shipped cascade
	// should not rely on that escape hatch.
	for _, selector := range Candidates {
		if _, err := cascadia.Compile(selector); err != nil {
			t.Errorf("candidate %q does not compile: %v", selector, err)
		}
	}
}
