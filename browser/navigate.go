package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/sitepdf/models"
)

// signInHost is where Google bounces unauthenticated visitors.
const signInHost = "accounts.google.com"

// Bootstrap navigates to the site root and verifies that the injected
// cookies produced an authenticated session.
//
// The network-quiescence wait is bounded by ctx; pass a context with the
// configured bootstrap timeout. On a sign-in redirect an AUTH_REQUIRED
// error with remediation hints is returned.
func (s *Session) Bootstrap(ctx context.Context, baseURL string) error {
	if err := s.visit(ctx, baseURL); err != nil {
		return err
	}

	finalURL := s.currentURL()
	if isSignInURL(finalURL) {
		return models.NewExportError(
			models.ErrCodeAuth,
			fmt.Sprintf("cookies were rejected (landed on %s); verify they have not expired and re-export them from your browser", finalURL),
			nil,
		)
	}
	slog.Info("authenticated with cookies", "url", finalURL)
	return nil
}

// Visit navigates the shared page to url and waits for it to settle.
func (s *Session) Visit(ctx context.Context, rawURL string) error {
	return s.visit(ctx, rawURL)
}

func (s *Session) visit(ctx context.Context, rawURL string) error {
	idleWindow := s.cfg.IdleWindow.Std()
	if idleWindow <= 0 {
		idleWindow = 300 * time.Millisecond
	}
	p := s.page.Context(ctx)

	// The idle listener must be registered before Navigate, or in-flight
	// requests are missed and the wait returns instantly.
	var waitIdle func()
	if s.router == nil {
		waitIdle = p.WaitRequestIdle(idleWindow, nil, nil, nil)
	}

	if err := p.Navigate(rawURL); err != nil {
		return categorize(err, fmt.Sprintf("navigation to %s failed", rawURL))
	}

	if waitIdle != nil {
		waitIdle()
		if err := ctx.Err(); err != nil {
			return categorize(err, fmt.Sprintf("page %s did not settle in time", rawURL))
		}
		return nil
	}

	// WaitRequestIdle uses the Fetch domain, which conflicts with the
	// hijack router on Chromium 145+. Fall back to DOM stability.
	if err := p.WaitDOMStable(idleWindow, 0.1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return categorize(err, fmt.Sprintf("page %s did not settle in time", rawURL))
		}
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
	return nil
}

// currentURL reports where navigation actually ended up.
func (s *Session) currentURL() string {
	if info, err := s.page.Info(); err == nil && info.URL != "" {
		return info.URL
	}
	res, err := s.page.Eval(`() => window.location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// isSignInURL reports whether a URL belongs to the Google sign-in flow.
func isSignInURL(rawURL string) bool {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() == signInHost {
		return true
	}
	return strings.Contains(strings.ToLower(rawURL), "signin")
}

// categorize wraps raw errors into typed ExportErrors so the caller can
// map them to statuses and exit codes.
func categorize(err error, msg string) *models.ExportError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExportError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewExportError(models.ErrCodeTimeout, "run canceled", err)
	default:
		return models.NewExportError(models.ErrCodeNavigation, msg, err)
	}
}
