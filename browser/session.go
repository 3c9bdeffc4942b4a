// Package browser owns the headless Chrome session used for the whole
// export run: one browser, one page, reused for every navigation.
package browser

import (
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/sitepdf/config"
	"github.com/use-agent/sitepdf/models"
)

// Session is the authenticated browser bound to the export run.
type Session struct {
	browser    *rod.Browser
	page       *rod.Page
	router     *rod.HijackRouter
	cfg        config.BrowserConfig
	profileDir string
}

// NewSession launches a headless browser with a fresh disposable profile
// and opens the single page the run will reuse.
func NewSession(cfg config.BrowserConfig) (*Session, error) {
	profileDir, err := os.MkdirTemp("", "sitepdf-profile-")
	if err != nil {
		return nil, models.NewExportError(
			models.ErrCodeBrowserCrash,
			"failed to create ephemeral profile directory",
			err,
		)
	}

	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		UserDataDir(profileDir)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// Relaxed-security flags for unattended scraping. Google Sites pulls
	// assets cross-origin, and shared-memory use must stay low on CI hosts.
	l.Set(flags.Flag("disable-web-security"))
	l.Set(flags.Flag("disable-features"), "VizDisplayCompositor,TranslateUI")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		_ = os.RemoveAll(profileDir)
		return nil, models.NewExportError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL, "profileDir", profileDir)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		_ = os.RemoveAll(profileDir)
		return nil, models.NewExportError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		_ = os.RemoveAll(profileDir)
		return nil, models.NewExportError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	s := &Session{
		browser:    b,
		page:       page,
		cfg:        cfg,
		profileDir: profileDir,
	}

	// Stealth JS and extra headers only take effect for navigations that
	// happen after they are installed, so set them up before any Navigate.
	if cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}
	if len(cfg.ExtraHeaders) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(cfg.ExtraHeaders),
		}).Call(page); err != nil {
			slog.Warn("failed to set extra headers", "error", err)
		}
	}
	if cfg.BlockAds {
		s.router = mountAdBlocker(page)
	}

	return s, nil
}

// SetCookies installs the normalized cookie records into the session.
// Must be called before the first navigation; Google Sites auth is
// cookie-gated.
func (s *Session) SetCookies(cookies []*proto.NetworkCookieParam) error {
	if err := s.page.SetCookies(cookies); err != nil {
		return models.NewExportError(
			models.ErrCodeConfig,
			"failed to install cookies into the browser session",
			err,
		)
	}
	slog.Info("cookies loaded", "count", len(cookies))
	return nil
}

// HTML returns the rendered HTML of the current page.
func (s *Session) HTML() (string, error) {
	return s.page.HTML()
}

// Close stops the ad blocker, kills the browser, and removes the
// ephemeral profile directory. Safe to call once at the end of the run.
func (s *Session) Close() {
	if s.router != nil {
		_ = s.router.Stop()
	}
	if err := s.browser.Close(); err != nil {
		slog.Warn("browser did not close cleanly", "error", err)
	}
	if err := os.RemoveAll(s.profileDir); err != nil {
		slog.Warn("could not remove profile directory", "dir", s.profileDir, "error", err)
	}
	slog.Info("browser session closed")
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
