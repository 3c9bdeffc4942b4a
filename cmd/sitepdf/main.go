package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/use-agent/sitepdf/browser"
	"github.com/use-agent/sitepdf/config"
	"github.com/use-agent/sitepdf/cookies"
	"github.com/use-agent/sitepdf/export"
	"github.com/use-agent/sitepdf/models"
	"github.com/use-agent/sitepdf/nav"
	"github.com/use-agent/sitepdf/siteurl"
)

// Exit codes per abort condition, for scriptability.
const (
	exitFailure   = 1 // browser launch, navigation, anything else
	exitConfig    = 2 // missing/invalid cookie file or config
	exitAuth      = 3 // cookies rejected or expired
	exitDiscovery = 4 // no navigation selector matched
)

func main() {
	app := &cli.App{
		Name:  "sitepdf",
		Usage: "export an authenticated Google Sites site to PDFs using pre-exported browser cookies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "base URL of the Google Site to export",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "cookies",
				Usage:   "path to the browser-extension cookie export",
				Value:   "cookies.json",
				EnvVars: []string{"SITEPDF_COOKIES"},
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "output directory for the PDFs",
				Value:   "google_site_export",
				EnvVars: []string{"SITEPDF_OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "optional YAML config file overlaid on env/defaults",
			},
			&cli.BoolFlag{
				Name:    "headless",
				Usage:   "run the browser headless",
				Value:   true,
				EnvVars: []string{"SITEPDF_HEADLESS"},
			},
			&cli.BoolFlag{
				Name:    "stealth",
				Usage:   "inject anti-bot-detection JS before navigation",
				EnvVars: []string{"SITEPDF_STEALTH"},
			},
			&cli.BoolFlag{
				Name:    "block-ads",
				Usage:   "drop requests to known ad/analytics domains",
				EnvVars: []string{"SITEPDF_BLOCK_ADS"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	if path := c.String("config"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return cli.Exit(err.Error(), exitConfig)
		}
	}

	cfg.Site.BaseURL = c.String("url")
	if c.IsSet("cookies") {
		cfg.Site.CookiesFile = c.String("cookies")
	}
	if c.IsSet("out") {
		cfg.Export.OutputDir = c.String("out")
	}
	if c.IsSet("headless") {
		cfg.Browser.Headless = c.Bool("headless")
	}
	if c.IsSet("stealth") {
		cfg.Browser.Stealth = c.Bool("stealth")
	}
	if c.IsSet("block-ads") {
		cfg.Browser.BlockAds = c.Bool("block-ads")
	}

	initLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := runExport(ctx, cfg)
	if err != nil {
		slog.Error("export aborted", "error", err)
		return cli.Exit(err.Error(), exitCodeFor(err))
	}

	slog.Info("export completed",
		"processed", sum.Processed,
		"skipped", sum.Skipped,
		"errored", sum.Errored,
		"dir", cfg.Export.OutputDir,
	)
	return nil
}

// runExport is the whole pipeline: cookies → session → menu → PDFs.
func runExport(ctx context.Context, cfg *config.Config) (models.Summary, error) {
	var sum models.Summary

	cookieParams, err := cookies.Load(cfg.Site.CookiesFile)
	if err != nil {
		return sum, err
	}

	session, err := browser.NewSession(cfg.Browser)
	if err != nil {
		return sum, err
	}
	defer session.Close()

	// Cookies go in before any navigation; Google Sites auth is cookie-gated.
	if err := session.SetCookies(cookieParams); err != nil {
		return sum, err
	}

	bootCtx, cancel := context.WithTimeout(ctx, cfg.Export.BootstrapTimeout.Std())
	defer cancel()
	if err := session.Bootstrap(bootCtx, cfg.Site.BaseURL); err != nil {
		return sum, err
	}

	html, err := session.HTML()
	if err != nil {
		return sum, models.NewExportError(
			models.ErrCodeMenuNotFound,
			"could not read the rendered page",
			err,
		)
	}

	selector, links, err := nav.Discover(html)
	if err != nil {
		return sum, err
	}
	slog.Info("menu found", "selector", selector, "sections", len(links))

	// Collect all URLs up front so later navigations cannot invalidate
	// the link list.
	items := make([]models.MenuItem, 0, len(links))
	for i, l := range links {
		items = append(items, models.MenuItem{
			Index: i + 1,
			Label: l.Label,
			URL:   siteurl.Normalize(l.Href, cfg.Site.BaseURL, cfg.Site.SitesHost),
		})
	}

	exporter := export.New(session, cfg.Export, cfg.Site.BaseURL)
	sum, err = exporter.Run(ctx, items)
	sum.Selector = selector
	return sum, err
}

func exitCodeFor(err error) int {
	var exportErr *models.ExportError
	if !errors.As(err, &exportErr) {
		return exitFailure
	}
	switch exportErr.Code {
	case models.ErrCodeConfig:
		return exitConfig
	case models.ErrCodeAuth:
		return exitAuth
	case models.ErrCodeMenuNotFound:
		return exitDiscovery
	default:
		return exitFailure
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
