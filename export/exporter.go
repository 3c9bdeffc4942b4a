// Package export drives the per-page export loop: derive a filename,
// skip what already exists, otherwise navigate and render to PDF.
package export

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/use-agent/sitepdf/config"
	"github.com/use-agent/sitepdf/models"
	"github.com/use-agent/sitepdf/siteurl"
)

// PageVisitor is the slice of the browser session the loop needs.
type PageVisitor interface {
	Visit(ctx context.Context, url string) error
	RenderPDF(ctx context.Context, path string) error
}

// Exporter runs menu items through the visit-and-render loop.
type Exporter struct {
	visitor     PageVisitor
	outputDir   string
	baseURL     string
	pageTimeout time.Duration
}

// New builds an Exporter over the given visitor.
func New(v PageVisitor, cfg config.ExportConfig, baseURL string) *Exporter {
	return &Exporter{
		visitor:     v,
		outputDir:   cfg.OutputDir,
		baseURL:     baseURL,
		pageTimeout: cfg.PageTimeout.Std(),
	}
}

// Run exports every item in discovery order.
//
// A pre-existing <outputDir>/<slug>.pdf counts as skipped and triggers
// no navigation or render work, which is what makes re-runs resumable.
// One item's failure is logged and absorbed; only run-level cancellation
// stops the loop early.
func (e *Exporter) Run(ctx context.Context, items []models.MenuItem) (models.Summary, error) {
	var sum models.Summary

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return sum, models.NewExportError(
			models.ErrCodeConfig,
			"could not create output directory "+e.outputDir,
			err,
		)
	}

	total := len(items)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return sum, models.NewExportError(models.ErrCodeTimeout, "run canceled", err)
		}

		name := siteurl.Filename(item.URL, e.baseURL)
		path := filepath.Join(e.outputDir, name+".pdf")

		if _, err := os.Stat(path); err == nil {
			slog.Info("skipped, file exists",
				"index", item.Index, "total", total, "label", item.Label, "file", path)
			sum.Add(models.ItemResult{Item: item, Status: models.StatusSkipped, File: path})
			continue
		}

		slog.Info("exporting",
			"index", item.Index, "total", total, "label", item.Label, "url", item.URL)

		if err := e.exportOne(ctx, item.URL, path); err != nil {
			stage := "navigate"
			var exportErr *models.ExportError
			if errors.As(err, &exportErr) && exportErr.Code == models.ErrCodeRender {
				stage = "render"
			}
			slog.Warn("export failed, continuing",
				"index", item.Index, "label", item.Label,
				"stage", stage, "error", truncate(err.Error(), 120))
			sum.Add(models.ItemResult{Item: item, Status: models.StatusErrored, Err: err})
			continue
		}

		sum.Add(models.ItemResult{Item: item, Status: models.StatusProcessed, File: path})
	}

	return sum, nil
}

// exportOne navigates to the item's URL and renders it, all within the
// per-page timeout. Per-page loads are lighter than the bootstrap, so
// the bound is shorter.
func (e *Exporter) exportOne(ctx context.Context, url, path string) error {
	pageCtx, cancel := context.WithTimeout(ctx, e.pageTimeout)
	defer cancel()

	if err := e.visitor.Visit(pageCtx, url); err != nil {
		return err
	}
	return e.visitor.RenderPDF(pageCtx, path)
}

// truncate shortens long error text for the per-item log line.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
