package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestExportError_Formatting(t *testing.T) {
	base := errors.New("connection refused")

	withCause := NewExportError(ErrCodeNavigation, "navigation failed", base)
	if got, want := withCause.Error(), "NAVIGATION_FAILED: navigation failed: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := NewExportError(ErrCodeAuth, "cookies rejected", nil)
	if got, want := bare.Error(), "AUTH_REQUIRED: cookies rejected"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestExportError_Unwrap(t *testing.T) {
	base := errors.New("root cause")
	wrapped := fmt.Errorf("outer: %w", NewExportError(ErrCodeRender, "render failed", base))

	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should reach the root cause through the chain")
	}

	var exportErr *ExportError
	if !errors.As(wrapped, &exportErr) {
		t.Fatal("errors.As should find the ExportError")
	}
	if exportErr.Code != ErrCodeRender {
		t.Errorf("Code = %q, want %q", exportErr.Code, ErrCodeRender)
	}
}

func TestSummary_Add(t *testing.T) {
	var s Summary
	s.Add(ItemResult{Status: StatusProcessed})
	s.Add(ItemResult{Status: StatusProcessed})
	s.Add(ItemResult{Status: StatusSkipped})
	s.Add(ItemResult{Status: StatusErrored})

	if s.Processed != 2 || s.Skipped != 1 || s.Errored != 1 {
		t.Errorf("counters = %d/%d/%d, want 2/1/1", s.Processed, s.Skipped, s.Errored)
	}
	if len(s.Results) != 4 {
		t.Errorf("results = %d, want 4", len(s.Results))
	}
}
