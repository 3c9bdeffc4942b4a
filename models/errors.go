package models

import "fmt"

// Error codes used in run diagnostics and exit-code mapping.
const (
	ErrCodeConfig       = "CONFIG_INVALID"
	ErrCodeAuth         = "AUTH_REQUIRED"
	ErrCodeMenuNotFound = "MENU_NOT_FOUND"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeRender       = "RENDER_FAILED"
	ErrCodeTimeout      = "EXPORT_TIMEOUT"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
)

// ExportError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExportError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(code, message string, err error) *ExportError {
	return &ExportError{Code: code, Message: message, Err: err}
}
