package browser

import (
	"context"
	"io"
	"os"

	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/use-agent/sitepdf/models"
)

// A4 paper and a uniform 1cm margin, in inches as CDP wants them.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.394
)

// RenderPDF prints the current page to an A4 PDF at path, with
// background graphics and uniform margins.
func (s *Session) RenderPDF(ctx context.Context, path string) error {
	p := s.page.Context(ctx)

	stream, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(paperWidthIn),
		PaperHeight:     gson.Num(paperHeightIn),
		MarginTop:       gson.Num(marginIn),
		MarginBottom:    gson.Num(marginIn),
		MarginLeft:      gson.Num(marginIn),
		MarginRight:     gson.Num(marginIn),
	})
	if err != nil {
		return models.NewExportError(models.ErrCodeRender, "print to PDF failed", err)
	}

	bin, err := io.ReadAll(stream)
	if err != nil {
		return models.NewExportError(models.ErrCodeRender, "reading PDF stream failed", err)
	}

	if err := os.WriteFile(path, bin, 0o644); err != nil {
		return models.NewExportError(models.ErrCodeRender, "writing PDF file failed", err)
	}
	return nil
}
