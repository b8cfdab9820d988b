package printing

import (
	"bytes"
	"time"

	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/domain/printing"
	"github.com/jung-kurt/gofpdf"
)

// RendererConfig controls page geometry and output of the invoice renderer
type RendererConfig struct {
	// PaperSize defines the output paper dimensions
	PaperSize printing.PaperSize
	// Orientation defines portrait or landscape
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	// Compress enables stream compression in the PDF output
	Compress bool
	// Brand is printed in the header band and footer
	Brand Brand
}

// DefaultRendererConfig returns A4 portrait with 20mm margins
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.InvoiceMargins(),
		Compress:    true,
		Brand:       DefaultBrand(),
	}
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// Layout describes where every region landed
	Layout LayoutReport
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// Renderer turns an invoice record into PDF bytes
type Renderer interface {
	Render(rec *invoice.Record) ([]byte, error)
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeLayoutOverflow   = "LAYOUT_OVERFLOW"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvoiceRenderer renders invoices with the gofpdf core fonts.
// It holds only immutable configuration and is safe for concurrent use.
type InvoiceRenderer struct {
	config RendererConfig
	styles StyleSheet
}

// NewInvoiceRenderer creates a renderer, validating the page configuration
func NewInvoiceRenderer(config RendererConfig) (*InvoiceRenderer, error) {
	if !config.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "unsupported paper size: "+config.PaperSize.String(), nil)
	}
	if config.Orientation == "" {
		config.Orientation = printing.OrientationPortrait
	}
	if !config.Orientation.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "unsupported orientation: "+config.Orientation.String(), nil)
	}
	if config.Brand == (Brand{}) {
		config.Brand = DefaultBrand()
	}
	return &InvoiceRenderer{
		config: config,
		styles: DefaultStyleSheet(),
	}, nil
}

// Config returns the renderer configuration
func (r *InvoiceRenderer) Config() RendererConfig {
	return r.config
}

// Render produces the PDF bytes for rec
func (r *InvoiceRenderer) Render(rec *invoice.Record) ([]byte, error) {
	result, err := r.RenderDocument(rec)
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// RenderDocument produces the PDF together with its pagination report
func (r *InvoiceRenderer) RenderDocument(rec *invoice.Record) (*RenderResult, error) {
	if rec == nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "record is nil", nil)
	}
	start := time.Now()

	doc := BuildDocument(rec, r.styles, r.config.Brand)

	pageW, pageH := printing.PageSize(r.config.PaperSize, r.config.Orientation)
	m := r.config.Margins

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(m.Left, m.Top, m.Right)
	pdf.SetAutoPageBreak(false, m.Bottom)
	pdf.SetCellMargin(0)
	pdf.SetCompression(r.config.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(rec.BookingDate.UTC().Truncate(24 * time.Hour))
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator(doc.Author, true)

	c := newComposer(pdf, pageW, pageH, m.Left, m.Top, m.Right, m.Bottom)
	if err := c.compose(doc); err != nil {
		pdf.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	return &RenderResult{
		PDFData:        buf.Bytes(),
		PageCount:      c.report.Pages,
		Layout:         c.report,
		RenderDuration: time.Since(start),
	}, nil
}
