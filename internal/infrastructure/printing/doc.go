// Package printing renders invoice records into paginated PDF documents
// using the gofpdf core fonts.
//
// Rendering happens in two steps. BuildDocument translates a record into an
// ordered flow of regions (header band, info band, item table, totals,
// optional notes, footer). The composer then measures that flow and paints
// it, breaking pages itself: regions move whole to the next page, while the
// item table breaks between rows and repeats its header row.
//
// Example usage:
//
//	renderer, err := NewInvoiceRenderer(DefaultRendererConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := renderer.Render(rec)
//	if err != nil {
//	    var renderErr *RenderError
//	    if errors.As(err, &renderErr) {
//	        log.Printf("render failed: %s", renderErr.Code)
//	    }
//	}
package printing
