// Package invoicing turns validated booking records into invoice PDFs,
// with optional caching, tracing and render metrics.
package invoicing
