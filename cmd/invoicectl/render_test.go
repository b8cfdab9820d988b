package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/guidebooker/invoice-service/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookingJSON = `{
	"invoice_number": "INV-2026-001",
	"customer_name": "Jane Doe",
	"customer_email": "jane@example.com",
	"customer_address": "123 Main St, Bangkok 10110",
	"booking_date": "2026-02-17",
	"due_date": "2026-03-17",
	"guide_name": "Somchai Jaidee",
	"items": [
		{"description": "City Walking Tour", "quantity": 2, "unit_price": 75.00}
	],
	"tax_rate": 7.0,
	"discount": 10.00
}`

const bookingYAML = `invoice_number: INV-2026-002
customer_name: Jane Doe
customer_email: jane@example.com
customer_address: 123 Main St, Bangkok 10110
booking_date: 2026-02-17
due_date: 2026-03-17
guide_name: Somchai Jaidee
items:
  - description: Temple Guide
    quantity: 1
    unit_price: 45.00
notes: See you soon
currency: EUR
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDecodeRecord(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		rec, err := decodeRecord([]byte(bookingJSON), ".json")
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-001", rec.InvoiceNumber)
		assert.Equal(t, "USD", rec.Currency)
		assert.Nil(t, rec.Notes)
		require.Len(t, rec.Items, 1)
		assert.Equal(t, 2, rec.Items[0].Quantity)
	})

	t.Run("yaml", func(t *testing.T) {
		rec, err := decodeRecord([]byte(bookingYAML), ".YML")
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-002", rec.InvoiceNumber)
		assert.Equal(t, "EUR", rec.Currency)
		require.NotNil(t, rec.Notes)
		assert.Equal(t, "See you soon", *rec.Notes)
		assert.Equal(t, 2026, rec.BookingDate.Year())
		assert.Equal(t, "45", rec.Items[0].UnitPrice.String())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := decodeRecord([]byte(bookingJSON), ".csv")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := decodeRecord([]byte(`{"invoice_number":`), ".json")
		assert.Error(t, err)
	})
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("json to explicit output", func(t *testing.T) {
		input := writeFile(t, dir, "booking.json", bookingJSON)
		output := filepath.Join(dir, "out", "invoice.pdf")

		out, err := execute(t, "render", "--input", input, "--output", output)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote "+output)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("yaml uncompressed", func(t *testing.T) {
		input := writeFile(t, dir, "booking.yaml", bookingYAML)
		output := filepath.Join(dir, "INV-2026-002.pdf")

		_, err := execute(t, "render", "-i", input, "-o", output, "--no-compress")
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "INV-2026-002")
	})

	t.Run("validation failure", func(t *testing.T) {
		input := writeFile(t, dir, "bad.json", `{
			"invoice_number": "INV-BAD",
			"booking_date": "2026-02-17",
			"due_date": "2026-03-17",
			"items": [{"description": "Tour", "quantity": 0, "unit_price": -1}],
			"tax_rate": 120
		}`)

		_, err := execute(t, "render", "--input", input, "--output", filepath.Join(dir, "bad.pdf"))
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		fields := make([]string, 0, len(domainErr.Violations))
		for _, v := range domainErr.Violations {
			fields = append(fields, v.Field)
		}
		assert.Equal(t, []string{"items[0].quantity", "items[0].unit_price", "tax_rate"}, fields)
		assert.NoFileExists(t, filepath.Join(dir, "bad.pdf"))
	})

	t.Run("missing input flag", func(t *testing.T) {
		_, err := execute(t, "render")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "render", "--input", filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "invoicectl")
	assert.Contains(t, out, "Version:    dev")
	assert.Contains(t, out, "Go Version: go")
}
