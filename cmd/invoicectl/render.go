package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guidebooker/invoice-service/internal/application/invoicing"
	"github.com/guidebooker/invoice-service/internal/domain/invoice"
	"github.com/guidebooker/invoice-service/internal/infrastructure/config"
	"github.com/guidebooker/invoice-service/internal/infrastructure/logger"
	"github.com/guidebooker/invoice-service/internal/infrastructure/printing"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/dto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type renderOptions struct {
	*rootOptions
	input      string
	output     string
	noCompress bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a booking file to a PDF invoice",
		Long: `Render reads a booking record in JSON or YAML, validates it and writes
the invoice PDF. The output defaults to <invoice_number>.pdf in the
current directory.`,
		Example: `  invoicectl render --input booking.json
  invoicectl render --input booking.yaml --output out/INV-2026-001.pdf --no-compress`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "booking file (.json, .yaml or .yml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "PDF file to write")
	cmd.Flags().BoolVar(&opts.noCompress, "no-compress", false, "write uncompressed content streams")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (o *renderOptions) run(cmd *cobra.Command) error {
	log, err := o.newLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	data, err := os.ReadFile(o.input)
	if err != nil {
		return fmt.Errorf("failed to read booking file: %w", err)
	}
	rec, err := decodeRecord(data, filepath.Ext(o.input))
	if err != nil {
		return err
	}
	if err := invoicing.ValidateRecord(rec); err != nil {
		return err
	}

	rc, err := o.rendererConfig()
	if err != nil {
		return err
	}
	renderer, err := printing.NewInvoiceRenderer(rc)
	if err != nil {
		return err
	}
	service := invoicing.NewInvoiceService(renderer, invoicing.WithLogger(log))

	ctx := logger.WithContext(cmd.Context(), log)
	result, err := service.Generate(ctx, rec)
	if err != nil {
		return err
	}

	output := o.output
	if output == "" {
		output = result.Filename
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write invoice: %w", err)
	}

	log.Debug("Invoice written", zap.String("path", output), zap.Int("pages", result.Pages))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d page(s), %d bytes)\n", output, result.Pages, len(result.Data))
	return nil
}

func (o *renderOptions) rendererConfig() (printing.RendererConfig, error) {
	rc := printing.DefaultRendererConfig()
	if o.configFile != "" {
		cfg, err := config.LoadFile(o.configFile)
		if err != nil {
			return rc, err
		}
		rc = printing.RendererConfigFromSettings(cfg.Render)
	}
	if o.noCompress {
		rc.Compress = false
	}
	return rc, nil
}

// decodeRecord parses a booking file in the same shape as the POST /invoices
// body. YAML is converted to JSON first so both formats share one decoder.
func decodeRecord(data []byte, ext string) (*invoice.Record, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML booking: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML booking: %w", err)
		}
		data = converted
	case ".json", "":
	default:
		return nil, fmt.Errorf("unsupported booking file type %q", ext)
	}

	var req dto.CreateInvoiceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse booking: %w", err)
	}
	return req.ToRecord()
}
