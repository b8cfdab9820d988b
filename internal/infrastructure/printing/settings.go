package printing

import (
	"strings"

	"github.com/guidebooker/invoice-service/internal/domain/printing"
	"github.com/guidebooker/invoice-service/internal/infrastructure/config"
)

// RendererConfigFromSettings maps the render section of the service
// configuration onto a RendererConfig. Empty fields keep their defaults.
func RendererConfigFromSettings(cfg config.RenderConfig) RendererConfig {
	rc := DefaultRendererConfig()
	rc.Compress = cfg.Compress

	if cfg.PaperSize != "" {
		rc.PaperSize = printing.PaperSize(strings.ToUpper(cfg.PaperSize))
	}
	if cfg.Orientation != "" {
		rc.Orientation = printing.Orientation(strings.ToUpper(cfg.Orientation))
	}
	if cfg.MarginMM > 0 {
		rc.Margins = printing.UniformMargins(cfg.MarginMM)
	}
	if cfg.BrandName != "" {
		rc.Brand.Name = cfg.BrandName
	}
	if cfg.Tagline != "" {
		rc.Brand.Tagline = cfg.Tagline
	}
	if cfg.Disclaimer != "" {
		rc.Brand.Disclaimer = cfg.Disclaimer
	}
	return rc
}
