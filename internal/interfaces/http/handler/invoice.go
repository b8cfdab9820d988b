package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/guidebooker/invoice-service/internal/application/invoicing"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/dto"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/middleware"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/router"
)

// InvoiceHandler turns booking payloads into downloadable PDF invoices
type InvoiceHandler struct {
	BaseHandler
	service *invoicing.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *invoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /invoices.
// The response body is the PDF itself, offered as an attachment named
// after the invoice number.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	rec, err := req.ToRecord()
	if err != nil {
		h.ValidationError(c, "Request validation failed", []dto.ValidationDetail{
			{Field: "body", Message: err.Error()},
		})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), rec)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// bindError maps binder failures onto 413 or 422 responses
func (h *InvoiceHandler) bindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.ValidationError(c, "Request validation failed", middleware.ValidationDetails(validationErrs))
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.RequestTooLarge(c, "Request body exceeds maximum allowed size")
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		h.ValidationError(c, "Request validation failed", []dto.ValidationDetail{
			{Field: field, Message: "Must be of type " + typeErr.Type.String()},
		})
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		h.ValidationError(c, "Request body is not valid JSON", []dto.ValidationDetail{
			{Field: "body", Message: "Malformed JSON"},
		})
		return
	}

	h.ValidationError(c, "Request validation failed", []dto.ValidationDetail{
		{Field: "body", Message: err.Error()},
	})
}

// InvoiceRoutes mounts POST /invoices
func InvoiceRoutes(h *InvoiceHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("invoices", "/invoices")
	dg.POST("", h.Create)
	return dg
}
