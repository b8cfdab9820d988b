package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guidebooker/invoice-service/internal/domain/shared"
	"github.com/guidebooker/invoice-service/internal/infrastructure/printing"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/dto"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID returns the ID assigned by the RequestID middleware,
// falling back to the inbound header when the middleware did not run.
func getRequestID(c *gin.Context) string {
	if id := middleware.GetRequestID(c); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// RequestTooLarge sends a 413 response
func (h *BaseHandler) RequestTooLarge(c *gin.Context, message string) {
	h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 422 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, message string, details []dto.ValidationDetail) {
	if message == "" {
		message = "Request validation failed"
	}
	c.JSON(http.StatusUnprocessableEntity, dto.NewValidationErrorResponse(
		message,
		getRequestID(c),
		details,
	))
}

// HandleError converts domain and render errors to HTTP responses.
// Anything else is reported as an internal error without its message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		if code == dto.ErrCodeValidation {
			h.ValidationError(c, domainErr.Message, violationDetails(domainErr.Violations))
			return
		}
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeRenderFailed, "Failed to render invoice document")
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}

func violationDetails(violations []shared.FieldViolation) []dto.ValidationDetail {
	if len(violations) == 0 {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(violations))
	for _, v := range violations {
		details = append(details, dto.ValidationDetail{Field: v.Field, Message: v.Message})
	}
	return details
}
