package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	applicationdomain "github.com/lotkeeper/lotkeeper/internal/application/domain"
	historydomain "github.com/lotkeeper/lotkeeper/internal/history/domain"
	inquirydomain "github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
	inventorydomain "github.com/lotkeeper/lotkeeper/internal/inventory/domain"
	"github.com/lotkeeper/lotkeeper/internal/providers/drive"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog exposes the error taxonomy to the request logger
// without writing a response.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, vehicledomain.ErrSlugConflict),
		errors.Is(err, vehicledomain.ErrVINConflict),
		errors.Is(err, inventorydomain.ErrSyncInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, inventorydomain.ErrNoSource),
		errors.Is(err, drive.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, inventorydomain.ErrSyncInProgress):
		return "a sync is already in progress"
	case errors.Is(err, vehicledomain.ErrVINConflict):
		return "a vehicle with this vin already exists"
	case errors.Is(err, vehicledomain.ErrSlugConflict):
		return "a vehicle with this slug already exists"
	default:
		return "conflict"
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isVehicleValidationError(err),
		isInquiryValidationError(err),
		isApplicationValidationError(err):
		return true
	case errors.Is(err, inventorydomain.ErrEmptyInput),
		errors.Is(err, drive.ErrBadFolderURL),
		errors.Is(err, historydomain.ErrInvalidVIN):
		return true
	default:
		return false
	}
}

func isVehicleValidationError(err error) bool {
	return errors.Is(err, vehicledomain.ErrInvalidYear) ||
		errors.Is(err, vehicledomain.ErrInvalidMake) ||
		errors.Is(err, vehicledomain.ErrInvalidModel) ||
		errors.Is(err, vehicledomain.ErrInvalidID) ||
		errors.Is(err, vehicledomain.ErrInvalidImage)
}

func isInquiryValidationError(err error) bool {
	return errors.Is(err, inquirydomain.ErrInvalidName) ||
		errors.Is(err, inquirydomain.ErrInvalidEmail) ||
		errors.Is(err, inquirydomain.ErrInvalidMessage) ||
		errors.Is(err, inquirydomain.ErrInvalidStatus) ||
		errors.Is(err, inquirydomain.ErrInvalidID)
}

func isApplicationValidationError(err error) bool {
	return errors.Is(err, applicationdomain.ErrInvalidName) ||
		errors.Is(err, applicationdomain.ErrInvalidEmail) ||
		errors.Is(err, applicationdomain.ErrInvalidStatus) ||
		errors.Is(err, applicationdomain.ErrInvalidID)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, vehicledomain.ErrNotFound),
		errors.Is(err, inquirydomain.ErrNotFound),
		errors.Is(err, applicationdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_input":
		return "no rows found in pasted sheet data"
	case "invalid_folder_url":
		return "not a valid drive folder url"
	default:
		return "invalid value"
	}
}
