package server

import (
	"errors"
	"net/http"
	"strings"

	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/money"
	orderdomain "github.com/anoralabs/storefront/internal/order/domain"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	subscriptiondomain "github.com/anoralabs/storefront/internal/subscription/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
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
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
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

	var oos *orderdomain.OutOfStockError
	var gone *orderdomain.ProductGoneError
	var transition *orderdomain.TransitionError

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, orderdomain.ErrUnauthenticated),
		errors.Is(err, cartdomain.ErrUnauthenticated),
		errors.Is(err, subscriptiondomain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.As(err, &oos):
		return http.StatusConflict, errorPayload{
			Type:    "out_of_stock",
			Message: "product " + oos.ProductID + " is out of stock",
		}
	case errors.As(err, &gone):
		return http.StatusConflict, errorPayload{
			Type:    "product_gone",
			Message: "product " + gone.ProductID + " is no longer available",
		}
	case errors.As(err, &transition):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_transition",
			Message: "cannot transition order from " + string(transition.From) + " to " + string(transition.To),
		}
	case errors.Is(err, orderdomain.ErrFinalizeInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "finalize_in_progress",
			Message: "a finalization for this user is already in flight",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, catalogdomain.ErrSlugTaken):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, money.ErrArithmetic):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "arithmetic_error",
			Message: "amount out of range",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
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
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, cartdomain.ErrEmptyCart),
		errors.Is(err, cartdomain.ErrInvalidProduct),
		errors.Is(err, cartdomain.ErrInvalidQuantity),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrInvalidProductType),
		errors.Is(err, catalogdomain.ErrInvalidRoastLevel),
		errors.Is(err, catalogdomain.ErrInvalidRegion),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidStatus),
		errors.Is(err, orderdomain.ErrInvalidRegion),
		errors.Is(err, orderdomain.ErrIncompleteAddress),
		errors.Is(err, orderdomain.ErrMissingIdempotencyKey),
		errors.Is(err, orderdomain.ErrInvalidPageToken),
		errors.Is(err, regiondomain.ErrInvalidCode),
		errors.Is(err, subscriptiondomain.ErrInvalidID),
		errors.Is(err, subscriptiondomain.ErrCancelled):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, cartdomain.ErrProductNotFound),
		errors.Is(err, cartdomain.ErrItemNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, regiondomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_cart":
		return "cart is empty"
	case "missing_idempotency_key":
		return "Idempotency-Key header is required"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog buckets errors for request log fields without leaking
// internals into the access log.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusUnauthorized:
		return "auth", payload.Type
	case status == http.StatusNotFound:
		return "not_found", payload.Type
	case status == http.StatusConflict:
		return "conflict", payload.Type
	default:
		return "client", payload.Type
	}
}
