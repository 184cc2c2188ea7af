// Package common holds the response envelope, RFC 9457 problem details and
// request binding shared by every HTTP area.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes data inside the standard envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an application/problem+json response for err.
// The status is derived from err unless an int is passed in args; a string in
// args replaces the detail and any other value is reported under "errors".
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   ErrorToStatusCode(err),
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		default:
			pd.Errors = v
		}
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(pd.Status).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTransfer),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrNonZeroBalance),
		errors.Is(err, domain.ErrAccountClosed),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrUserHasAccounts):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExchangeRateUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure the problem response is already written and the returned error
// is the result of writing it.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest, fields)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseUUIDParam parses the named route parameter as a UUID. The error is a
// *fiber.Error carrying status 400.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Params(name), name)
}

// ParseUUIDQuery parses the named query parameter as a UUID.
func ParseUUIDQuery(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseUUID(c.Query(name), name)
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// ParseDecimalQuery parses the named query parameter as a decimal amount.
func ParseDecimalQuery(c *fiber.Ctx, name string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Query(name))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidAmount, name)
	}
	return d, nil
}
