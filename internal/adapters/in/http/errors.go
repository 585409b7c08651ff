package http

import (
	"errors"
	"net/http"

	"gasdelivery/internal/core/application/mirror"
	"gasdelivery/internal/core/application/usecases/commands"
	"gasdelivery/internal/core/application/usecases/queries"
	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"
	"gasdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error codes returned in Error.Code.
const (
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeQRMismatch        = "QR_MISMATCH"
	CodeInvalidCylinders  = "INVALID_CYLINDERS"
	CodeValidation        = "VALIDATION_ERROR"
	CodePaymentDeclined   = "PAYMENT_DECLINED"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyCleared    = "ALREADY_CLEARED"
	CodeConflict          = "CONFLICT"
	CodeDriverUnavailable = "DRIVER_UNAVAILABLE"
	CodeMirrorUnavailable = "MIRROR_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// mapError turns an application error into a status code and body.
func mapError(err error) (int, Error) {
	var transition *order.TransitionIsInvalidError
	switch {
	case errors.As(err, &transition):
		return http.StatusBadRequest, Error{Code: CodeInvalidTransition, Message: err.Error(), Status: transition.Current.String()}
	case errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusBadRequest, Error{Code: CodeInsufficientStock, Message: err.Error()}
	case errors.Is(err, order.ErrQRMismatch):
		return http.StatusBadRequest, Error{Code: CodeQRMismatch, Message: err.Error()}
	case errors.Is(err, order.ErrCylinderCodesInvalid),
		errors.Is(err, cylinder.ErrOwnedByAnotherBuyer),
		errors.Is(err, cylinder.ErrSizeMismatch):
		return http.StatusBadRequest, Error{Code: CodeInvalidCylinders, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, Error{Code: CodeValidation, Message: err.Error()}
	case errors.Is(err, commands.ErrPaymentDeclined):
		return http.StatusPaymentRequired, Error{Code: CodePaymentDeclined, Message: err.Error()}
	case errors.Is(err, commands.ErrForbidden),
		errors.Is(err, queries.ErrForbidden),
		errors.Is(err, order.ErrDriverMismatch):
		return http.StatusForbidden, Error{Code: CodeForbidden, Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, ledger.ErrAlreadyCleared):
		return http.StatusConflict, Error{Code: CodeAlreadyCleared, Message: err.Error()}
	case errors.Is(err, services.ErrDriverUnavailable),
		errors.Is(err, driver.ErrDriverNotAvailable):
		return http.StatusConflict, Error{Code: CodeDriverUnavailable, Message: err.Error()}
	case errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, commands.ErrRequestInProgress):
		return http.StatusConflict, Error{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, mirror.ErrSyncFailure):
		return http.StatusServiceUnavailable, Error{Code: CodeMirrorUnavailable, Message: err.Error()}
	default:
		return http.StatusInternalServerError, Error{Code: CodeInternal, Message: "internal error"}
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: CodeValidation, Message: message})
}

// httpErrorHandler renders echo's own errors (unknown route, wrong method) in the Error shape.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := CodeValidation
		switch he.Code {
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusUnauthorized:
			code = CodeUnauthorized
		case http.StatusForbidden:
			code = CodeForbidden
		case http.StatusInternalServerError:
			code = CodeInternal
		}
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		_ = c.JSON(he.Code, Error{Code: code, Message: message})
		return
	}

	_ = s.fail(c, err)
}
