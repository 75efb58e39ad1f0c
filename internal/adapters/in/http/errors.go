package http

import (
	"errors"
	"net/http"

	"github.com/chenguojun06-star/fz66666-sub006/internal/core/application/progress"
	"github.com/chenguojun06-star/fz66666-sub006/internal/core/ports"
	"github.com/chenguojun06-star/fz66666-sub006/internal/generated/servers"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeStaleVersion     = "STALE_VERSION"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every rejected request.
type ErrorResponse = servers.Error

// statusOf maps an application error onto an HTTP status and a stable code.
// Rule violations keep their own code; the rest get a category code.
func statusOf(err error) (int, string) {
	if code, ok := errs.RuleCode(err); ok {
		switch {
		case errors.Is(err, progress.ErrConcurrentUpdateExhausted):
			return http.StatusServiceUnavailable, code
		case errors.Is(err, errs.ErrPreconditionFailed):
			return http.StatusUnprocessableEntity, code
		case errors.Is(err, errs.ErrConflict):
			return http.StatusConflict, code
		}
	}

	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, CodeValidationFailed
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ports.ErrStaleVersion):
		return http.StatusConflict, CodeStaleVersion
	}
	return http.StatusInternalServerError, CodeInternal
}

// writeError renders err as an ErrorResponse. Internal errors are logged and
// their message is not exposed.
func writeError(c echo.Context, logger *zap.Logger, err error) error {
	status, code := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		message = "internal error"
	}
	return c.JSON(status, ErrorResponse{Success: false, Code: code, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Code: CodeValidationFailed, Message: message})
}

// ErrorHandler renders errors that reach echo, such as unknown routes and
// parameters the generated wrapper cannot bind, as an ErrorResponse.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = writeError(c, logger, err)
			return
		}

		code := CodeInternal
		switch he.Code {
		case http.StatusBadRequest:
			code = CodeValidationFailed
		case http.StatusNotFound:
			code = CodeNotFound
		}

		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && he.Code < http.StatusInternalServerError {
			message = m
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, ErrorResponse{Success: false, Code: code, Message: message})
	}
}
