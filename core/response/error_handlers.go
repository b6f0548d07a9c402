package response

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/logger"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// ToHTTPError converts any error to an HTTPError. Causes of errors that are
// not HTTPErrors are never copied into the result.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	if base, ok := httpErrorsByStatus[status]; ok {
		return base
	}
	return ErrInternalServerError
}

// JSONErrorHandler renders errors as JSON without logging.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := ToHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

// JSONErrorHandlerWithLogger renders errors as JSON and logs server-side
// failures with their original cause.
func JSONErrorHandlerWithLogger[C handler.Context](log *slog.Logger) handler.ErrorHandler[C] {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(ctx C, err error) {
		httpErr := ToHTTPError(err)
		if httpErr.Status >= http.StatusInternalServerError {
			req := ctx.Request()
			log.ErrorContext(ctx, "request failed",
				logger.Error(err),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.StatusCode(httpErr.Status),
			)
		}
		Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
	}
}
