package health

import (
	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
)

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
//
// Example:
//
//	r.Get("/health/live", health.Liveness[*receiptbook.Context])
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}
