package response

import (
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// Error returns a response that hands err to the router's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
