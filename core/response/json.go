package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// Created creates an application/json response with 201 Created status.
func Created(v any) handler.Response {
	return JSONWithStatus(v, http.StatusCreated)
}

// JSONWithStatus creates an application/json response with custom status code.
// A zero status means 200, or 204 when v is nil.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}

		if status == http.StatusNoContent || status == http.StatusNotModified {
			w.WriteHeader(status)
			return nil
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		return json.NewEncoder(w).Encode(v)
	}
}
