package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/receiptbook/core/binder"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func jsonRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("binds values unchanged", func(t *testing.T) {
		t.Parallel()

		var got credentials
		req := jsonRequest(`{"email":" A@B.C ","password":"  <p@ss> "}`, "application/json; charset=utf-8")
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, " A@B.C ", got.Email)
		assert.Equal(t, "  <p@ss> ", got.Password)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		want        error
	}{
		{"missing content type", `{}`, "", binder.ErrMissingContentType},
		{"wrong content type", `{}`, "text/plain", binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", binder.ErrFailedToParseJSON},
		{"invalid json", `{"email":`, "application/json", binder.ErrFailedToParseJSON},
		{"unknown field", `{"email":"a","admin":true}`, "application/json", binder.ErrFailedToParseJSON},
		{"wrong type", `{"email":1}`, "application/json", binder.ErrFailedToParseJSON},
		{"trailing data", `{"email":"a"}{"email":"b"}`, "application/json", binder.ErrFailedToParseJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got credentials
			assert.ErrorIs(t, binder.JSON()(jsonRequest(tt.body, tt.contentType), &got), tt.want)
		})
	}
}

func TestJSONWithLimit(t *testing.T) {
	t.Parallel()

	var got credentials
	req := jsonRequest(`{"email":"`+strings.Repeat("a", 64)+`"}`, "application/json")
	assert.ErrorIs(t, binder.JSONWithLimit(32)(req, &got), binder.ErrBodyTooLarge)
}
