package receiptbook

import (
	"net/http"

	"github.com/dmitrymomot/receiptbook/core/router"
	"github.com/dmitrymomot/receiptbook/middleware"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

// Context is the request context of every receiptbook handler.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// Principal returns the verified token claims, or nil on public routes.
func (c *Context) Principal() *jwt.Claims {
	claims, _ := middleware.GetPrincipal(c)
	return claims
}
