package receiptbook

import (
	"strconv"

	"github.com/dmitrymomot/receiptbook/app/receiptbook/document"
	"github.com/dmitrymomot/receiptbook/core/handler"
	"github.com/dmitrymomot/receiptbook/core/response"
)

type documentsResponse struct {
	Documents []document.Document `json:"documents"`
}

func (a *App) listDocuments(ctx *Context) handler.Response {
	q := ctx.Request().URL.Query()

	params := document.ListParams{CompanyID: q.Get("company_id")}
	for name, dst := range map[string]*int{"limit": &params.Limit, "offset": &params.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return response.Error(response.ErrBadRequest.WithMessage(name + " must be a non-negative integer"))
		}
		*dst = n
	}

	docs, err := a.documents.List(ctx, ctx.Principal(), params)
	if err != nil {
		return fail(err)
	}
	if docs == nil {
		docs = []document.Document{}
	}
	return response.JSON(documentsResponse{Documents: docs})
}

// downloadDocument streams the file inline. It accepts the token in the
// query string so documents can be opened from plain links.
func (a *App) downloadDocument(ctx *Context) handler.Response {
	file, err := a.documents.Open(ctx, ctx.Principal(), ctx.Param("id"))
	if err != nil {
		return fail(err)
	}
	return response.Inline(file.Body, file.Document.Filename, file.ContentType, file.ContentLength)
}
