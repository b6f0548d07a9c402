// Package response builds handler.Response values: JSON bodies, plain text,
// streamed files and structured errors.
//
// Handlers return a response instead of writing to the ResponseWriter
// directly; the router renders it and routes any returned error through its
// error handler.
//
//	func getUser(ctx *app.Context) handler.Response {
//		user, err := users.Get(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.JSON(user)
//	}
//
// # Errors
//
// HTTPError carries a status, a machine-readable code and a message. It is
// rendered as {"code": "...", "message": "..."}:
//
//	response.Error(response.ErrConflict.WithCode("email_taken").WithMessage("Email is already registered"))
//
// JSONErrorHandler converts any error into an HTTPError. Errors that expose
// StatusCode() int keep their status; everything else becomes a 500. The
// original error text of non-HTTPError values is never sent to the client,
// JSONErrorHandlerWithLogger logs it instead.
//
// # Files
//
// Inline streams an io.Reader with an inline Content-Disposition,
// Content-Type and, when known, Content-Length:
//
//	return response.NoStore(response.Inline(body, doc.FileName, doc.ContentType, doc.SizeBytes))
package response
