package response

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/receiptbook/core/handler"
)

// Inline streams reader to the client for in-browser display.
// size is sent as Content-Length when positive. The reader is closed when
// it implements io.Closer.
func Inline(reader io.Reader, filename, contentType string, size int64) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if c, ok := reader.(io.Closer); ok {
			defer c.Close()
		}

		name := sanitizeFilename(filename)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, name))

		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(name))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Content-Type-Options", "nosniff")

		if size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		}

		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, reader)
		return err
	}
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	return strings.ReplaceAll(name, "\"", "'")
}
