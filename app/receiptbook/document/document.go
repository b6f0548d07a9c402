package document

import (
	"errors"
	"io"
	"time"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrCompanyRequired = errors.New("company_id is required")
	ErrBlobMissing     = errors.New("document file is missing from storage")
)

// Document is the metadata of an uploaded receipt or invoice. The file
// itself lives in the blob store under StorageKey.
type Document struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	StorageKey  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// File is an opened document. The caller must close Body.
type File struct {
	Document      *Document
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}
