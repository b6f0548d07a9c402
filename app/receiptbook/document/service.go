package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/integration/storage/s3"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

// Page size limits for List.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// BlobStore opens stored files by key.
type BlobStore interface {
	Open(ctx context.Context, key string) (*s3.Object, error)
}

// Service applies company scoping to document reads.
type Service struct {
	repo   Repository
	blobs  BlobStore
	logger *slog.Logger
}

// NewService creates the document service. A nil log discards output.
func NewService(repo Repository, blobs BlobStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, blobs: blobs, logger: log}
}

// ListParams selects a page of documents.
type ListParams struct {
	// CompanyID is required for admins and ignored for clients, who always
	// see their own company.
	CompanyID string
	Limit     int
	Offset    int
}

// List returns documents visible to principal, newest first.
func (s *Service) List(ctx context.Context, principal *jwt.Claims, p ListParams) ([]Document, error) {
	companyID := principal.Company()
	if principal.HasRole(jwt.RoleAdmin) {
		companyID = p.CompanyID
	}
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	if _, err := uuid.Parse(companyID); err != nil {
		return []Document{}, nil
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)

	return s.repo.ListByCompany(ctx, companyID, limit, max(p.Offset, 0))
}

// Open returns the document with id and a stream of its file. Clients
// get ErrNotFound for documents of other companies, so they cannot probe
// which identifiers exist.
func (s *Service) Open(ctx context.Context, principal *jwt.Claims, id string) (*File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.HasRole(jwt.RoleAdmin) && doc.CompanyID != principal.Company() {
		return nil, ErrNotFound
	}

	obj, err := s.blobs.Open(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, s3.ErrObjectNotFound) {
			s.logger.ErrorContext(ctx, "document file missing",
				slog.String("document_id", doc.ID),
				logger.Error(err),
			)
			return nil, ErrBlobMissing
		}
		return nil, fmt.Errorf("open document %s: %w", doc.ID, err)
	}

	file := &File{
		Document:      doc,
		Body:          obj.Body,
		ContentType:   obj.ContentType,
		ContentLength: obj.ContentLength,
	}
	if file.ContentType == "" {
		file.ContentType = doc.ContentType
	}
	if file.ContentLength <= 0 {
		file.ContentLength = doc.SizeBytes
	}
	return file, nil
}
