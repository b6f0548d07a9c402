package document

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/receiptbook/integration/database/pg"
)

// Repository reads document metadata.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]Document, error)
}

// PostgresRepository reads the documents table.
type PostgresRepository struct {
	db pg.DBTX
}

// NewPostgresRepository creates a repository over db.
func NewPostgresRepository(db pg.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const documentColumns = `id, company_id, filename, content_type, size_bytes, status, storage_key, created_at`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var d Document
	err := pg.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.Status, &d.StorageKey, &d.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE company_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := pg.Conn(ctx, r.db).QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0, limit)
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.CompanyID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.Status, &d.StorageKey, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

var _ Repository = (*PostgresRepository)(nil)
