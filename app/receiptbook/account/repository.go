package account

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrymomot/receiptbook/integration/database/pg"
)

// Repository persists accounts. Emails passed in are already normalized.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// PostgresRepository stores accounts in the users table. It joins a
// transaction started with pg.InTx when the context carries one.
type PostgresRepository struct {
	db pg.DBTX
}

// NewPostgresRepository creates a repository over db.
func NewPostgresRepository(db pg.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, role, company_id, password_hash, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg string) (*User, error) {
	var (
		u         User
		companyID sql.NullString
	)
	err := pg.Conn(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Role, &companyID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if companyID.Valid {
		u.CompanyID = &companyID.String
	}
	return &u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, role, company_id, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := pg.Conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ID, user.Email, string(user.Role), user.CompanyID, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		return ErrEmailTaken
	case pg.IsForeignKeyViolationError(err):
		return ErrUnknownCompany
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	res, err := pg.Conn(ctx, r.db).ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
