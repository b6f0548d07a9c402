package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/receiptbook/core/logger"
	"github.com/dmitrymomot/receiptbook/pkg/jwt"
	"github.com/dmitrymomot/receiptbook/pkg/password"
)

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Email     string
	Password  string
	Role      jwt.Role
	CompanyID *string
}

// Service implements login and credential management on top of a
// Repository and a token service.
type Service struct {
	repo   Repository
	tokens *jwt.Service
	logger *slog.Logger
	newID  func() string

	// dummyRecord is verified against when the email is unknown so that a
	// miss costs the same PBKDF2 work as a wrong password.
	dummyRecord string
}

// Option configures Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new accounts.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates the account service. It derives one throwaway
// credential record up front for timing-equalized misses.
func NewService(repo Repository, tokens *jwt.Service, opts ...Option) (*Service, error) {
	dummy, err := password.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	s := &Service{
		repo:        repo,
		tokens:      tokens,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:       uuid.NewString,
		dummyRecord: dummy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks the credentials and issues a token. Unknown emails and
// wrong passwords both return ErrInvalidCredentials after the same amount
// of key derivation.
func (s *Service) Login(ctx context.Context, email, pw string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		if _, verr := password.VerifyAsync(ctx, pw, s.dummyRecord).AwaitContext(ctx); verr != nil {
			return nil, fmt.Errorf("login: %w", verr)
		}
		return nil, ErrInvalidCredentials
	}

	ok, err := password.VerifyAsync(ctx, pw, user.PasswordHash).AwaitContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Claims())
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("login: verify issued token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		logger.UserID(user.ID),
		logger.Role(user.Role.String()),
	)

	return &Session{
		Token:     token,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
		User:      user,
	}, nil
}

// Get returns the account with id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ChangePassword replaces the credential of userID after checking the
// current password. Tokens issued before the change stay valid until
// they expire.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := password.VerifyAsync(ctx, current, user.PasswordHash).AwaitContext(ctx)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return ErrIncorrectPassword
	}

	hash, err := password.HashAsync(ctx, next).AwaitContext(ctx)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed", logger.UserID(user.ID))
	return nil
}

// CreateUser validates in and stores a new account with a fresh
// credential record.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	var companyID *string
	if in.CompanyID != nil && *in.CompanyID != "" {
		if _, err := uuid.Parse(*in.CompanyID); err != nil {
			return nil, ErrUnknownCompany
		}
		id := *in.CompanyID
		companyID = &id
	}
	if in.Role == jwt.RoleClient && companyID == nil {
		return nil, ErrCompanyRequired
	}

	hash, err := password.HashAsync(ctx, in.Password).AwaitContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := &User{
		ID:           s.newID(),
		Email:        email,
		Role:         in.Role,
		CompanyID:    companyID,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		logger.UserID(user.ID),
		logger.Role(user.Role.String()),
	)
	return user, nil
}

// EnsureAdmin creates an admin account for email unless one already
// exists. It is used to bootstrap an empty database.
func (s *Service) EnsureAdmin(ctx context.Context, email, pw string) error {
	_, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	_, err = s.CreateUser(ctx, CreateUserInput{Email: email, Password: pw, Role: jwt.RoleAdmin})
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}
