package account

import (
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrymomot/receiptbook/pkg/jwt"
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 8

// User is an account that can log in. Admins may have no company.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         jwt.Role  `json:"role"`
	CompanyID    *string   `json:"company_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims returns the token claims for u. iat and exp are set by the issuer.
func (u *User) Claims() jwt.Claims {
	return jwt.Claims{
		Subject:   u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}

// NormalizeEmail trims and lower-cases an address. Lookups and inserts use
// the normalized form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
