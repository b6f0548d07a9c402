package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Role is the authorization role carried by a token.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

func (r Role) String() string {
	return string(r)
}

// Claims is the closed payload of a token. Fields not listed here are
// rejected on parse.
type Claims struct {
	Subject   string  `json:"sub"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"company_id"`
	IssuedAt  int64   `json:"iat"`
	ExpiresAt int64   `json:"exp"`
}

// HasRole reports whether the claims role is one of roles.
func (c *Claims) HasRole(roles ...Role) bool {
	if c == nil {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// Company returns the company identifier or an empty string.
func (c *Claims) Company() string {
	if c == nil || c.CompanyID == nil {
		return ""
	}
	return *c.CompanyID
}

func (c *Claims) validate() error {
	switch {
	case c.Subject == "":
		return fmt.Errorf("%w: sub is required", ErrInvalidClaims)
	case c.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidClaims)
	case !c.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidClaims, c.Role)
	}
	return nil
}

// header is the fixed JOSE header. Only alg and typ are understood.
type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
}

const algHS256 = "HS256"

func parseHeader(b []byte) error {
	var h header
	if err := json.Unmarshal(b, &h); err != nil {
		return fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}
	if h.Alg != algHS256 {
		return fmt.Errorf("%w: %w: %q", ErrMalformedToken, ErrUnexpectedSigningMethod, h.Alg)
	}
	if h.Typ != "" && h.Typ != "JWT" {
		return fmt.Errorf("%w: unexpected typ %q", ErrMalformedToken, h.Typ)
	}
	return nil
}

func parseClaims(b []byte) (*Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var c Claims
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedToken, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrMalformedToken)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	return &c, nil
}
