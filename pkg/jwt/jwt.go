package jwt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TTL is the fixed lifetime of every issued token.
const TTL = 7 * 24 * time.Hour

// encodedHeader is the first segment of every token this package issues.
var encodedHeader = EncodeSegment([]byte(`{"alg":"HS256","typ":"JWT"}`))

// Service issues and verifies HS256 tokens with a single signing key.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	signingKey []byte
	now        func() time.Time
}

// New creates a token service for signingKey.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: append([]byte(nil), signingKey...),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString creates a token service from a string key.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Issue stamps iat and exp onto claims and returns the signed token.
// Any iat or exp already set on claims is overwritten.
func (s *Service) Issue(claims Claims) (string, error) {
	if err := claims.validate(); err != nil {
		return "", err
	}

	now := s.now().Unix()
	claims.IssuedAt = now
	claims.ExpiresAt = now + int64(TTL/time.Second)

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}

	signingInput := encodedHeader + "." + EncodeSegment(payload)
	signature := Sign(s.signingKey, []byte(signingInput))

	return signingInput + "." + EncodeSegment(signature), nil
}

// Verify checks token and returns its claims. Every failure is reported
// as ErrInvalidToken so callers cannot leak the reason to the bearer.
func (s *Service) Verify(token string) (*Claims, error) {
	claims, err := s.VerifyDetailed(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyDetailed is Verify with the specific failure reason: one of
// ErrMalformedToken, ErrInvalidSignature or ErrExpiredToken. It is meant
// for server-side diagnostics and must not be echoed to clients.
//
// Checks run in a fixed order: structure, signature, header, payload, expiry.
func (s *Service) VerifyDetailed(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}
	for i, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: segment %d is empty", ErrMalformedToken, i)
		}
	}

	signature, err := DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %w", ErrMalformedToken, err)
	}

	// The tag covers the segments exactly as received.
	signingInput := token[:len(parts[0])+1+len(parts[1])]
	if !VerifySignature(s.signingKey, []byte(signingInput), signature) {
		return nil, ErrInvalidSignature
	}

	headerJSON, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedToken, err)
	}
	if err := parseHeader(headerJSON); err != nil {
		return nil, err
	}

	payload, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrMalformedToken, err)
	}
	claims, err := parseClaims(payload)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt < s.now().Unix() {
		return nil, ErrExpiredToken
	}

	return claims, nil
}
