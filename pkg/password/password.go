package password

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dmitrymomot/receiptbook/pkg/async"
)

// Parameters of the credential scheme. Changing any of them invalidates
// every stored record.
const (
	Iterations = 100_000
	SaltLength = 16
	KeyLength  = 32
)

// Record is a parsed credential record.
type Record struct {
	Salt []byte
	Key  []byte
}

// String encodes r as saltHex:keyHex.
func (r Record) String() string {
	return hex.EncodeToString(r.Salt) + ":" + hex.EncodeToString(r.Key)
}

// Hash derives a new credential record for password with a fresh random salt.
func Hash(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaltGeneration, err)
	}

	return Record{Salt: salt, Key: derive(password, salt)}.String(), nil
}

// Verify reports whether password matches record. A record that cannot be
// parsed never matches.
func Verify(password, record string) bool {
	r, err := ParseRecord(record)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derive(password, r.Salt), r.Key) == 1
}

// ParseRecord splits record on the first colon and decodes both hex fields.
func ParseRecord(record string) (Record, error) {
	saltHex, keyHex, ok := strings.Cut(record, ":")
	if !ok {
		return Record{}, fmt.Errorf("%w: missing separator", ErrMalformedCredentialRecord)
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != SaltLength {
		return Record{}, fmt.Errorf("%w: salt must be %d hex-encoded bytes", ErrMalformedCredentialRecord, SaltLength)
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != KeyLength {
		return Record{}, fmt.Errorf("%w: key must be %d hex-encoded bytes", ErrMalformedCredentialRecord, KeyLength)
	}

	return Record{Salt: salt, Key: key}, nil
}

// HashAsync runs Hash on a separate goroutine.
func HashAsync(ctx context.Context, password string) *async.Future[string] {
	return async.Async(ctx, password, func(_ context.Context, pw string) (string, error) {
		return Hash(pw)
	})
}

// VerifyAsync runs Verify on a separate goroutine.
func VerifyAsync(ctx context.Context, password, record string) *async.Future[bool] {
	return async.Async(ctx, [2]string{password, record}, func(_ context.Context, in [2]string) (bool, error) {
		return Verify(in[0], in[1]), nil
	})
}

func derive(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeyLength, sha256.New)
}
