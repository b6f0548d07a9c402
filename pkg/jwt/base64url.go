package jwt

import (
	"encoding/base64"
	"fmt"
)

// EncodeSegment encodes b with the URL-safe base64 alphabet and no padding.
func EncodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeSegment reverses EncodeSegment. Padding, characters outside the
// URL-safe alphabet and non-canonical trailing bits are rejected with ErrDecode.
func DecodeSegment(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !isSegmentChar(s[i]) {
			return nil, fmt.Errorf("%w: unexpected character at offset %d", ErrDecode, i)
		}
	}

	b, err := base64.RawURLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

// isSegmentChar reports whether c belongs to the base64url alphabet.
// The stdlib decoder silently skips CR and LF, so they are filtered here.
func isSegmentChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
