package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
)

// SignatureSize is the length of an HMAC-SHA256 tag in bytes.
const SignatureSize = sha256.Size

// Sign returns the HMAC-SHA256 tag of message under secret.
func Sign(secret, message []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return mac.Sum(nil)
}

// VerifySignature recomputes the tag for message and compares it with tag
// in constant time. Tags of the wrong length never match.
func VerifySignature(secret, message, tag []byte) bool {
	if len(tag) != SignatureSize {
		return false
	}
	return hmac.Equal(Sign(secret, message), tag)
}
