// Package password stores and checks passwords as PBKDF2-HMAC-SHA256
// credential records.
//
// A record is "<saltHex>:<keyHex>": a 16 byte random salt and the 32 byte key
// derived with 100,000 iterations. Every call to Hash draws a new salt, so two
// hashes of the same password never match each other, while Verify is
// deterministic for a given record.
//
//	record, err := password.Hash("correct horse")
//	ok := password.Verify("correct horse", record) // true
//
// Verify returns false for records it cannot parse. Use ParseRecord when the
// reason matters, for example when auditing stored data:
//
//	if _, err := password.ParseRecord(record); errors.Is(err, password.ErrMalformedCredentialRecord) {
//		log.Warn("corrupted credential record", "user_id", id)
//	}
//
// Key derivation takes tens of milliseconds. HashAsync and VerifyAsync run it
// on a separate goroutine so HTTP handlers can stop waiting when the request
// is cancelled.
package password
