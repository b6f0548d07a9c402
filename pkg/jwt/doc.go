// Package jwt implements the HS256 JSON Web Token used for API authentication.
//
// Tokens are three base64url segments, header.payload.signature, where the
// signature is HMAC-SHA256 over the first two segments exactly as they were
// transmitted. The payload is the closed Claims struct; unknown fields,
// trailing data and unknown roles are rejected.
//
// # Usage
//
//	service, err := jwt.NewFromString(cfg.JWTSecret)
//	if err != nil {
//		return err
//	}
//
//	companyID := "c1"
//	token, err := service.Issue(jwt.Claims{
//		Subject:   "u1",
//		Email:     "a@b.com",
//		Role:      jwt.RoleClient,
//		CompanyID: &companyID,
//	})
//
//	claims, err := service.Verify(token)
//	if err != nil {
//		// err is always jwt.ErrInvalidToken
//	}
//
// Every token lives for TTL (7 days). There is no refresh and no revocation:
// a token stays valid until exp even if the account changes afterwards.
//
// # Verification order
//
// VerifyDetailed runs the checks in a fixed order and stops at the first
// failure:
//
//  1. exactly three non-empty segments (ErrMalformedToken)
//  2. signature over the received segments (ErrInvalidSignature)
//  3. header alg is HS256 (ErrMalformedToken wrapping ErrUnexpectedSigningMethod)
//  4. payload parses into Claims (ErrMalformedToken)
//  5. exp is not before now (ErrExpiredToken); exp == now is still valid
//
// Verify collapses all of these into ErrInvalidToken. Use VerifyDetailed only
// for server-side logging.
//
// # Testing
//
// WithClock injects the time source:
//
//	now := time.Unix(1_700_000_000, 0)
//	service, _ := jwt.NewFromString("secret", jwt.WithClock(func() time.Time { return now }))
package jwt
