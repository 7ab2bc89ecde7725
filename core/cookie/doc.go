// Package cookie manages HTTP cookies with HMAC-SHA256 signing and secret rotation.
//
// The gateway stores session tokens in signed cookies: the value is
// base64-encoded and carries a MAC, so a tampered token is rejected before
// any session lookup happens. Multiple secrets are supported for rotation:
// the first secret signs new cookies, every secret verifies incoming ones.
//
// # Usage
//
//	m, err := cookie.New([]string{secret}, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//
//	// Write a signed cookie
//	err = m.SetSigned(w, "tb_session", token, cookie.WithMaxAge(86400))
//
//	// Read and verify it
//	token, err := m.GetSigned(r, "tb_session")
//	if errors.Is(err, cookie.ErrInvalidSignature) {
//		// treat as no cookie
//	}
//
// Configuration is environment-driven via Config and NewFromConfig; secrets
// are a comma-separated list in COOKIE_SECRETS, newest first.
package cookie
