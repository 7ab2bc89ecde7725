package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// minSecretLength is the minimum secret length for HMAC-SHA256 signing.
	minSecretLength = 32
)

// Manager handles HTTP cookie operations with HMAC signing and secret rotation.
// The first secret signs new cookies; all secrets verify incoming ones, so
// secrets can be rotated without invalidating live sessions.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// New creates a cookie manager with the given secrets and default cookie options.
func New(secrets []string, opts ...Option) (*Manager, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for _, s := range secrets {
		if len(s) < minSecretLength {
			return nil, ErrSecretTooShort
		}
	}

	m := &Manager{
		secrets:  secrets,
		defaults: defaultOptions(),
		maxSize:  MaxCookieSize,
	}
	for _, opt := range opts {
		opt(&m.defaults)
	}
	return m, nil
}

// Set writes a plain (unsigned) cookie using the manager's defaults merged
// with per-call options.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	o := m.defaults
	for _, opt := range opts {
		opt(&o)
	}

	c := o.cookie(name, value)
	if len(c.String()) > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: len(c.String()), Max: m.maxSize}
	}

	http.SetCookie(w, c)
	return nil
}

// Get reads a plain cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// SetSigned writes a cookie whose value carries an HMAC-SHA256 signature.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned reads a signed cookie and verifies its signature.
// Returns ErrInvalidSignature when the value was tampered with or was signed
// with an unknown secret.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(raw)
}

// Delete expires the named cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	o := m.defaults
	for _, opt := range opts {
		opt(&o)
	}

	c := o.cookie(name, "")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// sign encodes value and appends its HMAC: base64(value).base64(mac).
func (m *Manager) sign(value string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	mac := computeMAC(m.secrets[0], encoded)
	return encoded + "." + base64.RawURLEncoding.EncodeToString(mac)
}

// verify checks the signature against every known secret (rotation support)
// and returns the original value.
func (m *Manager) verify(raw string) (string, error) {
	encoded, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrInvalidFormat
	}

	gotMAC, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		want := computeMAC(secret, encoded)
		if subtle.ConstantTimeCompare(gotMAC, want) == 1 {
			value, err := base64.RawURLEncoding.DecodeString(encoded)
			if err != nil {
				return "", ErrInvalidFormat
			}
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}

func computeMAC(secret, payload string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return h.Sum(nil)
}
