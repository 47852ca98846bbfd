// Package cookies signs cookie values so the server can detect tampering.
package cookies

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const minSecretLength = 32

var (
	ErrSecretTooShort   = errors.New("cookies: secret must be at least 32 characters")
	ErrInvalidFormat    = errors.New("cookies: invalid cookie format")
	ErrInvalidSignature = errors.New("cookies: invalid cookie signature")
	ErrCookieNotFound   = errors.New("cookies: cookie not found")
)

// Signer signs and verifies cookie values with HMAC-SHA256.
type Signer struct {
	secret []byte
	secure bool
}

// NewSigner returns a Signer for secret. secure marks written cookies as
// HTTPS only.
func NewSigner(secret string, secure bool) (*Signer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("%w: got %d", ErrSecretTooShort, len(secret))
	}
	return &Signer{secret: []byte(secret), secure: secure}, nil
}

// Sign returns value encoded together with its signature.
func (s *Signer) Sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + s.signature([]byte(value))
}

// Verify returns the original value of a string produced by Sign.
func (s *Signer) Verify(signed string) (string, error) {
	encoded, signature, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	if subtle.ConstantTimeCompare([]byte(signature), []byte(s.signature(value))) != 1 {
		return "", ErrInvalidSignature
	}
	return string(value), nil
}

// Set writes a signed cookie. maxAge follows http.Cookie semantics.
func (s *Signer) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    s.Sign(value),
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get reads and verifies a signed cookie.
func (s *Signer) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return s.Verify(cookie.Value)
}

// Delete expires the named cookie.
func (s *Signer) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Signer) signature(value []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(value)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
