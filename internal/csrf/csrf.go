// Package csrf protects form posts with a per-browser token kept in a signed
// cookie and echoed in a hidden form field.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/goliatone/go-recipes/internal/cookies"
)

const (
	// FieldName is the form field carrying the token.
	FieldName = "csrf_token"
	// HeaderName is accepted instead of the form field for scripted requests.
	HeaderName = "X-CSRF-Token"
	cookieName = "recipes_csrf"
	tokenBytes = 32
)

type contextKey struct{}

// Token returns the token for the current request, or "".
func Token(ctx context.Context) string {
	token, _ := ctx.Value(contextKey{}).(string)
	return token
}

// Protect returns middleware that issues tokens and rejects unsafe requests
// whose token does not match the cookie. Rejections are answered by
// onFailure.
func Protect(signer *cookies.Signer, onFailure http.Handler) func(http.Handler) http.Handler {
	if onFailure == nil {
		onFailure = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := signer.Get(r, cookieName)
			if err != nil || token == "" {
				token = newToken()
				signer.Set(w, cookieName, token, 0)
			}

			if !isSafe(r.Method) {
				submitted := r.Header.Get(HeaderName)
				if submitted == "" {
					submitted = r.PostFormValue(FieldName)
				}
				if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
					onFailure.ServeHTTP(w, r)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, token)))
		})
	}
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func newToken() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
