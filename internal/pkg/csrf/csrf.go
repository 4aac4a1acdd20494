// Package csrf implements double-submit form tokens. The token lives in a
// cookie signed and encrypted with the session secret, and every unsafe
// request must echo it in the csrf_token form field.
package csrf

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const (
	// FieldName is the form field carrying the token.
	FieldName = "csrf_token"
	// CookieName is the cookie carrying the signed token.
	CookieName = "movieranker_csrf"

	cookieMaxAge = 12 * 60 * 60
)

// ErrInvalidToken is returned when an unsafe request carries no token or a
// token that does not match its cookie.
var ErrInvalidToken = errors.Forbidden("CSRF_TOKEN_INVALID", "the form has expired, please reload the page and try again")

type tokenKey struct{}

// Protector issues and checks tokens.
type Protector struct {
	sc *securecookie.SecureCookie
}

// New derives the cookie hash and encryption keys from secret.
func New(secret string) *Protector {
	hashKey := sha256.Sum256([]byte("hash:" + secret))
	blockKey := sha256.Sum256([]byte("block:" + secret))
	sc := securecookie.New(hashKey[:], blockKey[:])
	sc.MaxAge(cookieMaxAge)
	return &Protector{sc: sc}
}

// Filter makes the token available through Token and rejects unsafe
// requests whose form token does not match. Requests to an exempt path are
// not checked. Rejections go to onFail.
func (p *Protector) Filter(onFail func(http.ResponseWriter, *http.Request, error), exempt ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := p.read(r)
			if !ok {
				token = uuid.NewString()
				if err := p.write(w, r, token); err != nil {
					onFail(w, r, errors.InternalServer("CSRF_COOKIE", "failed to issue form token").WithCause(err))
					return
				}
			}

			_, exempted := skip[r.URL.Path]
			if !safeMethod(r.Method) && !exempted {
				if err := r.ParseForm(); err != nil || !ok || !equal(r.PostForm.Get(FieldName), token) {
					onFail(w, r, ErrInvalidToken)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey{}, token)))
		})
	}
}

// Token returns the request's form token, or "" outside the filter.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func (p *Protector) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	var token string
	if err := p.sc.Decode(CookieName, c.Value, &token); err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (p *Protector) write(w http.ResponseWriter, r *http.Request, token string) error {
	encoded, err := p.sc.Encode(CookieName, token)
	if err != nil {
		return err
	}
	http.SetCookie(w, p.cookie(encoded, r.TLS != nil))
	return nil
}

func (p *Protector) cookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func equal(a, b string) bool {
	return a != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
