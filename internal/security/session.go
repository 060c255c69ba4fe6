package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RandomID returns an unguessable identifier for sessions and OAuth state
func RandomID() string {
	return uuid.NewString()
}

// IsSecureRequest reports whether the browser reached us over HTTPS, directly
// or through a TLS-terminating proxy
func IsSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || r.URL.Scheme == "https"
}

// All cookies are host-wide, HttpOnly and Lax; Secure follows the request scheme.
func cookie(r *http.Request, name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateSessionCookie carries the browser session ID until the session expires
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	c := cookie(r, name, value)
	c.Expires = expires
	return c
}

// CreateTempCookie holds short-lived flow state such as the OAuth state or a
// password reset token
func CreateTempCookie(r *http.Request, name, value string, ttl time.Duration) *http.Cookie {
	c := cookie(r, name, value)
	c.Expires = time.Now().Add(ttl)
	c.MaxAge = int(ttl.Seconds())
	return c
}

// CreateDeleteCookie expires a cookie set by one of the constructors above
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	c := cookie(r, name, "")
	c.MaxAge = -1
	return c
}
