package auth

import (
	"net/http"
	"time"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// CookiePolicy decides the session cookie attributes for an environment.
// Production needs cross-site delivery (Secure + SameSite=None); development stays SameSite=Strict.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// NewCookiePolicy returns the policy for the given environment and token lifetime.
func NewCookiePolicy(production bool, ttl time.Duration) CookiePolicy {
	if production {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode, MaxAge: ttl}
	}
	return CookiePolicy{Secure: false, SameSite: http.SameSiteStrictMode, MaxAge: ttl}
}

// Session builds the cookie delivering token.
func (p CookiePolicy) Session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}

// Cleared builds the cookie that removes the session on the client.
func (p CookiePolicy) Cleared() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	}
}
