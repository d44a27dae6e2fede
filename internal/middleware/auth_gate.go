package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie is the cookie carrying "Bearer <token>".
	SessionCookie = "access_token"

	bearerPrefix   = "Bearer "
	userContextKey = "auth_user"
)

// AuthUser is the identity resolved from a valid session cookie.
type AuthUser struct {
	ID       int64
	Username string
}

// ResolveUser reads the session cookie and returns the authenticated
// identity, or nil for anonymous requests. Missing cookie, missing
// scheme prefix and invalid token all land on nil; it never errors.
func (tc *TokenCodec) ResolveUser(c echo.Context) *AuthUser {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	if !strings.HasPrefix(cookie.Value, bearerPrefix) {
		return nil
	}
	claims, ok := tc.Verify(strings.TrimPrefix(cookie.Value, bearerPrefix))
	if !ok {
		return nil
	}
	return &AuthUser{ID: claims.UserID, Username: claims.Subject}
}

// WithUser resolves the optional identity once per request and attaches
// it to the echo context. Handlers branch on GetUser.
func WithUser(codec *TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u := codec.ResolveUser(c); u != nil {
				c.Set(userContextKey, u)
			}
			return next(c)
		}
	}
}

// GetUser returns the request's authenticated identity, or nil.
func GetUser(c echo.Context) *AuthUser {
	v := c.Get(userContextKey)
	if v == nil {
		return nil
	}
	u, _ := v.(*AuthUser)
	return u
}
