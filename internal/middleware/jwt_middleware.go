package middleware

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the session token payload
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies the signed session tokens carried in
// the access_token cookie. The signing secret stays inside the server
// process.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue creates a signed token proving its subject was authenticated
// until now+ttl.
func (tc *TokenCodec) Issue(username string, userID int64, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tc.secret)
}

// Verify recomputes the signature and checks expiry. Every failure mode
// (bad signature, expired, malformed payload, missing subject or id)
// collapses to ok=false; callers cannot tell them apart.
func (tc *TokenCodec) Verify(token string) (*Claims, bool) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, false
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}
