package credential

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrOpaqueToken = errors.New("token is not a JWT")

// Claims is the subset of a token's claims shown to the user.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt *time.Time
	IssuedAt  *time.Time
}

// Expired reports whether the token carries an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Inspect decodes the claims of a JWT without checking its signature. The
// client never uses this to decide whether to send a token; the backend is
// the only authority on validity.
func Inspect(token string) (Claims, error) {
	var claims Claims

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return claims, ErrOpaqueToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return claims, ErrOpaqueToken
	}

	claims.Subject, _ = mc.GetSubject()
	claims.Issuer, _ = mc.GetIssuer()
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		claims.IssuedAt = &t
	}
	return claims, nil
}
