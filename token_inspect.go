package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is an unverified view into the bearer token for
// diagnostics. The client treats the token as opaque everywhere else;
// nothing here validates a signature and nothing here may gate access.
type TokenInfo struct {
	Subject   string
	Role      string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	Claims    map[string]any
}

// InspectToken decodes the token payload without verification. It fails
// when the token is not a JWT, which is fine: the backend contract only
// promises an opaque string.
func InspectToken(raw string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, sentinelWithMetadata(ErrUnableToDecodeToken, map[string]any{
			"error": err.Error(),
		})
	}

	info := &TokenInfo{Claims: claims}

	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}

	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}

	return info, nil
}
