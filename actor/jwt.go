package actor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig configures bearer-token identity extraction.
type TokenConfig struct {
	// Issuer is the expected token issuer (iss claim). Empty skips the check.
	Issuer string

	// Audience is the expected token audience (aud claim). Empty skips the check.
	Audience string

	// RoleClaim is the claim containing the caller role.
	// Default: "role"
	RoleClaim string
}

// FromBearerToken validates an HMAC-signed JWT and extracts the caller identity.
//
// The subject claim becomes the caller ID; the role claim must parse to a
// recognized Role.
func FromBearerToken(tokenString string, key []byte, cfg TokenConfig) (Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Identity{}, ErrMissingToken
	}
	if cfg.RoleClaim == "" {
		cfg.RoleClaim = "role"
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	token, err := jwt.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenMalformed
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrMissingSubject
	}

	roleStr, _ := claims[cfg.RoleClaim].(string)
	role, err := ParseRole(roleStr)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %q", ErrUnknownRole, roleStr)
	}

	return Identity{ID: sub, Role: role}, nil
}

// FromAuthorizationHeader strips a "Bearer " prefix and extracts the identity.
func FromAuthorizationHeader(header string, key []byte, cfg TokenConfig) (Identity, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return Identity{}, ErrMissingToken
	}
	return FromBearerToken(strings.TrimSpace(strings.TrimPrefix(header, prefix)), key, cfg)
}
