// Package identity decodes bearer credentials into the stable user identity
// consumed by the qa-core modules. Tokens are HS256 JWTs carrying sub, name
// and email claims, signed with a shared secret.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnauthorized = errors.New("missing or invalid credentials")

// User is the resolved identity. The core consumes ID and Name; Email is
// exposed only on the /me surface.
type User struct {
	ID    string
	Name  string
	Email string
}

type Resolver struct {
	secret []byte
}

func NewResolver(secret string) (*Resolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Resolver{secret: []byte(secret)}, nil
}

// Resolve validates the raw bearer token and extracts the user identity.
// Any parse, signature or claim problem collapses to ErrUnauthorized; the
// caller has no use for the distinction.
func (r *Resolver) Resolve(rawToken string) (User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return User{}, ErrUnauthorized
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return User{}, fmt.Errorf("%w: token rejected", ErrUnauthorized)
	}

	user := User{
		ID:    claimString(claims, "sub"),
		Name:  claimString(claims, "name"),
		Email: claimString(claims, "email"),
	}
	if user.ID == "" {
		return User{}, fmt.Errorf("%w: subject claim missing", ErrUnauthorized)
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return strings.TrimSpace(value)
}
