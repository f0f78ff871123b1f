// Package auth resolves the opaque bearer credential into a caller
// identity. Credential issuance lives upstream; this package only verifies.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller resolved from a bearer token. A zero Identity is
// an anonymous caller.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) Anonymous() bool { return i.UserID == "" }
func (i Identity) Admin() bool     { return i.Role == "admin" }

// Claims carries the user id and role alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
}

// GenerateToken signs an HS256 token for userID. Used by tests and by the
// upstream login service sharing the same secret.
func GenerateToken(userID, role string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString(secret)
}

// VerifyToken parses and validates tokenString, returning the embedded
// identity. Invalid, expired, or wrongly signed tokens fail.
func VerifyToken(tokenString string, secret []byte) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid || claims.UserID == "" {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
