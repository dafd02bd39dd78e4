// Package auth implements the credential and token primitives: argon2id
// password hashing and self-contained HS256 JWTs. Access tokens are
// verified by signature and expiry alone; refresh tokens additionally
// carry the user's revocation counter value and are only valid while that
// value matches the stored one.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oxylize/api/internal/common"
)

// AccessClaims carries the standard claims plus the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"sub_id"`
}

// RefreshClaims additionally carries the revocation counter value the
// token was stamped with at issue time.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"sub_id"`
	TokenVer int64  `json:"ver"`
}

func GenerateAccessToken(userID string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// ParseAccessToken verifies signature and expiry and returns the user id.
// Expired tokens yield common.ErrTokenExpired, everything else invalid
// yields common.ErrInvalidToken.
func ParseAccessToken(tokenString string, secret []byte) (string, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

func GenerateRefreshToken(userID string, tokenVer int64, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID:   userID,
		TokenVer: tokenVer,
	})
	return token.SignedString(secret)
}

// ParseRefreshToken verifies signature and expiry and returns the user id
// and the counter value the token was issued with. The caller still has to
// compare that value against the user's current counter.
func ParseRefreshToken(tokenString string, secret []byte) (string, int64, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", 0, common.ErrTokenExpired
		}
		return "", 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return "", 0, common.ErrInvalidToken
	}

	return claims.UserID, claims.TokenVer, nil
}
