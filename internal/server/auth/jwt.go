// Package auth holds the credential hasher, the token service and the
// authorization policy used by the account service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies HS256 identity tokens whose subject is an
// account email.
//
// The secret and lifetime are fixed for the life of the process. Changing the
// secret invalidates every token issued before the change; there is no grace
// window and no revocation.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, lifetime time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: secret, lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lifetime returns the configured token lifetime.
func (s *TokenService) Lifetime() time.Duration { return s.lifetime }

// Issue returns a signed token for subjectEmail, valid from now until
// now+lifetime. An error here is an internal signing failure.
func (s *TokenService) Issue(subjectEmail string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectEmail,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// subject email embedded at issuance.
//
// Errors: common.ErrTokenMalformed, common.ErrTokenBadSignature or
// common.ErrTokenExpired; all of them match common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return "", classify(tokenString, err)
	}

	if claims.Subject == "" {
		return "", common.ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classify(tokenString string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed) && headerAndClaimsDecode(tokenString):
		// only the signature segment is left to be undecodable
		return common.ErrTokenBadSignature
	default:
		return common.ErrTokenMalformed
	}
}

func headerAndClaimsDecode(tokenString string) bool {
	_, _, err := jwt.NewParser(jwt.WithStrictDecoding()).ParseUnverified(tokenString, &jwt.RegisteredClaims{})
	return err == nil
}
