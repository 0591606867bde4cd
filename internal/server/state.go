package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateCookie carries the signed OAuth state between /linked-role and the
// callback.
const StateCookie = "clientState"

var errStateMismatch = errors.New("state verification failed")

// stateSigner binds the OAuth state to the browser with an HS256 token, so a
// forged or replayed cookie cannot pass for another session.
type stateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (s stateSigner) sign(state string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        state,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s stateSigner) verify(cookie, state string) error {
	if cookie == "" || state == "" {
		return errStateMismatch
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(cookie, claims,
		func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", errStateMismatch, err)
	}
	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(state)) != 1 {
		return errStateMismatch
	}
	return nil
}
