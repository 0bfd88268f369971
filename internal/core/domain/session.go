package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the locally persisted credential plus cached profile.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// IsZero reports whether there is no authenticated session.
func (s Session) IsZero() bool { return s.Token == "" }

// ExpiresAt returns the exp claim when the token is a JWT that carries one.
// The signature is not checked: the client has no key and the server stays
// authoritative. Opaque tokens report ok=false.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token is known to be past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
