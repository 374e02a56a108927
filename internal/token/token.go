// Package token inspects the bearer tokens issued by the API. The client
// never verifies signatures (that is the server's job); it only needs to know
// when a token is about to die so the session can be renewed in time.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// expiredMargin treats a token that dies within the next minute as
	// already expired, so a request is never sent with a token that
	// expires while in flight.
	expiredMargin = 60 * time.Second

	// expiringSoonMargin is the earlier warning boundary used to renew the
	// session before expiredMargin is ever reached.
	expiringSoonMargin = 300 * time.Second
)

var parser = jwt.NewParser()

// Claims are the registered claims carried by the API's bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
}

// Decode parses the claims of a bearer token without verifying its
// signature. Malformed tokens yield nil, never an error or a panic.
func Decode(tokenString string) *Claims {
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

// IsExpired reports whether the token has expired or expires within the next
// minute. Tokens without a parseable exp claim count as expired.
func IsExpired(tokenString string) bool {
	return expiresWithin(tokenString, expiredMargin)
}

// WillExpireSoon reports whether the token expires within the next five
// minutes. This is the trigger for a proactive refresh.
func WillExpireSoon(tokenString string) bool {
	return expiresWithin(tokenString, expiringSoonMargin)
}

// SubjectID returns the subject claim, or "" when the token is malformed or
// carries no subject.
func SubjectID(tokenString string) string {
	claims := Decode(tokenString)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

func expiresWithin(tokenString string, margin time.Duration) bool {
	claims := Decode(tokenString)
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !time.Now().Add(margin).Before(claims.ExpiresAt.Time)
}
