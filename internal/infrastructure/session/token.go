package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectFromToken extracts the "sub" claim of an access token. The signature
// is not verified: the remote service is the only party that trusts the token.
func SubjectFromToken(token string) (string, error) {
	claims, err := parseUnverified(token)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read token subject: %w", err)
	}
	if sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// ExpiryFromToken returns the "exp" claim, or the zero time when absent
func ExpiryFromToken(token string) time.Time {
	claims, err := parseUnverified(token)
	if err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func parseUnverified(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}
	return claims, nil
}
