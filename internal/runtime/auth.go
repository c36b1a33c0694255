package runtime

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignSession issues a signed token carrying the session ID as subject.
func SignSession(sessionID string, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSession validates a session token and returns the session ID together
// with the token's expiry, so callers can renew tokens nearing their deadline.
func ParseSession(token string, secret []byte) (string, time.Time, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", time.Time{}, errors.New("invalid session token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, errors.New("invalid session claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", time.Time{}, errors.New("session token missing subject")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, errors.New("session token missing expiry")
	}
	return sub, exp.Time, nil
}
