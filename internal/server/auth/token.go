package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rentacat/rentacat/internal/common"
)

// Claims carries the session id inside the signed cookie value. The cookie
// itself never holds user data; the session record stays server-side.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

// GenerateSessionToken signs sessionID into a compact HS256 token with the
// given validity.
func GenerateSessionToken(sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionIDFromToken verifies the signature and expiry of tokenString and
// returns the embedded session id.
func SessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
