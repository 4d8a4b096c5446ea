package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tripmate-backend/config"
)

// GenerateToken issues a session token for one of the two travelers. The
// token outlives the trip so nobody gets logged out halfway through.
func GenerateToken(travelerID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": travelerID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(60 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseToken validates a session token and returns the traveler ID.
func ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("missing subject claim")
	}
	return sub, nil
}
