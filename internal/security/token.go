package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ModeratorClaims struct {
	Login string `json:"login"`
	jwt.RegisteredClaims
}

func GenerateModeratorToken(secret, login string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ModeratorClaims{
		Login: login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   login,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseModeratorToken(tokenStr, secret string) (*ModeratorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ModeratorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*ModeratorClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
