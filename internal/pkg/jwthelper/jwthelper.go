package jwthelper

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserClaims struct {
	jwt.RegisteredClaims

	UserID    uint   `json:"user_id"`
	UserAgent string `json:"user_agent"`
}

func GenerateToken(signingKey []byte, userID uint, userAgent string) (string, error) {
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		UserID:    userID,
		UserAgent: userAgent,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(signingKey []byte, tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}

		return signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt.ParseWithClaims -> %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
