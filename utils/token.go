package utils

import (
	"errors"
	"strings"
	"time"

	"inmobiliaria-server/models"

	"github.com/golang-jwt/jwt"
)

// TokenClaims is the identity carried by a signed bearer token.
type TokenClaims struct {
	UserID uint
	Correo string
	Rol    models.Role
}

// GenerateToken issues a signed HS256 token for the user.
func GenerateToken(secret []byte, user models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     user.ID,
		"correo": user.Correo,
		"rol":    string(user.Rol),
		"exp":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates a token string and extracts its claims.
func ParseToken(secret []byte, tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid token claims")
	}

	userIDFloat, ok := claims["id"].(float64) // JWT numeric values are float64
	if !ok {
		return TokenClaims{}, errors.New("invalid user ID in token")
	}

	correo, _ := claims["correo"].(string)
	rol, _ := claims["rol"].(string)

	return TokenClaims{
		UserID: uint(userIDFloat),
		Correo: correo,
		Rol:    models.Role(rol),
	}, nil
}

// ExtractBearerToken pulls the token out of an Authorization header.
func ExtractBearerToken(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
