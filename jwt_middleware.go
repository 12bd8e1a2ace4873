package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrMissingBearerToken = fiber.Map{"error": "Missing bearer token."}
var ErrInvalidBearerToken = fiber.Map{"error": "Invalid bearer token provided."}

type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func IssueToken(userId uint) (string, error) {
	claims := SessionClaims{
		UserID: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(ServiceConfig.Jwt.Timeout) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ServiceConfig.Jwt.Secret))
}

func ValidateToken(providedToken string) (uint, fiber.Map) {
	claims := SessionClaims{}
	token, err := jwt.ParseWithClaims(providedToken, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(ServiceConfig.Jwt.Secret), nil
	})

	if err != nil {
		return 0, ErrInvalidBearerToken
	}

	if !token.Valid {
		return 0, ErrInvalidBearerToken
	}

	return claims.UserID, nil
}

func JwtRequired(c *fiber.Ctx) error {
	authorizationHeader := c.Get("Authorization")

	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return c.Status(http.StatusUnauthorized).
			JSON(ErrMissingBearerToken)
	}

	authorizationHeader = strings.TrimPrefix(authorizationHeader, "Bearer ")
	userId, err := ValidateToken(authorizationHeader)

	if err != nil {
		return c.Status(http.StatusUnauthorized).
			JSON(err)
	}

	c.Locals("userId", userId)
	return c.Next()
}

// CurrentUserId reads the authenticated identity set by JwtRequired.
func CurrentUserId(c *fiber.Ctx) uint {
	return c.Locals("userId").(uint)
}
