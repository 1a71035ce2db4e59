// Package middleware provides authentication, logging, rate limiting and
// tracing middleware for the application.
package middleware

import (
	"strings"

	"glimpse/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// Locals keys populated by the auth middleware.
const (
	LocalUserID = "userID"
	LocalToken  = "token"
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// parseBearer extracts and validates the bearer token, returning the subject
// claim and the raw token. The raw token is what gets forwarded upstream; the
// subject is the caller's user ID as issued by the upstream auth service, kept
// as a string because upstream IDs arrive as both numbers and strings.
func parseBearer(c *fiber.Ctx) (subject, raw string, ok bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", false
	}
	raw = parts[1]

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}

	claims, claimsOK := token.Claims.(jwt.MapClaims)
	if !claimsOK {
		return "", "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", "", false
	}
	return sub, raw, true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	subject, raw, ok := parseBearer(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or missing bearer token",
		})
	}
	c.Locals(LocalUserID, subject)
	c.Locals(LocalToken, raw)
	return c.Next()
}

// OptionalUser populates the caller's identity when a valid bearer token is
// present and passes the request through unchanged otherwise. Feed reads
// render for anonymous viewers, so a bad token here is not an error.
func OptionalUser(c *fiber.Ctx) error {
	if subject, raw, ok := parseBearer(c); ok {
		c.Locals(LocalUserID, subject)
		c.Locals(LocalToken, raw)
	}
	return c.Next()
}

// Token returns the raw bearer token stored by the auth middleware, or "".
func Token(c *fiber.Ctx) string {
	if tok, ok := c.Locals(LocalToken).(string); ok {
		return tok
	}
	return ""
}

// UserID returns the authenticated user ID stored by the auth middleware, or "".
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalUserID).(string); ok {
		return id
	}
	return ""
}
