// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"ladle/internal/config"
	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// identityFromToken validates a signed token string and extracts the caller identity.
func identityFromToken(tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// User ID travels in "sub" (subject claim per RFC 7519)
	subClaim, ok := claims["sub"]
	if !ok {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject type")
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	// The role claim is validated here, at the gate, so downstream code can
	// rely on Identity.Role being one of the known roles.
	role := models.RoleUser
	if roleClaim, ok := claims["role"].(string); ok {
		role = models.Role(roleClaim)
	}
	if !role.Valid() {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid role in token")
	}

	return models.Identity{UserID: uint(userIDVal), Role: role}, nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	identity, err := identityFromToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", identity.UserID)
	c.Locals("identity", identity)

	return c.Next()
}

// OptionalAuth extracts the caller's identity when a valid bearer token is
// present but lets anonymous requests through untouched.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}

	if identity, err := identityFromToken(parts[1]); err == nil {
		c.Locals("userID", identity.UserID)
		c.Locals("identity", identity)
	}

	return c.Next()
}

// AdminRequired enforces that the authenticated caller holds the admin role.
// It must run after AuthRequired.
func AdminRequired(c *fiber.Ctx) error {
	identity, ok := c.Locals("identity").(models.Identity)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	if !identity.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Admin access required",
		})
	}
	return c.Next()
}

// WebSocketAuthRequired is middleware that validates JWT tokens from query parameters for WebSocket connections.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	// Try to get token from query parameter first (for WebSocket)
	token := c.Query("token")
	if token == "" {
		// Fall back to Authorization header (for regular HTTP)
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}
		token = parts[1]
	}

	identity, err := identityFromToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", identity.UserID)
	c.Locals("identity", identity)

	return c.Next()
}
