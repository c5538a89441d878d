package handlers

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

const userContextKey = "user"

// currentUser returns the authenticated principal set by AuthMiddleware.
func currentUser(c *fiber.Ctx) *utils.Claims {
	claims, _ := c.Locals(userContextKey).(*utils.Claims)
	return claims
}

// authenticate validates the Bearer token and stores the claims in the
// request context. A nil claims return means the 401 response has already
// been written and the accompanying error must be returned as-is.
func authenticate(c *fiber.Ctx) (*utils.Claims, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, sendUnauthorizedError(c, "Authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, sendUnauthorizedError(c, "Token is required")
	}
	token := parts[1]

	if !utils.HasTokenFormat(token) {
		return nil, sendUnauthorizedError(c, "Invalid token format")
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, sendUnauthorizedError(c, "Token has expired")
		case errors.Is(err, utils.ErrTokenTooOld):
			return nil, sendUnauthorizedError(c, "Token is too old")
		default:
			return nil, sendUnauthorizedError(c, "Invalid token")
		}
	}

	c.Locals(userContextKey, claims)
	return claims, nil
}

// AuthMiddleware requires a valid Bearer token.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		claims, err := authenticate(c)
		if claims == nil {
			return err
		}
		return c.Next()
	}
}

// AdminMiddleware requires a valid Bearer token carrying the ADMIN role.
// Every mutating CRUD route sits behind it.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		claims, err := authenticate(c)
		if claims == nil {
			return err
		}
		if claims.Role != models.RoleAdmin {
			return sendForbiddenError(c, "Admin access required")
		}
		return c.Next()
	}
}
