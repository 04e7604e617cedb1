// Package session reads the authenticated caller out of a Fiber request.
package session

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/trailtalk/forum-backend/internal/models"
)

var ErrNoSession = errors.New("no authenticated user in context")

// GetUserID extracts the numeric user id from the sub claim of the JWT the
// auth middleware stored in locals.
func GetUserID(c *fiber.Ctx) (uint, error) {
	claims, err := claimsOf(c)
	if err != nil {
		return 0, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errors.New("missing sub claim")
	}

	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid sub claim")
	}
	return uint(id), nil
}

// SetUser caches the loaded account for later handlers in the chain.
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals("current_user", user)
}

func GetUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("current_user").(*models.User)
	return user
}

func claimsOf(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
