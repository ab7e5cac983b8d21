package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/services"
)

const contextUserKey = "current_user"

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// AuthRequired resolves the bearer token to an active account. Deactivated
// and deleted users are rejected even while their token is unexpired.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	raw := bearerToken(c)
	if raw == "" {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	claims, err := handler.parseToken(raw)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	user, err := handler.authService.ActiveUser(claims.UserID)
	if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrAccountInactive) {
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}
	if err != nil {
		return respondError(c, err)
	}

	c.Locals(contextUserKey, &user)
	return c.Next()
}

func (handler *Handler) AdminOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "not authenticated")
	}
	if !user.IsAdmin() {
		return apiError(c, fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}
