package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const invalidBodyMessage = "invalid request body"

func idParam(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

func invalidID(c *fiber.Ctx, name string) error {
	return apiError(c, fiber.StatusBadRequest, "invalid "+name)
}

// parseBody decodes a JSON body. An empty body leaves target untouched.
func parseBody(c *fiber.Ctx, target any) bool {
	if len(c.Body()) == 0 {
		return true
	}
	return c.BodyParser(target) == nil
}

func invalidBody(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusBadRequest, invalidBodyMessage)
}

func queryBool(c *fiber.Ctx, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && value
}

// queryInt returns zero for a missing parameter and false for a malformed one.
func queryInt(c *fiber.Ctx, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func userID(c *fiber.Ctx) uint {
	user, ok := currentUser(c)
	if !ok {
		return 0
	}
	return user.ID
}
