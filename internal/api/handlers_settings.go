package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.All(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSettings accepts either {"settings": {...}} or the bare key map.
func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	var payload map[string]any
	if !parseBody(c, &payload) {
		return invalidBody(c)
	}
	changes := payload
	if nested, ok := payload["settings"].(map[string]any); ok {
		changes = nested
	}

	settings, err := handler.settingsService.Update(userID(c), changes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (handler *Handler) TestAPIKey(c *fiber.Ctx) error {
	check, err := handler.assistantService.TestAPIKey(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(check)
}
