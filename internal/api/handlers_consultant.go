package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

func (handler *Handler) ConsultantChat(c *fiber.Ctx) error {
	var input services.ConsultantChatRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	reply, err := handler.assistantService.ConsultantChat(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reply)
}

func (handler *Handler) ListConsultantSessions(c *fiber.Ctx) error {
	var applicationID *uint
	if raw := c.Query("application_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return apiError(c, fiber.StatusBadRequest, "application_id must be a positive integer")
		}
		value := uint(parsed)
		applicationID = &value
	}

	sessions, err := handler.assistantService.ListSessions(userID(c), applicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func (handler *Handler) CreateConsultantSession(c *fiber.Ctx) error {
	var input services.ConsultantSessionInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	session, err := handler.assistantService.CreateSession(userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (handler *Handler) GetConsultantSession(c *fiber.Ctx) error {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	session, err := handler.assistantService.GetSession(userID(c), sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (handler *Handler) UpdateConsultantSession(c *fiber.Ctx) error {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var input services.ConsultantSessionInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	session, err := handler.assistantService.UpdateSession(userID(c), sessionID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

func (handler *Handler) DeleteConsultantSession(c *fiber.Ctx) error {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := handler.assistantService.DeleteSession(userID(c), sessionID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}

func (handler *Handler) AssignConsultantSession(c *fiber.Ctx) error {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	input, ok, err := applicationRef(c)
	if !ok {
		return err
	}

	session, err := handler.assistantService.AssignSession(c.UserContext(), userID(c), sessionID, *input.ApplicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}
