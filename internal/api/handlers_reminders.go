package api

import (
	"github.com/gofiber/fiber/v2"
)

type reminderInput struct {
	RemindAt string `json:"remind_at"`
	Message  string `json:"message"`
}

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	reminders, err := handler.reminderService.List(userID(c), queryBool(c, "include_dismissed"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reminders)
}

func (handler *Handler) UpcomingReminders(c *fiber.Ctx) error {
	reminders, err := handler.reminderService.Upcoming(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reminders)
}

func (handler *Handler) CreateReminder(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var input reminderInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	reminder, err := handler.reminderService.Create(userID(c), applicationID, input.RemindAt, input.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (handler *Handler) DismissReminder(c *fiber.Ctx) error {
	reminderID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	reminder, err := handler.reminderService.Dismiss(userID(c), reminderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reminder)
}

func (handler *Handler) DeleteReminder(c *fiber.Ctx) error {
	reminderID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := handler.reminderService.Delete(userID(c), reminderID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}
