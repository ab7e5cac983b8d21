package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

func (handler *Handler) ListInterviews(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	events, err := handler.interviewService.List(userID(c), applicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (handler *Handler) CreateInterview(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var input services.InterviewInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	event, err := handler.interviewService.Create(userID(c), applicationID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (handler *Handler) UpdateInterview(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	eventID, ok := idParam(c, "interviewId")
	if !ok {
		return invalidID(c, "interviewId")
	}
	var input services.InterviewInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	event, err := handler.interviewService.Update(userID(c), applicationID, eventID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

func (handler *Handler) DeleteInterview(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	eventID, ok := idParam(c, "interviewId")
	if !ok {
		return invalidID(c, "interviewId")
	}

	if err := handler.interviewService.Delete(userID(c), applicationID, eventID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}
