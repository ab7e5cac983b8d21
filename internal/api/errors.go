package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/services"
)

type errorStatus struct {
	target error
	status int
}

var errorStatuses = []errorStatus{
	{services.ErrApplicationNotFound, fiber.StatusNotFound},
	{services.ErrDocumentNotFound, fiber.StatusNotFound},
	{services.ErrReminderNotFound, fiber.StatusNotFound},
	{services.ErrInterviewNotFound, fiber.StatusNotFound},
	{services.ErrInviteNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrConsultantSessionNotFound, fiber.StatusNotFound},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},

	{services.ErrAccountInactive, fiber.StatusForbidden},
	{services.ErrRegistrationClosed, fiber.StatusForbidden},
	{services.ErrInviteAlreadyUsed, fiber.StatusForbidden},
	{db.ErrInviteUnavailable, fiber.StatusForbidden},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrInviteExists, fiber.StatusConflict},

	{services.ErrAIKeyMissing, fiber.StatusUnprocessableEntity},
	{services.ErrScrapeFailed, fiber.StatusUnprocessableEntity},
	{services.ErrJobSearchNotConfigured, fiber.StatusUnprocessableEntity},

	{services.ErrAIProvider, fiber.StatusBadGateway},
	{services.ErrRenderFailed, fiber.StatusBadGateway},
	{services.ErrDocumentStoreFailed, fiber.StatusBadGateway},

	{services.ErrApplicationInvalid, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrCalendarInvalid, fiber.StatusBadRequest},
	{services.ErrInvalidDateTime, fiber.StatusBadRequest},
	{services.ErrDocumentInvalid, fiber.StatusBadRequest},
	{services.ErrDocumentTooLarge, fiber.StatusBadRequest},
	{services.ErrReminderInvalid, fiber.StatusBadRequest},
	{services.ErrInterviewInvalid, fiber.StatusBadRequest},
	{services.ErrProfileInvalid, fiber.StatusBadRequest},
	{services.ErrProfileIncomplete, fiber.StatusBadRequest},
	{services.ErrSettingInvalid, fiber.StatusBadRequest},
	{services.ErrTimelinePeriodInvalid, fiber.StatusBadRequest},
	{services.ErrAIInputInvalid, fiber.StatusBadRequest},
	{services.ErrJobSearchInvalid, fiber.StatusBadRequest},
	{services.ErrConsultantInvalid, fiber.StatusBadRequest},
	{services.ErrCVUnreadable, fiber.StatusBadRequest},
	{services.ErrWeakPassword, fiber.StatusBadRequest},
	{services.ErrAuthCredentialsInvalid, fiber.StatusBadRequest},
	{services.ErrInviteEmailInvalid, fiber.StatusBadRequest},
	{services.ErrCannotDeactivateSelf, fiber.StatusBadRequest},
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondError maps a service error onto its HTTP status. Anything unknown is
// logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, candidate := range errorStatuses {
		if errors.Is(err, candidate.target) {
			return apiError(c, candidate.status, err.Error())
		}
	}
	log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return apiError(c, fiber.StatusInternalServerError, "internal server error")
}
