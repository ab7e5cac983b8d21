package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := handler.profileService.Get(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	var input services.ProfileInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	profile, err := handler.profileService.Update(userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

func (handler *Handler) OnboardingStatus(c *fiber.Ctx) error {
	completed, err := handler.profileService.OnboardingCompleted(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"onboarding_completed": completed})
}

func (handler *Handler) CompleteOnboarding(c *fiber.Ctx) error {
	if err := handler.profileService.CompleteOnboarding(userID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"onboarding_completed": true})
}

func (handler *Handler) UploadCV(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file is required")
	}
	body, err := header.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "file could not be read")
	}
	defer body.Close()

	text, err := handler.cvImportService.ExtractText(header.Filename, body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"extracted_text": text,
		"message":        "CV text extracted, review it before saving your profile",
	})
}
