package api

import "github.com/gofiber/fiber/v2"

type inviteInput struct {
	Email string `json:"email"`
}

type registrationModeInput struct {
	Open *bool `json:"open_registration"`
}

func (handler *Handler) ListInvites(c *fiber.Ctx) error {
	invites, err := handler.adminService.ListInvites()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invites)
}

func (handler *Handler) AddInvite(c *fiber.Ctx) error {
	var input inviteInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	invite, err := handler.adminService.AddInvite(userID(c), input.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

func (handler *Handler) DeleteInvite(c *fiber.Ctx) error {
	inviteID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := handler.adminService.DeleteInvite(inviteID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.adminService.ListUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (handler *Handler) ToggleUserActive(c *fiber.Ctx) error {
	targetID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	user, err := handler.adminService.ToggleActive(userID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (handler *Handler) RegistrationMode(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"open_registration": handler.adminService.RegistrationOpen()})
}

func (handler *Handler) SetRegistrationMode(c *fiber.Ctx) error {
	var input registrationModeInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}
	if input.Open == nil {
		return apiError(c, fiber.StatusBadRequest, "open_registration is required")
	}
	return c.JSON(fiber.Map{"open_registration": handler.adminService.SetRegistrationOpen(*input.Open)})
}
