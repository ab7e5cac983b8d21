package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

type statusChangeInput struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (handler *Handler) ListApplications(c *fiber.Ctx) error {
	page, err := handler.applicationSvc.List(userID(c), services.ApplicationListParams{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		SortBy:  c.Query("sort_by"),
		Order:   c.Query("order"),
		Page:    c.Query("page"),
		PerPage: c.Query("per_page"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func (handler *Handler) ApplicationCalendar(c *fiber.Ctx) error {
	year, yearOK := queryInt(c, "year")
	month, monthOK := queryInt(c, "month")
	if !yearOK || !monthOK {
		return respondError(c, services.ErrCalendarInvalid)
	}

	view, err := handler.applicationSvc.Calendar(userID(c), year, month, c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (handler *Handler) CreateApplication(c *fiber.Ctx) error {
	var input services.ApplicationInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	application, err := handler.applicationSvc.Create(userID(c), input, "")
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(application)
}

func (handler *Handler) GetApplication(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	detail, err := handler.applicationSvc.Detail(userID(c), applicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

func (handler *Handler) UpdateApplication(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var input services.ApplicationInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	application, err := handler.applicationSvc.Update(userID(c), applicationID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(application)
}

func (handler *Handler) DeleteApplication(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	if err := handler.applicationSvc.Delete(c.UserContext(), userID(c), applicationID); err != nil {
		return respondError(c, err)
	}
	return sendNoContent(c)
}

func (handler *Handler) ChangeApplicationStatus(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var input statusChangeInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	result, err := handler.applicationSvc.ChangeStatus(userID(c), applicationID, input.Status, input.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"application": result})
}

func (handler *Handler) ApplicationHistory(c *fiber.Ctx) error {
	applicationID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "id")
	}

	history, err := handler.applicationSvc.History(userID(c), applicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status_history": history})
}
