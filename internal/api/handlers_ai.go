package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

type jobPostInput struct {
	Text string `json:"text"`
}

type scrapeInput struct {
	URL string `json:"url"`
}

type improveTextInput struct {
	Text         string `json:"text"`
	Instructions string `json:"instructions"`
}

type applicationRefInput struct {
	ApplicationID *uint  `json:"application_id"`
	Note          string `json:"note"`
}

// applicationRef decodes the body and reports whether an application id was
// given. It writes the error response itself when it returns false.
func applicationRef(c *fiber.Ctx) (applicationRefInput, bool, error) {
	var input applicationRefInput
	if !parseBody(c, &input) {
		return input, false, invalidBody(c)
	}
	if input.ApplicationID == nil || *input.ApplicationID == 0 {
		return input, false, apiError(c, fiber.StatusBadRequest, "application_id is required")
	}
	return input, true, nil
}

func (handler *Handler) ParseJobPost(c *fiber.Ctx) error {
	var input jobPostInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	parsed, err := handler.assistantService.ParseJobPost(c.UserContext(), userID(c), input.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"parsed": parsed})
}

func (handler *Handler) ScrapeJobURL(c *fiber.Ctx) error {
	var input scrapeInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	result, err := handler.assistantService.ScrapeJobURL(c.UserContext(), userID(c), input.URL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) GenerateCV(c *fiber.Ctx) error {
	var input services.CVRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	content, err := handler.assistantService.GenerateCV(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"content": content})
}

func (handler *Handler) GenerateCoverLetter(c *fiber.Ctx) error {
	var input services.CoverLetterRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	content, err := handler.assistantService.GenerateCoverLetter(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"content": content})
}

func (handler *Handler) SummarizeApplication(c *fiber.Ctx) error {
	input, ok, err := applicationRef(c)
	if !ok {
		return err
	}

	summary, err := handler.assistantService.SummarizeApplication(c.UserContext(), userID(c), *input.ApplicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"summary": summary})
}

func (handler *Handler) ImproveText(c *fiber.Ctx) error {
	var input improveTextInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	content, err := handler.assistantService.ImproveText(c.UserContext(), userID(c), input.Text, input.Instructions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"content": content})
}

func (handler *Handler) MatchAnalysis(c *fiber.Ctx) error {
	var input services.MatchRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	analysis, err := handler.assistantService.MatchAnalysis(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"analysis": analysis})
}

func (handler *Handler) TailorCV(c *fiber.Ctx) error {
	var input services.TailorCVRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	html, err := handler.assistantService.TailorCV(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"html": html})
}

func (handler *Handler) GenerateFollowUp(c *fiber.Ctx) error {
	input, ok, err := applicationRef(c)
	if !ok {
		return err
	}

	followUp, err := handler.assistantService.GenerateFollowUp(c.UserContext(), userID(c), *input.ApplicationID, input.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"followup": followUp})
}

func (handler *Handler) InterviewPrep(c *fiber.Ctx) error {
	input, ok, err := applicationRef(c)
	if !ok {
		return err
	}

	prep, err := handler.assistantService.InterviewPrep(c.UserContext(), userID(c), *input.ApplicationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"prep": prep})
}

func (handler *Handler) Chat(c *fiber.Ctx) error {
	var input services.ChatRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	reply, err := handler.assistantService.Chat(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"response": reply})
}

func (handler *Handler) GeneratePDF(c *fiber.Ctx) error {
	var input services.PDFRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	document, err := handler.assistantService.GeneratePDF(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"document":     document,
		"download_url": fmt.Sprintf("/api/documents/%d/download", document.ID),
	})
}

func (handler *Handler) HistoryAnalysis(c *fiber.Ctx) error {
	insight, err := handler.assistantService.HistoryAnalysis(userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(insight)
}

func (handler *Handler) RefreshHistoryAnalysis(c *fiber.Ctx) error {
	insight, err := handler.assistantService.RefreshHistoryAnalysis(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"insight": insight})
}

func (handler *Handler) ExtractCVProfile(c *fiber.Ctx) error {
	var input jobPostInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	profile, err := handler.assistantService.ExtractCVProfile(c.UserContext(), userID(c), input.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

func (handler *Handler) TailorCVTemplate(c *fiber.Ctx) error {
	var input services.TailorCVTemplateRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	html, err := handler.assistantService.TailorCVTemplate(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"html": html})
}

func (handler *Handler) TailorCoverLetter(c *fiber.Ctx) error {
	var input services.TailorCoverLetterRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	html, err := handler.assistantService.TailorCoverLetter(c.UserContext(), userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"html": html})
}

func (handler *Handler) ExtractApplyMethod(c *fiber.Ctx) error {
	var input struct {
		JobPosting string `json:"job_posting"`
	}
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	method, err := handler.assistantService.ExtractApplyMethod(c.UserContext(), userID(c), input.JobPosting)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"apply_method": method})
}
