package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/services"
)

type analyzePostingInput struct {
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
}

func (handler *Handler) SearchJobs(c *fiber.Ctx) error {
	result, err := handler.jobSearchService.Search(c.UserContext(), userID(c), services.JobSearchParams{
		Query:     c.Query("q"),
		Location:  c.Query("location"),
		Countries: c.Query("countries"),
		Page:      c.Query("page"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) SaveJobPosting(c *fiber.Ctx) error {
	var input services.SavePostingRequest
	if !parseBody(c, &input) {
		return invalidBody(c)
	}

	application, err := handler.jobSearchService.SaveApplication(userID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": application})
}

func (handler *Handler) SmartSuggestions(c *fiber.Ctx) error {
	suggestions, err := handler.jobSearchService.SmartSuggestions(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suggestions)
}

// AnalyzePosting scores a search result against the profile without
// persisting anything.
func (handler *Handler) AnalyzePosting(c *fiber.Ctx) error {
	var input analyzePostingInput
	if !parseBody(c, &input) {
		return invalidBody(c)
	}
	description := strings.TrimSpace(input.JobDescription)
	if description == "" {
		return apiError(c, fiber.StatusBadRequest, "job_description is required")
	}

	posting := fmt.Sprintf("Role: %s\nCompany: %s\n\n%s", input.JobTitle, input.Company, description)
	analysis, err := handler.assistantService.MatchAnalysis(c.UserContext(), userID(c), services.MatchRequest{JobPosting: posting})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"analysis": analysis})
}
