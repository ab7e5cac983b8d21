package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/datatypes"
)

type ApplicationHistorySource interface {
	ListByUser(userID uint) ([]models.Application, error)
}

type InsightStore interface {
	FindByUser(userID uint) (models.UserAIInsight, bool, error)
	Save(insight *models.UserAIInsight) error
}

type HistoryInsight struct {
	Insight      *models.UserAIInsight `json:"insight"`
	NeedsRefresh bool                  `json:"needs_refresh"`
}

type TailorCVTemplateRequest struct {
	JobPosting     string        `json:"job_posting"`
	Instructions   string        `json:"instructions"`
	TemplateConfig ai.CVTemplate `json:"template_config"`
}

type TailorCoverLetterRequest struct {
	JobPosting    string `json:"job_posting"`
	Company       string `json:"company"`
	Role          string `json:"role"`
	Length        string `json:"length"`
	Instructions  string `json:"instructions"`
	ApplicationID *uint  `json:"application_id"`
}

// HistoryAnalysis returns the cached insight without calling a provider.
func (service *AssistantService) HistoryAnalysis(userID uint) (HistoryInsight, error) {
	insight, found, err := service.insights.FindByUser(userID)
	if err != nil {
		return HistoryInsight{}, err
	}
	if !found {
		return HistoryInsight{NeedsRefresh: true}, nil
	}
	return HistoryInsight{Insight: &insight}, nil
}

// RefreshHistoryAnalysis analyses every application of the user and replaces
// the cached insight. A reply that is not JSON is kept as a raw summary.
func (service *AssistantService) RefreshHistoryAnalysis(ctx context.Context, userID uint) (models.UserAIInsight, error) {
	applications, err := service.history.ListByUser(userID)
	if err != nil {
		return models.UserAIInsight{}, err
	}
	profile, err := service.profiles.Get(userID)
	if err != nil {
		return models.UserAIInsight{}, err
	}

	reply, err := service.generate(ctx, userID, ai.HistoryAnalysisPrompt(profile, applications))
	if err != nil {
		return models.UserAIInsight{}, err
	}
	var analysis json.RawMessage
	if err := ai.DecodeJSON(reply, &analysis); err != nil {
		analysis, err = json.Marshal(map[string]any{"summary": strings.TrimSpace(reply), "raw": true})
		if err != nil {
			return models.UserAIInsight{}, err
		}
	}

	insight := models.UserAIInsight{
		UserID:      userID,
		InsightData: datatypes.JSON(analysis),
		LastUpdated: service.now().UTC(),
	}
	if err := service.insights.Save(&insight); err != nil {
		return models.UserAIInsight{}, err
	}
	return insight, nil
}

func (service *AssistantService) ExtractCVProfile(ctx context.Context, userID uint, cvText string) (json.RawMessage, error) {
	cvText, err := requireText(cvText, "CV text is required")
	if err != nil {
		return nil, err
	}
	return service.generateJSON(ctx, userID, ai.ExtractCVProfilePrompt(cvText))
}

func (service *AssistantService) TailorCVTemplate(ctx context.Context, userID uint, request TailorCVTemplateRequest) (string, error) {
	posting, err := requireText(request.JobPosting, "job_posting is required")
	if err != nil {
		return "", err
	}
	profile, err := service.completeProfile(userID)
	if err != nil {
		return "", err
	}

	reply, err := service.generate(ctx, userID, ai.TailorCVTemplatePrompt(profile, posting, request.TemplateConfig, request.Instructions))
	if err != nil {
		return "", err
	}
	return ai.CleanHTML(reply), nil
}

// TailorCoverLetter writes an HTML letter. With an application id the letter
// is stored on that application.
func (service *AssistantService) TailorCoverLetter(ctx context.Context, userID uint, request TailorCoverLetterRequest) (string, error) {
	posting := strings.TrimSpace(request.JobPosting)
	company := strings.TrimSpace(request.Company)
	role := strings.TrimSpace(request.Role)
	if posting == "" || company == "" || role == "" {
		return "", fmt.Errorf("%w: job_posting, company and role are required", ErrAIInputInvalid)
	}
	if request.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *request.ApplicationID); err != nil {
			return "", err
		}
	}
	profile, err := service.completeProfile(userID)
	if err != nil {
		return "", err
	}

	reply, err := service.generate(ctx, userID, ai.TailorCoverLetterPrompt(profile, posting, company, role, request.Length, request.Instructions))
	if err != nil {
		return "", err
	}
	html := ai.CleanHTML(reply)
	if request.ApplicationID != nil {
		if err := service.applications.UpdateGenerated(userID, *request.ApplicationID, map[string]any{"generated_cover_letter_html": html}); err != nil {
			return "", err
		}
	}
	return html, nil
}

func (service *AssistantService) ExtractApplyMethod(ctx context.Context, userID uint, jobPosting string) (json.RawMessage, error) {
	posting, err := requireText(jobPosting, "job_posting is required")
	if err != nil {
		return nil, err
	}
	return service.generateJSON(ctx, userID, ai.ExtractApplyMethodPrompt(posting))
}
