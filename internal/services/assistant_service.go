package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/scraper"
	"gorm.io/datatypes"
)

var (
	ErrAIKeyMissing      = errors.New("no AI provider configured, add a Gemini or Blackbox API key in settings")
	ErrAIProvider        = errors.New("ai provider request failed")
	ErrAIInputInvalid    = errors.New("invalid ai request")
	ErrProfileIncomplete = errors.New("user profile is required, complete your profile first")
	ErrScrapeFailed      = errors.New("job posting could not be read")
	ErrRenderFailed      = errors.New("pdf rendering failed")
)

const pasteManuallyHint = "paste the job description manually"

type SettingValues interface {
	Value(userID uint, key string) (string, error)
}

type AIProviders interface {
	Gemini(apiKey string) ai.Generator
	Blackbox(apiKey string) ai.Generator
}

type AssistantApplications interface {
	Get(userID uint, applicationID uint) (models.Application, error)
	UpdateGenerated(userID uint, applicationID uint, values map[string]any) error
}

type AssistantProfiles interface {
	Get(userID uint) (models.UserProfile, error)
}

type ChatMessageStore interface {
	CreateExchange(messages ...*models.ChatMessage) error
}

type GeneratedDocuments interface {
	StoreGenerated(ctx context.Context, userID uint, applicationID *uint, filename string, category string, content []byte) (models.Document, error)
}

type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type PageScraper interface {
	Scrape(ctx context.Context, rawURL string) (scraper.Page, error)
}

type CVRequest struct {
	JobDescription string `json:"job_description"`
	CurrentCVText  string `json:"current_cv_text"`
	Instructions   string `json:"instructions"`
}

type CoverLetterRequest struct {
	JobDescription string `json:"job_description"`
	Company        string `json:"company"`
	Role           string `json:"role"`
	Instructions   string `json:"instructions"`
}

type MatchRequest struct {
	JobPosting    string `json:"job_posting"`
	ApplicationID *uint  `json:"application_id"`
}

type TailorCVRequest struct {
	JobPosting    string `json:"job_posting"`
	Instructions  string `json:"instructions"`
	ApplicationID *uint  `json:"application_id"`
}

type ChatRequest struct {
	Message       string        `json:"message"`
	Step          string        `json:"step"`
	Company       string        `json:"company"`
	Role          string        `json:"role"`
	JobPosting    string        `json:"job_posting"`
	History       []ai.ChatTurn `json:"history"`
	ApplicationID *uint         `json:"application_id"`
}

type PDFRequest struct {
	HTML          string `json:"html"`
	DocType       string `json:"doc_type"`
	ApplicationID *uint  `json:"application_id"`
}

type ScrapeResult struct {
	Text     string          `json:"text"`
	Parsed   json.RawMessage `json:"parsed"`
	Metadata scraper.Page    `json:"metadata"`
}

type APIKeyCheck struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// AssistantService runs content generation for a user. Collaborator calls
// happen before any write, so a failed call never changes stored data.
type AssistantService struct {
	settings     SettingValues
	providers    AIProviders
	applications AssistantApplications
	profiles     AssistantProfiles
	chats        ChatMessageStore
	documents    GeneratedDocuments
	renderer     PDFRenderer
	scraper      PageScraper
	history      ApplicationHistorySource
	insights     InsightStore
	consultant   ConsultantStore
	now          func() time.Time
}

type AssistantDependencies struct {
	Settings     SettingValues
	Providers    AIProviders
	Applications AssistantApplications
	Profiles     AssistantProfiles
	Chats        ChatMessageStore
	Documents    GeneratedDocuments
	Renderer     PDFRenderer
	Scraper      PageScraper
	History      ApplicationHistorySource
	Insights     InsightStore
	Consultant   ConsultantStore
}

func NewAssistantService(deps AssistantDependencies) *AssistantService {
	return &AssistantService{
		settings:     deps.Settings,
		providers:    deps.Providers,
		applications: deps.Applications,
		profiles:     deps.Profiles,
		chats:        deps.Chats,
		documents:    deps.Documents,
		renderer:     deps.Renderer,
		scraper:      deps.Scraper,
		history:      deps.History,
		insights:     deps.Insights,
		consultant:   deps.Consultant,
		now:          time.Now,
	}
}

type providerChoice struct {
	name string
	key  string
}

// providerChoices lists the user's providers in the order they are tried.
// Blackbox comes first when its key is stored unless the user pinned Gemini.
func (service *AssistantService) providerChoices(userID uint) ([]providerChoice, error) {
	preference, err := service.settings.Value(userID, SettingAIProvider)
	if err != nil {
		return nil, err
	}
	geminiKey, err := service.settings.Value(userID, SettingGeminiAPIKey)
	if err != nil {
		return nil, err
	}
	blackboxKey, err := service.settings.Value(userID, SettingBlackboxAPIKey)
	if err != nil {
		return nil, err
	}

	order := ProviderOrder(strings.ToLower(preference), geminiKey, blackboxKey)
	if len(order) == 0 {
		return nil, ErrAIKeyMissing
	}
	choices := make([]providerChoice, 0, len(order))
	for _, name := range order {
		key := geminiKey
		if name == ProviderBlackbox {
			key = blackboxKey
		}
		choices = append(choices, providerChoice{name: name, key: key})
	}
	return choices, nil
}

func (service *AssistantService) build(choice providerChoice) ai.Generator {
	if choice.name == ProviderBlackbox {
		return service.providers.Blackbox(choice.key)
	}
	return service.providers.Gemini(choice.key)
}

func (service *AssistantService) generator(userID uint) (ai.Generator, error) {
	choices, err := service.providerChoices(userID)
	if err != nil {
		return nil, err
	}
	return service.build(choices[0]), nil
}

// HasProvider reports whether the user configured any content provider.
func (service *AssistantService) HasProvider(userID uint) (bool, error) {
	_, err := service.generator(userID)
	if errors.Is(err, ErrAIKeyMissing) {
		return false, nil
	}
	return err == nil, err
}

func (service *AssistantService) generate(ctx context.Context, userID uint, prompt string) (string, error) {
	generator, err := service.generator(userID)
	if err != nil {
		return "", err
	}
	reply, err := generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIProvider, err)
	}
	return reply, nil
}

func (service *AssistantService) generateJSON(ctx context.Context, userID uint, prompt string) (json.RawMessage, error) {
	reply, err := service.generate(ctx, userID, prompt)
	if err != nil {
		return nil, err
	}
	var decoded json.RawMessage
	if err := ai.DecodeJSON(reply, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIProvider, err)
	}
	return decoded, nil
}

func requireText(value string, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s", ErrAIInputInvalid, message)
	}
	return trimmed, nil
}

func (service *AssistantService) completeProfile(userID uint) (models.UserProfile, error) {
	profile, err := service.profiles.Get(userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if strings.TrimSpace(profile.FullName) == "" {
		return models.UserProfile{}, ErrProfileIncomplete
	}
	return profile, nil
}

func (service *AssistantService) ParseJobPost(ctx context.Context, userID uint, text string) (json.RawMessage, error) {
	text, err := requireText(text, "job posting text is required")
	if err != nil {
		return nil, err
	}
	return service.generateJSON(ctx, userID, ai.ParseJobPostPrompt(text))
}

// ScrapeJobURL fetches the posting and, when a provider is configured, parses
// it. A failed parse is logged and the raw text is still returned.
func (service *AssistantService) ScrapeJobURL(ctx context.Context, userID uint, rawURL string) (ScrapeResult, error) {
	rawURL, err := requireText(rawURL, "url is required")
	if err != nil {
		return ScrapeResult{}, err
	}

	page, err := service.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return ScrapeResult{}, scrapeError(err)
	}
	result := ScrapeResult{Text: page.Text, Metadata: page}

	hasProvider, err := service.HasProvider(userID)
	if err != nil {
		return ScrapeResult{}, err
	}
	if hasProvider {
		parsed, err := service.generateJSON(ctx, userID, ai.ParseJobPostPrompt(page.Text))
		if err != nil {
			log.Printf("scrape %s: job post parsing skipped: %v", page.Domain, err)
		} else {
			result.Parsed = parsed
		}
	}
	return result, nil
}

func scrapeError(err error) error {
	message := err.Error()
	if !strings.Contains(message, pasteManuallyHint) {
		message += "; " + pasteManuallyHint
	}
	return fmt.Errorf("%w: %s", ErrScrapeFailed, message)
}

func (service *AssistantService) GenerateCV(ctx context.Context, userID uint, request CVRequest) (string, error) {
	jobDescription, err := requireText(request.JobDescription, "job_description is required")
	if err != nil {
		return "", err
	}
	return service.generate(ctx, userID, ai.CVPrompt(jobDescription, request.CurrentCVText, request.Instructions))
}

func (service *AssistantService) GenerateCoverLetter(ctx context.Context, userID uint, request CoverLetterRequest) (string, error) {
	if strings.TrimSpace(request.JobDescription) == "" || strings.TrimSpace(request.Company) == "" || strings.TrimSpace(request.Role) == "" {
		return "", fmt.Errorf("%w: job_description, company and role are required", ErrAIInputInvalid)
	}
	prompt := ai.CoverLetterPrompt(
		strings.TrimSpace(request.JobDescription),
		strings.TrimSpace(request.Company),
		strings.TrimSpace(request.Role),
		request.Instructions,
	)
	return service.generate(ctx, userID, prompt)
}

// SummarizeApplication stores the summary only after the provider succeeded.
func (service *AssistantService) SummarizeApplication(ctx context.Context, userID uint, applicationID uint) (string, error) {
	application, err := service.applications.Get(userID, applicationID)
	if err != nil {
		return "", err
	}
	summary, err := service.generate(ctx, userID, ai.SummarizeApplicationPrompt(application))
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if err := service.applications.UpdateGenerated(userID, applicationID, map[string]any{"ai_summary": summary}); err != nil {
		return "", err
	}
	return summary, nil
}

func (service *AssistantService) ImproveText(ctx context.Context, userID uint, text string, instructions string) (string, error) {
	text, err := requireText(text, "text is required")
	if err != nil {
		return "", err
	}
	return service.generate(ctx, userID, ai.ImproveTextPrompt(text, instructions))
}

// MatchAnalysis compares the profile with a posting. With an application id
// the score and the analysis are stored on that application.
func (service *AssistantService) MatchAnalysis(ctx context.Context, userID uint, request MatchRequest) (json.RawMessage, error) {
	posting, err := requireText(request.JobPosting, "job_posting is required")
	if err != nil {
		return nil, err
	}
	if request.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *request.ApplicationID); err != nil {
			return nil, err
		}
	}
	profile, err := service.completeProfile(userID)
	if err != nil {
		return nil, err
	}

	analysis, err := service.generateJSON(ctx, userID, ai.MatchAnalysisPrompt(profile, posting))
	if err != nil {
		return nil, err
	}
	if request.ApplicationID == nil {
		return analysis, nil
	}

	values := map[string]any{"match_analysis": datatypes.JSON(analysis)}
	if score, ok := matchScore(analysis); ok {
		values["match_score"] = score
	}
	if err := service.applications.UpdateGenerated(userID, *request.ApplicationID, values); err != nil {
		return nil, err
	}
	return analysis, nil
}

func matchScore(analysis json.RawMessage) (float64, bool) {
	var payload struct {
		MatchScore *float64 `json:"match_score"`
	}
	if err := json.Unmarshal(analysis, &payload); err != nil || payload.MatchScore == nil {
		return 0, false
	}
	score := *payload.MatchScore
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, true
}

func (service *AssistantService) TailorCV(ctx context.Context, userID uint, request TailorCVRequest) (string, error) {
	posting, err := requireText(request.JobPosting, "job_posting is required")
	if err != nil {
		return "", err
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

	reply, err := service.generate(ctx, userID, ai.TailorCVPrompt(profile, posting, request.Instructions))
	if err != nil {
		return "", err
	}
	html := ai.CleanHTML(reply)
	if request.ApplicationID != nil {
		if err := service.applications.UpdateGenerated(userID, *request.ApplicationID, map[string]any{"generated_cv_html": html}); err != nil {
			return "", err
		}
	}
	return html, nil
}

func (service *AssistantService) GenerateFollowUp(ctx context.Context, userID uint, applicationID uint, note string) (json.RawMessage, error) {
	application, err := service.applications.Get(userID, applicationID)
	if err != nil {
		return nil, err
	}
	profile, err := service.completeProfile(userID)
	if err != nil {
		return nil, err
	}
	return service.generateJSON(ctx, userID, ai.FollowUpPrompt(application, profile, note))
}

func (service *AssistantService) InterviewPrep(ctx context.Context, userID uint, applicationID uint) (json.RawMessage, error) {
	application, err := service.applications.Get(userID, applicationID)
	if err != nil {
		return nil, err
	}
	profile, err := service.completeProfile(userID)
	if err != nil {
		return nil, err
	}
	return service.generateJSON(ctx, userID, ai.InterviewPrepPrompt(application, profile))
}

// Chat answers one message. With an owned application id both sides of the
// exchange are stored; a foreign id fails before the provider is called.
func (service *AssistantService) Chat(ctx context.Context, userID uint, request ChatRequest) (string, error) {
	message, err := requireText(request.Message, "message is required")
	if err != nil {
		return "", err
	}
	if request.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *request.ApplicationID); err != nil {
			return "", err
		}
	}
	profile, err := service.profiles.Get(userID)
	if err != nil {
		return "", err
	}

	step := strings.TrimSpace(request.Step)
	if step == "" {
		step = "general"
	}
	reply, err := service.generate(ctx, userID, ai.ChatPrompt(message, ai.ChatContext{
		Step:       step,
		Company:    request.Company,
		Role:       request.Role,
		JobPosting: request.JobPosting,
		Profile:    profile,
		History:    request.History,
	}))
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)

	if request.ApplicationID != nil {
		now := service.now().UTC()
		userMessage := &models.ChatMessage{
			UserID:        userID,
			ApplicationID: request.ApplicationID,
			Role:          models.ChatRoleUser,
			Content:       message,
			Step:          step,
			CreatedAt:     now,
		}
		assistantMessage := &models.ChatMessage{
			UserID:        userID,
			ApplicationID: request.ApplicationID,
			Role:          models.ChatRoleAssistant,
			Content:       reply,
			Step:          step,
			CreatedAt:     now,
		}
		if err := service.chats.CreateExchange(userMessage, assistantMessage); err != nil {
			return "", err
		}
	}
	return reply, nil
}

// GeneratePDF renders the HTML and keeps the result as a document of the user.
func (service *AssistantService) GeneratePDF(ctx context.Context, userID uint, request PDFRequest) (models.Document, error) {
	html, err := requireText(request.HTML, "html is required")
	if err != nil {
		return models.Document{}, err
	}
	category, err := NormalizeDocCategory(request.DocType)
	if err != nil {
		return models.Document{}, err
	}
	if request.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *request.ApplicationID); err != nil {
			return models.Document{}, err
		}
	}

	content, err := service.renderer.RenderPDF(ctx, html)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	filename := fmt.Sprintf("%s_%s.pdf", category, service.now().UTC().Format("20060102_150405"))
	return service.documents.StoreGenerated(ctx, userID, request.ApplicationID, filename, category, content)
}

type SearchSuggestion struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

// SuggestSearchQueries asks the provider for job search queries that fit the profile.
func (service *AssistantService) SuggestSearchQueries(ctx context.Context, userID uint, profile models.UserProfile, recentRoles []string, skills []string) ([]SearchSuggestion, error) {
	reply, err := service.generate(ctx, userID, ai.SearchQueriesPrompt(profile, recentRoles, skills))
	if err != nil {
		return nil, err
	}
	suggestions := make([]SearchSuggestion, 0)
	if err := ai.DecodeJSON(reply, &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIProvider, err)
	}
	kept := suggestions[:0]
	for _, suggestion := range suggestions {
		suggestion.Query = strings.TrimSpace(suggestion.Query)
		suggestion.Location = strings.TrimSpace(suggestion.Location)
		if suggestion.Query != "" {
			kept = append(kept, suggestion)
		}
	}
	return kept, nil
}

// TestAPIKey asks Gemini for a one-word reply with the stored key.
func (service *AssistantService) TestAPIKey(ctx context.Context, userID uint) (APIKeyCheck, error) {
	key, err := service.settings.Value(userID, SettingGeminiAPIKey)
	if err != nil {
		return APIKeyCheck{}, err
	}
	if key == "" {
		return APIKeyCheck{Valid: false, Error: "No API key configured"}, nil
	}
	if _, err := service.providers.Gemini(key).Generate(ctx, "Reply with the single word: hello"); err != nil {
		return APIKeyCheck{Valid: false, Error: err.Error()}, nil
	}
	return APIKeyCheck{Valid: true}, nil
}
