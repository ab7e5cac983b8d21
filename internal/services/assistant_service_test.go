package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/scraper"
)

type stubSettingValues map[string]string

func (stub stubSettingValues) Value(_ uint, key string) (string, error) {
	return stub[key], nil
}

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (stub *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	stub.prompts = append(stub.prompts, prompt)
	return stub.reply, stub.err
}

type stubProviders struct {
	generator *stubGenerator
	byName    map[string]*stubGenerator
	used      []string
}

func (stub *stubProviders) pick(name string, apiKey string) ai.Generator {
	stub.used = append(stub.used, name+":"+apiKey)
	if generator, ok := stub.byName[name]; ok {
		return generator
	}
	return stub.generator
}

func (stub *stubProviders) Gemini(apiKey string) ai.Generator {
	return stub.pick(ProviderGemini, apiKey)
}

func (stub *stubProviders) Blackbox(apiKey string) ai.Generator {
	return stub.pick(ProviderBlackbox, apiKey)
}

type stubAssistantApplications struct {
	applications map[uint]models.Application
	updates      []map[string]any
}

func (stub *stubAssistantApplications) Get(userID uint, applicationID uint) (models.Application, error) {
	application, ok := stub.applications[applicationID]
	if !ok || application.UserID != userID {
		return models.Application{}, ErrApplicationNotFound
	}
	return application, nil
}

func (stub *stubAssistantApplications) UpdateGenerated(userID uint, applicationID uint, values map[string]any) error {
	if _, err := stub.Get(userID, applicationID); err != nil {
		return err
	}
	stub.updates = append(stub.updates, values)
	return nil
}

type stubAssistantProfiles struct {
	profile models.UserProfile
}

func (stub stubAssistantProfiles) Get(userID uint) (models.UserProfile, error) {
	profile := stub.profile
	profile.UserID = userID
	return profile, nil
}

type stubChatStore struct {
	saved []models.ChatMessage
}

func (stub *stubChatStore) CreateExchange(messages ...*models.ChatMessage) error {
	for _, message := range messages {
		stub.saved = append(stub.saved, *message)
	}
	return nil
}

type stubGeneratedDocuments struct {
	stored []models.Document
}

func (stub *stubGeneratedDocuments) StoreGenerated(_ context.Context, userID uint, applicationID *uint, filename string, category string, content []byte) (models.Document, error) {
	document := models.Document{
		ID:            uint(len(stub.stored) + 1),
		UserID:        userID,
		ApplicationID: applicationID,
		Filename:      filename,
		DocCategory:   category,
		FileSize:      int64(len(content)),
	}
	stub.stored = append(stub.stored, document)
	return document, nil
}

type stubPDFRenderer struct {
	calls int
	err   error
}

func (stub *stubPDFRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	stub.calls++
	if stub.err != nil {
		return nil, stub.err
	}
	return []byte("%PDF-" + html), nil
}

type stubPageScraper struct {
	page scraper.Page
	err  error
}

func (stub stubPageScraper) Scrape(_ context.Context, rawURL string) (scraper.Page, error) {
	if stub.err != nil {
		return scraper.Page{}, stub.err
	}
	page := stub.page
	page.URL = rawURL
	return page, nil
}

type assistantFixture struct {
	service      *AssistantService
	generator    *stubGenerator
	providers    *stubProviders
	applications *stubAssistantApplications
	chats        *stubChatStore
	documents    *stubGeneratedDocuments
	renderer     *stubPDFRenderer
	insights     *stubInsightStore
	consultant   *stubConsultantStore
}

func newAssistantFixture(settings stubSettingValues, reply string, profileName string) *assistantFixture {
	generator := &stubGenerator{reply: reply}
	fixture := &assistantFixture{
		generator: generator,
		providers: &stubProviders{generator: generator},
		applications: &stubAssistantApplications{applications: map[uint]models.Application{
			10: {ID: 10, UserID: 1, Company: "Acme", Role: "Engineer", Status: models.StatusSent, AppliedDate: day(2026, 6, 1)},
			20: {ID: 20, UserID: 2, Company: "Other", Role: "Designer", Status: models.StatusDraft, AppliedDate: day(2026, 6, 1)},
		}},
		chats:      &stubChatStore{},
		documents:  &stubGeneratedDocuments{},
		renderer:   &stubPDFRenderer{},
		insights:   &stubInsightStore{rows: map[uint]models.UserAIInsight{}},
		consultant: newStubConsultantStore(),
	}
	fixture.service = NewAssistantService(AssistantDependencies{
		Settings:     settings,
		Providers:    fixture.providers,
		Applications: fixture.applications,
		Profiles:     stubAssistantProfiles{profile: models.UserProfile{FullName: profileName}},
		Chats:        fixture.chats,
		Documents:    fixture.documents,
		Renderer:     fixture.renderer,
		Scraper: stubPageScraper{page: scraper.Page{
			Domain: "jobs.example.com",
			Text:   strings.Repeat("Senior Go engineer wanted. ", 5),
		}},
		History:    stubApplicationHistory{applications: fixture.applications},
		Insights:   fixture.insights,
		Consultant: fixture.consultant,
	})
	fixture.service.now = func() time.Time { return dashboardNow }
	return fixture
}

func uintPointer(value uint) *uint {
	return &value
}

func TestAssistantProviderSelection(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		settings stubSettingValues
		want     string
		wantErr  error
	}{
		{name: "blackbox first when both keys", settings: stubSettingValues{SettingGeminiAPIKey: "g", SettingBlackboxAPIKey: "b"}, want: "blackbox:b"},
		{name: "gemini only", settings: stubSettingValues{SettingGeminiAPIKey: "g"}, want: "gemini:g"},
		{name: "blackbox only", settings: stubSettingValues{SettingBlackboxAPIKey: "b"}, want: "blackbox:b"},
		{name: "gemini pinned", settings: stubSettingValues{SettingAIProvider: "Gemini", SettingGeminiAPIKey: "g", SettingBlackboxAPIKey: "b"}, want: "gemini:g"},
		{name: "gemini pinned without key", settings: stubSettingValues{SettingAIProvider: "gemini", SettingBlackboxAPIKey: "b"}, wantErr: ErrAIKeyMissing},
		{name: "no key", settings: stubSettingValues{}, wantErr: ErrAIKeyMissing},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			fixture := newAssistantFixture(testCase.settings, "improved", "Ada")
			_, err := fixture.service.ImproveText(context.Background(), 1, "some text", "")
			if testCase.wantErr != nil {
				if !errors.Is(err, testCase.wantErr) {
					t.Fatalf("expected %v, got %v", testCase.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("improve text: %v", err)
			}
			if len(fixture.providers.used) != 1 || fixture.providers.used[0] != testCase.want {
				t.Fatalf("expected provider %s, got %v", testCase.want, fixture.providers.used)
			}
		})
	}
}

func TestAssistantValidatesInputBeforeProvider(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{}, "", "Ada")
	_, err := fixture.service.GenerateCV(context.Background(), 1, CVRequest{JobDescription: "   "})
	if !errors.Is(err, ErrAIInputInvalid) {
		t.Fatalf("expected ErrAIInputInvalid before key lookup, got %v", err)
	}
	_, err = fixture.service.GenerateCoverLetter(context.Background(), 1, CoverLetterRequest{JobDescription: "jd", Company: "Acme"})
	if !errors.Is(err, ErrAIInputInvalid) {
		t.Fatalf("expected ErrAIInputInvalid for missing role, got %v", err)
	}
}

func TestSummarizeWritesOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "", "Ada")
	fixture.generator.err = errors.New("quota exceeded")

	_, err := fixture.service.SummarizeApplication(context.Background(), 1, 10)
	if !errors.Is(err, ErrAIProvider) {
		t.Fatalf("expected ErrAIProvider, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected provider message to surface, got %q", err.Error())
	}
	if len(fixture.applications.updates) != 0 {
		t.Fatalf("expected no write after provider failure, got %v", fixture.applications.updates)
	}

	fixture.generator.err = nil
	fixture.generator.reply = "  - strong fit\n"
	summary, err := fixture.service.SummarizeApplication(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary != "- strong fit" {
		t.Fatalf("unexpected summary %q", summary)
	}
	if len(fixture.applications.updates) != 1 || fixture.applications.updates[0]["ai_summary"] != "- strong fit" {
		t.Fatalf("expected ai_summary write, got %v", fixture.applications.updates)
	}
}

func TestSummarizeForeignApplicationIsNotFound(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "summary", "Ada")
	_, err := fixture.service.SummarizeApplication(context.Background(), 1, 20)
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if len(fixture.generator.prompts) != 0 {
		t.Fatal("expected no provider call for a foreign application")
	}
}

func TestMatchAnalysisPersistsClampedScore(t *testing.T) {
	t.Parallel()

	reply := "```json\n{\"match_score\": 12, \"strengths\": [\"Go\"], \"gaps\": []}\n```"
	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, reply, "Ada")

	analysis, err := fixture.service.MatchAnalysis(context.Background(), 1, MatchRequest{JobPosting: "Go role", ApplicationID: uintPointer(10)})
	if err != nil {
		t.Fatalf("match analysis: %v", err)
	}
	if !json.Valid(analysis) {
		t.Fatalf("expected valid JSON analysis, got %s", analysis)
	}
	if len(fixture.applications.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(fixture.applications.updates))
	}
	if score := fixture.applications.updates[0]["match_score"]; score != 10.0 {
		t.Fatalf("expected clamped score 10, got %v", score)
	}
	if _, ok := fixture.applications.updates[0]["match_analysis"]; !ok {
		t.Fatal("expected match_analysis to be stored")
	}
}

func TestMatchAnalysisRequiresProfileName(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "{}", "")
	_, err := fixture.service.MatchAnalysis(context.Background(), 1, MatchRequest{JobPosting: "Go role"})
	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestMatchAnalysisMalformedReplyIsProviderError(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "I think it is a match", "Ada")
	_, err := fixture.service.MatchAnalysis(context.Background(), 1, MatchRequest{JobPosting: "Go role", ApplicationID: uintPointer(10)})
	if !errors.Is(err, ErrAIProvider) {
		t.Fatalf("expected ErrAIProvider, got %v", err)
	}
	if len(fixture.applications.updates) != 0 {
		t.Fatal("expected no write after malformed reply")
	}
}

func TestTailorCVStoresCleanedHTML(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "```html\n<html><body>CV</body></html>\n```", "Ada")
	html, err := fixture.service.TailorCV(context.Background(), 1, TailorCVRequest{JobPosting: "Go role", ApplicationID: uintPointer(10)})
	if err != nil {
		t.Fatalf("tailor cv: %v", err)
	}
	if html != "<html><body>CV</body></html>" {
		t.Fatalf("unexpected html %q", html)
	}
	if fixture.applications.updates[0]["generated_cv_html"] != html {
		t.Fatalf("expected generated_cv_html write, got %v", fixture.applications.updates)
	}
}

func TestChatPersistsExchangeOnlyForOwnedApplication(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "Follow up on Friday.", "Ada")

	reply, err := fixture.service.Chat(context.Background(), 1, ChatRequest{Message: "What next?", ApplicationID: uintPointer(10)})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Follow up on Friday." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if len(fixture.chats.saved) != 2 {
		t.Fatalf("expected two stored messages, got %d", len(fixture.chats.saved))
	}
	if fixture.chats.saved[0].Role != models.ChatRoleUser || fixture.chats.saved[1].Role != models.ChatRoleAssistant {
		t.Fatalf("unexpected roles %+v", fixture.chats.saved)
	}
	if fixture.chats.saved[0].Step != "general" {
		t.Fatalf("expected default step general, got %q", fixture.chats.saved[0].Step)
	}

	_, err = fixture.service.Chat(context.Background(), 1, ChatRequest{Message: "Hi", ApplicationID: uintPointer(20)})
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if len(fixture.generator.prompts) != 1 {
		t.Fatalf("expected the foreign request to stop before the provider, got %d prompts", len(fixture.generator.prompts))
	}

	if _, err := fixture.service.Chat(context.Background(), 1, ChatRequest{Message: "No app"}); err != nil {
		t.Fatalf("chat without application: %v", err)
	}
	if len(fixture.chats.saved) != 2 {
		t.Fatalf("expected no storage without application id, got %d", len(fixture.chats.saved))
	}
}

func TestScrapeJobURLParsesWhenProviderConfigured(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, `{"company": "Acme"}`, "Ada")
	result, err := fixture.service.ScrapeJobURL(context.Background(), 1, "https://jobs.example.com/1")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if string(result.Parsed) != `{"company": "Acme"}` {
		t.Fatalf("unexpected parsed payload %s", result.Parsed)
	}
	if result.Metadata.URL != "https://jobs.example.com/1" {
		t.Fatalf("unexpected metadata %+v", result.Metadata)
	}
}

func TestScrapeJobURLIgnoresParseFailure(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g"}, "", "Ada")
	fixture.generator.err = errors.New("provider down")

	result, err := fixture.service.ScrapeJobURL(context.Background(), 1, "https://jobs.example.com/1")
	if err != nil {
		t.Fatalf("expected parse failure to be ignored, got %v", err)
	}
	if result.Parsed != nil || result.Text == "" {
		t.Fatalf("expected raw text without parsed payload, got %+v", result)
	}
}

func TestScrapeJobURLFailureCarriesManualHint(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{}, "", "Ada")
	fixture.service.scraper = stubPageScraper{err: scraper.ErrFetchFailed}

	_, err := fixture.service.ScrapeJobURL(context.Background(), 1, "https://jobs.example.com/1")
	if !errors.Is(err, ErrScrapeFailed) {
		t.Fatalf("expected ErrScrapeFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "paste the job description manually") {
		t.Fatalf("expected manual hint, got %q", err.Error())
	}
}

func TestGeneratePDFStoresDocument(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{}, "", "Ada")
	document, err := fixture.service.GeneratePDF(context.Background(), 1, PDFRequest{HTML: "<p>CV</p>", DocType: "cover_letter", ApplicationID: uintPointer(10)})
	if err != nil {
		t.Fatalf("generate pdf: %v", err)
	}
	if document.DocCategory != models.DocCategoryCoverLetter {
		t.Fatalf("expected cover_letter category, got %q", document.DocCategory)
	}
	if document.Filename != "cover_letter_20260610_150000.pdf" {
		t.Fatalf("unexpected filename %q", document.Filename)
	}

	_, err = fixture.service.GeneratePDF(context.Background(), 1, PDFRequest{HTML: "<p>CV</p>", ApplicationID: uintPointer(20)})
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if fixture.renderer.calls != 1 {
		t.Fatalf("expected no render for a foreign application, got %d calls", fixture.renderer.calls)
	}
}

func TestGeneratePDFRenderFailure(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{}, "", "Ada")
	fixture.renderer.err = errors.New("chromium missing")

	_, err := fixture.service.GeneratePDF(context.Background(), 1, PDFRequest{HTML: "<p>CV</p>"})
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
	if len(fixture.documents.stored) != 0 {
		t.Fatal("expected no document after render failure")
	}
}

func TestTestAPIKeyReportsState(t *testing.T) {
	t.Parallel()

	fixture := newAssistantFixture(stubSettingValues{}, "hello", "Ada")
	check, err := fixture.service.TestAPIKey(context.Background(), 1)
	if err != nil || check.Valid {
		t.Fatalf("expected invalid check without key, got %+v (%v)", check, err)
	}

	fixture = newAssistantFixture(stubSettingValues{SettingGeminiAPIKey: "g", SettingBlackboxAPIKey: "b"}, "hello", "Ada")
	check, err = fixture.service.TestAPIKey(context.Background(), 1)
	if err != nil || !check.Valid {
		t.Fatalf("expected valid check, got %+v (%v)", check, err)
	}

	fixture.generator.err = errors.New("API key not valid")
	check, err = fixture.service.TestAPIKey(context.Background(), 1)
	if err != nil || check.Valid || check.Error != "API key not valid" {
		t.Fatalf("expected provider error in check, got %+v (%v)", check, err)
	}
}
