package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/jobsearch"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/scraper"
	"github.com/terraincognita07/jobtrack/internal/storage"
	"gorm.io/gorm"
)

const testPassword = "Secur3Pass"

type stubGenerator struct {
	reply string
	err   error
}

func (stub stubGenerator) Generate(context.Context, string) (string, error) {
	return stub.reply, stub.err
}

type stubProviders struct {
	generator stubGenerator
}

func (stub stubProviders) Gemini(string) ai.Generator   { return stub.generator }
func (stub stubProviders) Blackbox(string) ai.Generator { return stub.generator }

type stubRenderer struct{}

func (stubRenderer) RenderPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

type failingScraper struct{}

func (failingScraper) Scrape(context.Context, string) (scraper.Page, error) {
	return scraper.Page{}, errors.New("could not extract enough content from this page")
}

type stubJobBackend struct {
	name     string
	postings []jobsearch.Posting
	err      error
}

func (stub stubJobBackend) Name() string { return stub.name }

func (stub stubJobBackend) Search(context.Context, jobsearch.Query) ([]jobsearch.Posting, error) {
	return stub.postings, stub.err
}

type stubJobBackends struct {
	adzuna  stubJobBackend
	jsearch stubJobBackend
}

func (stub stubJobBackends) Adzuna(string, string) jobsearch.Backend { return stub.adzuna }
func (stub stubJobBackends) JSearch(string) jobsearch.Backend        { return stub.jsearch }

type testEnv struct {
	app      *fiber.App
	database *gorm.DB
	handler  *Handler
}

func newTestApp(t *testing.T) testEnv {
	t.Helper()
	return newTestAppWithOptions(t, nil)
}

func newTestAppWithOptions(t *testing.T, configure func(*Options)) testEnv {
	t.Helper()

	root := t.TempDir()
	database, err := db.OpenSQLite(filepath.Join(root, "jobtrack-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	blobs, err := storage.NewLocalStore(filepath.Join(root, "uploads"))
	if err != nil {
		t.Fatalf("init local store: %v", err)
	}

	options := Options{
		Secret:           "test-secret-key",
		RegistrationOpen: true,
		MaxUploadBytes:   1 << 20,
		Blobs:            blobs,
		Providers:        stubProviders{generator: stubGenerator{reply: `{"company": "Acme", "role": "Go Developer"}`}},
		Renderer:         stubRenderer{},
		Scraper:          failingScraper{},
		JobBackends: stubJobBackends{
			adzuna: stubJobBackend{name: "adzuna", postings: []jobsearch.Posting{
				{ExternalID: "a1", Title: "Go Developer", Company: "Acme", URL: "https://jobs.example/1", Source: "adzuna"},
			}},
			jsearch: stubJobBackend{name: "jsearch", err: errors.New("quota exceeded")},
		},
		JobAggregator:    jobsearch.NewAggregator(2, 50),
		DefaultCountries: []string{"it"},
	}
	if configure != nil {
		configure(&options)
	}

	handler, err := NewHandler(database, options)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return testEnv{app: app, database: database, handler: handler}
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return sendRequest(t, app, request)
}

func sendRequest(t *testing.T, app *fiber.App, request *http.Request) (int, []byte) {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", request.Method, request.URL.Path, err)
	}
	return response.StatusCode, payload
}

func expectStatus(t *testing.T, got int, want int, body []byte) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d: %s", want, got, string(body))
	}
}

func decodeBody(t *testing.T, body []byte, target any) {
	t.Helper()
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode response %q: %v", string(body), err)
	}
}

func readAPIError(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	decodeBody(t, body, &payload)
	return payload.Error
}

func registerTestUser(t *testing.T, app *fiber.App, email string) (models.User, string) {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":     email,
		"password":  testPassword,
		"full_name": "Test User",
	})
	expectStatus(t, status, fiber.StatusCreated, body)

	var session authResponse
	decodeBody(t, body, &session)
	if session.AccessToken == "" {
		t.Fatalf("expected access token in %s", string(body))
	}
	return session.User, session.AccessToken
}

func promoteToAdmin(t *testing.T, database *gorm.DB, userID uint) {
	t.Helper()
	if err := db.NewUserRepository(database).UpdateRole(userID, models.RoleAdmin); err != nil {
		t.Fatalf("promote user: %v", err)
	}
}

func createTestApplication(t *testing.T, app *fiber.App, token string, company string, role string) models.Application {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/applications", token, fiber.Map{
		"company": company,
		"role":    role,
	})
	expectStatus(t, status, fiber.StatusCreated, body)

	var application models.Application
	decodeBody(t, body, &application)
	return application
}

func newJSONRequest(t *testing.T, method string, path string, body any) *http.Request {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encode request body: %v", err)
	}
	request := httptest.NewRequest(method, path, bytes.NewReader(encoded))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return request
}
