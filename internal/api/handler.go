package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/pdftext"
	"github.com/terraincognita07/jobtrack/internal/services"
	"github.com/terraincognita07/jobtrack/internal/storage"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL = 7 * 24 * time.Hour
	loginFailureLimit   = 5
	loginFailureWindow  = 15 * time.Minute
)

// Options carries the collaborators the handler cannot build from the
// database alone.
type Options struct {
	Secret           string
	TokenTTL         time.Duration
	RegistrationOpen bool
	MaxUploadBytes   int64
	Blobs            storage.Store
	Providers        services.AIProviders
	Renderer         services.PDFRenderer
	Scraper          services.PageScraper
	JobBackends      services.JobBackends
	JobAggregator    services.JobAggregator
	DefaultCountries []string
	CVText           services.PDFTextExtractor
}

type Handler struct {
	secretKey    []byte
	tokenTTL     time.Duration
	now          func() time.Time
	loginLimiter *attemptLimiter
	database     *gorm.DB

	repositories     *db.Repositories
	authService      *services.AuthService
	adminService     *services.AdminService
	applicationSvc   *services.ApplicationService
	documentService  *services.DocumentService
	reminderService  *services.ReminderService
	interviewService *services.InterviewService
	dashboardService *services.DashboardService
	profileService   *services.ProfileService
	settingsService  *services.SettingsService
	assistantService *services.AssistantService
	jobSearchService *services.JobSearchService
	cvImportService  *services.CVImportService
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.Secret == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Blobs == nil {
		return nil, errors.New("blob store is required")
	}

	handler := &Handler{
		secretKey:    []byte(options.Secret),
		tokenTTL:     options.TokenTTL,
		now:          time.Now,
		loginLimiter: newAttemptLimiter(),
	}
	if handler.tokenTTL <= 0 {
		handler.tokenTTL = defaultAuthTokenTTL
	}
	return handler.withDependencies(database, options), nil
}

func (handler *Handler) withDependencies(database *gorm.DB, options Options) *Handler {
	repos := db.NewRepositories(database)
	mode := services.NewRegistrationMode(options.RegistrationOpen)

	handler.database = database
	handler.repositories = repos
	handler.authService = services.NewAuthService(repos.Users, repos.Invites, mode)
	handler.adminService = services.NewAdminService(repos.Users, repos.Invites, mode)
	handler.applicationSvc = services.NewApplicationService(repos.Applications, repos.Children, options.Blobs)
	handler.documentService = services.NewDocumentService(repos.Documents, repos.Applications, options.Blobs, options.MaxUploadBytes)
	handler.reminderService = services.NewReminderService(repos.Reminders, repos.Applications)
	handler.interviewService = services.NewInterviewService(repos.Interviews, repos.Applications)
	handler.dashboardService = services.NewDashboardService(repos.Applications)
	handler.profileService = services.NewProfileService(repos.Profiles)
	handler.settingsService = services.NewSettingsService(repos.Settings)
	handler.assistantService = services.NewAssistantService(services.AssistantDependencies{
		Settings:     handler.settingsService,
		Providers:    options.Providers,
		Applications: handler.applicationSvc,
		Profiles:     handler.profileService,
		Chats:        repos.ChatMessages,
		Documents:    handler.documentService,
		Renderer:     options.Renderer,
		Scraper:      options.Scraper,
		History:      repos.Applications,
		Insights:     repos.Insights,
		Consultant:   repos.Consultant,
	})
	handler.jobSearchService = services.NewJobSearchService(services.JobSearchDependencies{
		Settings:         handler.settingsService,
		Backends:         options.JobBackends,
		Aggregator:       options.JobAggregator,
		Applications:     handler.applicationSvc,
		Profiles:         handler.profileService,
		Suggester:        handler.assistantService,
		DefaultCountries: options.DefaultCountries,
	})
	cvText := options.CVText
	if cvText == nil {
		cvText = pdftext.Extractor{}
	}
	handler.cvImportService = services.NewCVImportService(cvText, options.MaxUploadBytes)
	return handler
}
