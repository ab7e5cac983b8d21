package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	applications := api.Group("/applications", handler.AuthRequired)
	applications.Get("", handler.ListApplications)
	applications.Post("", handler.CreateApplication)
	applications.Get("/calendar", handler.ApplicationCalendar)
	applications.Get("/:id", handler.GetApplication)
	applications.Put("/:id", handler.UpdateApplication)
	applications.Delete("/:id", handler.DeleteApplication)
	applications.Patch("/:id/status", handler.ChangeApplicationStatus)
	applications.Get("/:id/history", handler.ApplicationHistory)
	applications.Post("/:id/documents", handler.UploadDocument)
	applications.Get("/:id/documents", handler.ListDocuments)
	applications.Post("/:id/reminders", handler.CreateReminder)
	applications.Get("/:id/interviews", handler.ListInterviews)
	applications.Post("/:id/interviews", handler.CreateInterview)
	applications.Put("/:id/interviews/:interviewId", handler.UpdateInterview)
	applications.Delete("/:id/interviews/:interviewId", handler.DeleteInterview)

	documents := api.Group("/documents", handler.AuthRequired)
	documents.Get("/:id/download", handler.DownloadDocument)
	documents.Delete("/:id", handler.DeleteDocument)

	reminders := api.Group("/reminders", handler.AuthRequired)
	reminders.Get("", handler.ListReminders)
	reminders.Get("/upcoming", handler.UpcomingReminders)
	reminders.Patch("/:id/dismiss", handler.DismissReminder)
	reminders.Delete("/:id", handler.DeleteReminder)

	dashboard := api.Group("/dashboard", handler.AuthRequired)
	dashboard.Get("/stats", handler.DashboardStats)
	dashboard.Get("/timeline", handler.DashboardTimeline)
	dashboard.Get("/recent", handler.DashboardRecent)
	dashboard.Get("/deadline-alerts", handler.DashboardDeadlineAlerts)
	dashboard.Get("/funnel", handler.DashboardFunnel)
	dashboard.Get("/followup-suggestions", handler.DashboardFollowUps)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
	profile.Get("/onboarding-status", handler.OnboardingStatus)
	profile.Post("/complete-onboarding", handler.CompleteOnboarding)
	profile.Post("/upload-cv", handler.UploadCV)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)
	settings.Get("/test-api-key", handler.TestAPIKey)

	admin := api.Group("/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Get("/invited-emails", handler.ListInvites)
	admin.Post("/invited-emails", handler.AddInvite)
	admin.Delete("/invited-emails/:id", handler.DeleteInvite)
	admin.Get("/users", handler.ListUsers)
	admin.Post("/users/:id/toggle-active", handler.ToggleUserActive)
	admin.Get("/registration-mode", handler.RegistrationMode)
	admin.Post("/registration-mode", handler.SetRegistrationMode)

	assistant := api.Group("/ai", handler.AuthRequired)
	assistant.Post("/parse-job-post", handler.ParseJobPost)
	assistant.Post("/scrape-job-url", handler.ScrapeJobURL)
	assistant.Post("/generate-cv", handler.GenerateCV)
	assistant.Post("/generate-cover-letter", handler.GenerateCoverLetter)
	assistant.Post("/summarize-application", handler.SummarizeApplication)
	assistant.Post("/improve-text", handler.ImproveText)
	assistant.Post("/match-analysis", handler.MatchAnalysis)
	assistant.Post("/tailor-cv", handler.TailorCV)
	assistant.Post("/generate-followup", handler.GenerateFollowUp)
	assistant.Post("/interview-prep", handler.InterviewPrep)
	assistant.Post("/chat", handler.Chat)
	assistant.Post("/generate-pdf", handler.GeneratePDF)
	assistant.Get("/history-analysis", handler.HistoryAnalysis)
	assistant.Post("/history-analysis/refresh", handler.RefreshHistoryAnalysis)
	assistant.Post("/extract-cv-profile", handler.ExtractCVProfile)
	assistant.Post("/tailor-cv-template", handler.TailorCVTemplate)
	assistant.Post("/tailor-cover-letter", handler.TailorCoverLetter)
	assistant.Post("/extract-apply-method", handler.ExtractApplyMethod)

	consultant := assistant.Group("/career-consultant")
	consultant.Post("/chat", handler.ConsultantChat)
	consultant.Get("/sessions", handler.ListConsultantSessions)
	consultant.Post("/sessions", handler.CreateConsultantSession)
	consultant.Get("/sessions/:id", handler.GetConsultantSession)
	consultant.Put("/sessions/:id", handler.UpdateConsultantSession)
	consultant.Delete("/sessions/:id", handler.DeleteConsultantSession)
	consultant.Post("/sessions/:id/assign", handler.AssignConsultantSession)

	jobSearch := api.Group("/job-search", handler.AuthRequired)
	jobSearch.Get("/search", handler.SearchJobs)
	jobSearch.Post("/save-application", handler.SaveJobPosting)
	jobSearch.Get("/smart-suggestions", handler.SmartSuggestions)
	jobSearch.Post("/analyze-match", handler.AnalyzePosting)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
