package ai

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/models"
)

const historyAnalysisTemplate = `Analyse the job search history of this candidate and coach them.

Candidate: %s
Location: %s
Summary: %s
Skills: %s

Applications (%d in total):
%s

Return a JSON object with "summary" (string), "strengths" (array of strings),
"weaknesses" (array of strings), "patterns" (array of strings),
"recommendations" (array of strings), "success_rate_insight" (string) and
"next_steps" (array of strings).
` + jsonOnly

// HistoryAnalysisPrompt lists one line per application, newest first.
func HistoryAnalysisPrompt(profile models.UserProfile, applications []models.Application) string {
	lines := make([]string, 0, len(applications))
	for _, application := range applications {
		score := "N/A"
		if application.MatchScore != nil {
			score = fmt.Sprintf("%.1f", *application.MatchScore)
		}
		lines = append(lines, fmt.Sprintf("- %s | %s | Status: %s | Applied: %s | Match Score: %s",
			application.Company,
			application.Role,
			application.Status,
			application.AppliedDate.Format("2006-01-02"),
			score,
		))
	}
	summary := "No applications yet."
	if len(lines) > 0 {
		summary = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(historyAnalysisTemplate,
		orNotProvided(profile.FullName),
		orNotProvided(profile.Location),
		orNotProvided(profile.ProfessionalSummary),
		skillNames(profile.Skills),
		len(applications),
		summary,
	)
}

const extractCVProfileTemplate = `Extract a structured candidate profile from this CV.

CV:
---
%s
---

Return a JSON object with "full_name", "email", "phone", "location",
"linkedin_url", "portfolio_url", "professional_summary",
"work_experiences" (array of {"title", "company", "location", "start_date", "end_date", "current", "description"}),
"education" (array of {"degree", "institution", "field", "start_date", "end_date", "description"}),
"skills" (array of {"name", "level"}), "languages" (array of {"name", "proficiency"})
and "certifications" (array of {"name", "issuer", "date", "url"}).
Use empty strings or empty arrays for anything the CV does not state.
` + jsonOnly

func ExtractCVProfilePrompt(cvText string) string {
	return fmt.Sprintf(extractCVProfileTemplate, cvText)
}

// CVTemplate describes the layout asked of a template-based CV.
type CVTemplate struct {
	TemplateID   string `json:"template_id"`
	IncludePhoto bool   `json:"include_photo"`
	MaxPages     int    `json:"max_pages"`
	SkillsFormat string `json:"skills_format"`
}

var cvTemplateStyles = map[string]string{
	"classic": "serif headings, single column, thin rules between sections",
	"modern":  "sans-serif, coloured accent bar, two columns with skills in a sidebar",
	"minimal": "plain sans-serif, generous white space, no colours",
}

func CVTemplateIDs() []string {
	return []string{"classic", "modern", "minimal"}
}

func TailorCVTemplatePrompt(profile models.UserProfile, jobPosting string, template CVTemplate, instructions string) string {
	style, ok := cvTemplateStyles[template.TemplateID]
	if !ok {
		template.TemplateID = "classic"
		style = cvTemplateStyles["classic"]
	}
	if template.MaxPages < 1 {
		template.MaxPages = 1
	}
	if template.SkillsFormat != "tags" {
		template.SkillsFormat = "list"
	}

	var builder strings.Builder
	builder.WriteString("Produce a CV as a complete, self-contained HTML document with inline CSS, ")
	builder.WriteString("tailored to the job posting. Use only facts from the candidate profile.\n\n")
	fmt.Fprintf(&builder, "Template: %s (%s)\n", template.TemplateID, style)
	fmt.Fprintf(&builder, "Maximum pages: %d\nSkills shown as: %s\n", template.MaxPages, template.SkillsFormat)
	if template.IncludePhoto {
		builder.WriteString("Reserve a 90x90px photo placeholder next to the name.\n")
	}
	builder.WriteString("\n")
	builder.WriteString(profileSection(profile))
	fmt.Fprintf(&builder, "Contact: %s | %s | %s | %s | %s\n\n",
		profile.Email, profile.Phone, profile.Location, profile.LinkedInURL, profile.PortfolioURL)
	fmt.Fprintf(&builder, "Job posting:\n---\n%s\n---\n\n", jobPosting)
	writeInstructions(&builder, instructions)
	builder.WriteString("Return only the HTML.\n")
	return builder.String()
}

var coverLetterWords = map[string]string{
	"short":  "150-200",
	"medium": "250-350",
	"long":   "400-500",
}

func TailorCoverLetterPrompt(profile models.UserProfile, jobPosting string, company string, role string, length string, instructions string) string {
	words, ok := coverLetterWords[length]
	if !ok {
		words = coverLetterWords["medium"]
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Write a %s word cover letter for the %s position at %s ", words, role, company)
	builder.WriteString("as a self-contained HTML document with inline CSS, ready to print on A4. ")
	builder.WriteString("Use only facts from the candidate profile.\n\n")
	fmt.Fprintf(&builder, "Candidate: %s\nSummary: %s\nSkills: %s\nExperience: %s\n\n",
		orNotProvided(profile.FullName),
		orNotProvided(profile.ProfessionalSummary),
		skillNames(profile.Skills),
		compactJSON(profile.WorkExperiences),
	)
	fmt.Fprintf(&builder, "Job posting:\n---\n%s\n---\n\n", jobPosting)
	writeInstructions(&builder, instructions)
	builder.WriteString("Return only the HTML.\n")
	return builder.String()
}

const applyMethodTemplate = `Find out how to apply for this job.

Job posting:
---
%s
---

Return a JSON object with "method" (one of "email", "website", "portal",
"linkedin", "other"), "email" (string or null), "url" (string or null),
"instructions" (string), "required_documents" (array of strings) and
"deadline" (YYYY-MM-DD or null).
` + jsonOnly

func ExtractApplyMethodPrompt(jobPosting string) string {
	return fmt.Sprintf(applyMethodTemplate, jobPosting)
}

// ConsultantContext is what the career consultant knows besides the message.
type ConsultantContext struct {
	Topic       string
	Profile     models.UserProfile
	Application *models.Application
	History     []ChatTurn
}

const (
	consultantHistoryTurns   = 15
	consultantPostingPreview = 500
)

func ConsultantChatPrompt(message string, context ConsultantContext) string {
	topic := strings.TrimSpace(context.Topic)
	if topic == "" {
		topic = "general"
	}

	var builder strings.Builder
	builder.WriteString("You are an experienced career consultant. Give honest, specific advice ")
	builder.WriteString("grounded in the candidate's profile. Ask a clarifying question when needed.\n\n")
	fmt.Fprintf(&builder, "Topic: %s\n\n", topic)
	if strings.TrimSpace(context.Profile.FullName) != "" {
		builder.WriteString(profileSection(context.Profile))
		fmt.Fprintf(&builder, "Location: %s\n\n", orNotProvided(context.Profile.Location))
	}
	if application := context.Application; application != nil {
		description := []rune(application.JobDescription)
		if len(description) > consultantPostingPreview {
			description = description[:consultantPostingPreview]
		}
		fmt.Fprintf(&builder, "Linked application:\nCompany: %s\nRole: %s\nStatus: %s\nJob description: %s\n\n",
			application.Company, application.Role, application.Status, orNotProvided(string(description)))
	}

	history := context.History
	if len(history) > consultantHistoryTurns {
		history = history[len(history)-consultantHistoryTurns:]
	}
	builder.WriteString("Conversation so far:\n")
	if len(history) == 0 {
		builder.WriteString("No previous messages, this is the start of the conversation.\n")
	}
	for _, turn := range history {
		fmt.Fprintf(&builder, "%s: %s\n", turn.Role, turn.Content)
	}
	fmt.Fprintf(&builder, "\nuser: %s\nconsultant:", message)
	return builder.String()
}

func ConsultantSummaryPrompt(conversation string, company string, role string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Summarise this career consultation about the %s role at %s ", role, company)
	builder.WriteString("in at most five bullet points: decisions taken, advice given and open actions.\n\n")
	fmt.Fprintf(&builder, "Conversation:\n---\n%s\n---\n", conversation)
	return builder.String()
}
