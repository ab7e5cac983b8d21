package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/models"
)

const jsonOnly = "Return ONLY valid JSON, no markdown fences and no commentary."

const parseJobPostTemplate = `Extract the structured fields of this job posting.

Job posting:
---
%s
---

Return a JSON object with the keys "company", "role", "location", "salary_min",
"salary_max", "salary_currency", "job_description", "requirements" and "url".
Use null for anything the posting does not state. Salaries are yearly integers.
` + jsonOnly

func ParseJobPostPrompt(text string) string {
	return fmt.Sprintf(parseJobPostTemplate, text)
}

func CVPrompt(jobDescription string, currentCV string, instructions string) string {
	var builder strings.Builder
	builder.WriteString("Write a professional, ATS-friendly CV in Markdown for the job below.\n\n")
	fmt.Fprintf(&builder, "Job description:\n---\n%s\n---\n\n", jobDescription)
	if strings.TrimSpace(currentCV) != "" {
		fmt.Fprintf(&builder, "Current CV to improve:\n---\n%s\n---\n", currentCV)
		builder.WriteString("Keep every fact from the current CV but present it to match the job.\n\n")
	}
	writeInstructions(&builder, instructions)
	return builder.String()
}

func CoverLetterPrompt(jobDescription string, company string, role string, instructions string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Write a concise cover letter (250-350 words) for the %s position at %s.\n\n", role, company)
	fmt.Fprintf(&builder, "Job description:\n---\n%s\n---\n\n", jobDescription)
	writeInstructions(&builder, instructions)
	return builder.String()
}

func SummarizeApplicationPrompt(application models.Application) string {
	salary := "Not specified"
	if application.SalaryMin != nil && application.SalaryMax != nil {
		salary = fmt.Sprintf("%d-%d %s", *application.SalaryMin, *application.SalaryMax, application.SalaryCurrency)
	}

	var builder strings.Builder
	builder.WriteString("Summarize this job application in 3-5 short bullet points: what the role is, ")
	builder.WriteString("how well it fits, and the next sensible action.\n\n")
	fmt.Fprintf(&builder, "Company: %s\nRole: %s\nLocation: %s\nStatus: %s\nApplied: %s\nSalary: %s\n",
		application.Company,
		application.Role,
		orNotProvided(application.Location),
		application.Status,
		application.AppliedDate.Format("2006-01-02"),
		salary,
	)
	fmt.Fprintf(&builder, "Job description:\n%s\nRequirements:\n%s\nNotes:\n%s\n",
		orNotProvided(application.JobDescription),
		orNotProvided(application.Requirements),
		orNotProvided(application.Notes),
	)
	return builder.String()
}

func ImproveTextPrompt(text string, instructions string) string {
	var builder strings.Builder
	builder.WriteString("Improve the following text for a job application. Keep its meaning and language; ")
	builder.WriteString("return only the improved text.\n\n")
	fmt.Fprintf(&builder, "Text:\n---\n%s\n---\n\n", text)
	writeInstructions(&builder, instructions)
	return builder.String()
}

const matchAnalysisTemplate = `Compare the candidate with the job posting.

%s
Job posting:
---
%s
---

Return a JSON object with "match_score" (number 0-10), "strengths" (array of
strings), "gaps" (array of strings), "recommendation" (string) and
"keywords_to_add" (array of strings).
` + jsonOnly

func MatchAnalysisPrompt(profile models.UserProfile, jobPosting string) string {
	return fmt.Sprintf(matchAnalysisTemplate, profileSection(profile), jobPosting)
}

func TailorCVPrompt(profile models.UserProfile, jobPosting string, instructions string) string {
	var builder strings.Builder
	builder.WriteString("Produce a one-page CV as a complete, self-contained HTML document with inline CSS, ")
	builder.WriteString("tailored to the job posting. Use only facts from the candidate profile.\n\n")
	builder.WriteString(profileSection(profile))
	fmt.Fprintf(&builder, "Contact: %s | %s | %s | %s | %s\n\n",
		profile.Email, profile.Phone, profile.Location, profile.LinkedInURL, profile.PortfolioURL)
	fmt.Fprintf(&builder, "Job posting:\n---\n%s\n---\n\n", jobPosting)
	writeInstructions(&builder, instructions)
	builder.WriteString("Return only the HTML.\n")
	return builder.String()
}

const followUpTemplate = `Draft a follow-up email for this application.

Candidate: %s
Summary: %s
Company: %s
Role: %s
Status: %s
Applied: %s
Context: %s

Return a JSON object with "subject", "body" and "send_in_days" (integer).
` + jsonOnly

func FollowUpPrompt(application models.Application, profile models.UserProfile, context string) string {
	return fmt.Sprintf(followUpTemplate,
		orNotProvided(profile.FullName),
		orNotProvided(profile.ProfessionalSummary),
		application.Company,
		application.Role,
		application.Status,
		application.AppliedDate.Format("2006-01-02"),
		orNotProvided(context),
	)
}

const interviewPrepTemplate = `Prepare the candidate for an interview.

%s
Company: %s
Role: %s
Job posting:
---
%s
---

Return a JSON object with "likely_questions" (array of {"question", "suggested_answer"}),
"questions_to_ask" (array of strings), "topics_to_review" (array of strings)
and "tips" (array of strings).
` + jsonOnly

func InterviewPrepPrompt(application models.Application, profile models.UserProfile) string {
	posting := application.JobPostingText
	if strings.TrimSpace(posting) == "" {
		posting = application.JobDescription
	}
	return fmt.Sprintf(interviewPrepTemplate,
		profileSection(profile),
		application.Company,
		application.Role,
		orNotProvided(posting),
	)
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatContext struct {
	Step       string
	Company    string
	Role       string
	JobPosting string
	Profile    models.UserProfile
	History    []ChatTurn
}

const (
	chatHistoryTurns   = 10
	chatPostingPreview = 500
)

func ChatPrompt(message string, context ChatContext) string {
	step := context.Step
	if strings.TrimSpace(step) == "" {
		step = "general"
	}

	var builder strings.Builder
	builder.WriteString("You are a job-application assistant. Answer briefly and practically.\n\n")
	fmt.Fprintf(&builder, "Current step: %s\nCompany: %s\nRole: %s\n",
		step, orNotProvided(context.Company), orNotProvided(context.Role))
	if strings.TrimSpace(context.Profile.FullName) != "" {
		fmt.Fprintf(&builder, "Candidate: %s, skills: %s\n", context.Profile.FullName, skillNames(context.Profile.Skills))
	}
	if posting := strings.TrimSpace(context.JobPosting); posting != "" {
		runes := []rune(posting)
		if len(runes) > chatPostingPreview {
			posting = string(runes[:chatPostingPreview])
		}
		fmt.Fprintf(&builder, "Job posting:\n%s\n", posting)
	}

	history := context.History
	if len(history) > chatHistoryTurns {
		history = history[len(history)-chatHistoryTurns:]
	}
	builder.WriteString("\nConversation so far:\n")
	if len(history) == 0 {
		builder.WriteString("No previous messages.\n")
	}
	for _, turn := range history {
		fmt.Fprintf(&builder, "%s: %s\n", turn.Role, turn.Content)
	}
	fmt.Fprintf(&builder, "\nuser: %s\nassistant:", message)
	return builder.String()
}

const searchQueriesTemplate = `Suggest 3-5 job search queries for this candidate.

Profile summary: %s
Recent roles: %s
Key skills: %s
Location: %s

Return a JSON array of objects with "query" (2-4 words) and "location"
(a suggested city or an empty string).
` + jsonOnly

func SearchQueriesPrompt(profile models.UserProfile, recentRoles []string, skills []string) string {
	return fmt.Sprintf(searchQueriesTemplate,
		orNotProvided(profile.ProfessionalSummary),
		strings.Join(recentRoles, ", "),
		strings.Join(skills, ", "),
		orNotProvided(profile.Location),
	)
}

func profileSection(profile models.UserProfile) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Candidate: %s\n", orNotProvided(profile.FullName))
	fmt.Fprintf(&builder, "Summary: %s\n", orNotProvided(profile.ProfessionalSummary))
	fmt.Fprintf(&builder, "Skills: %s\n", skillNames(profile.Skills))
	fmt.Fprintf(&builder, "Experience: %s\n", compactJSON(profile.WorkExperiences))
	fmt.Fprintf(&builder, "Education: %s\n", compactJSON(profile.Education))
	fmt.Fprintf(&builder, "Languages: %s\n", compactJSON(profile.Languages))
	fmt.Fprintf(&builder, "Certifications: %s\n", compactJSON(profile.Certifications))
	return builder.String()
}

func skillNames(skills []models.Skill) string {
	names := make([]string, 0, len(skills))
	for _, skill := range skills {
		if name := strings.TrimSpace(skill.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "Not provided"
	}
	return strings.Join(names, ", ")
}

func compactJSON(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil || string(encoded) == "null" {
		return "[]"
	}
	return string(encoded)
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not provided"
	}
	return value
}

func writeInstructions(builder *strings.Builder, instructions string) {
	if strings.TrimSpace(instructions) == "" {
		return
	}
	fmt.Fprintf(builder, "Additional instructions: %s\n", strings.TrimSpace(instructions))
}
