package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/jobtrack/internal/jobsearch"
	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrJobSearchInvalid       = errors.New("invalid job search request")
	ErrJobSearchNotConfigured = errors.New("job search credentials not configured, add Adzuna or JSearch keys in settings")
)

const (
	savedPostingNote           = "Created from job search"
	savedDescriptionRunes      = 500
	maxSuggestionFallbackRoles = 3
)

type JobBackends interface {
	Adzuna(appID string, apiKey string) jobsearch.Backend
	JSearch(apiKey string) jobsearch.Backend
}

type JobAggregator interface {
	Search(ctx context.Context, tasks []jobsearch.Task) []jobsearch.Posting
}

type ApplicationCreator interface {
	Create(userID uint, input ApplicationInput, note string) (models.Application, error)
}

type SearchQuerySuggester interface {
	SuggestSearchQueries(ctx context.Context, userID uint, profile models.UserProfile, recentRoles []string, skills []string) ([]SearchSuggestion, error)
}

type JobSearchParams struct {
	Query     string
	Location  string
	Countries string
	Page      string
}

type JobSearchResult struct {
	Results   []jobsearch.Posting `json:"results"`
	Count     int                 `json:"count"`
	Page      int                 `json:"page"`
	Countries []string            `json:"countries"`
}

type SavePostingRequest struct {
	Title         string          `json:"title"`
	Company       string          `json:"company"`
	Location      string          `json:"location"`
	URL           string          `json:"url"`
	Description   string          `json:"description"`
	SalaryMin     *float64        `json:"salary_min"`
	SalaryMax     *float64        `json:"salary_max"`
	MatchAnalysis json.RawMessage `json:"match_analysis"`
}

type SearchSuggestions struct {
	Suggestions     []SearchSuggestion `json:"suggestions"`
	ProfileLocation string             `json:"profile_location"`
}

type JobSearchService struct {
	settings         SettingValues
	backends         JobBackends
	aggregator       JobAggregator
	applications     ApplicationCreator
	profiles         AssistantProfiles
	suggester        SearchQuerySuggester
	defaultCountries []string
}

type JobSearchDependencies struct {
	Settings         SettingValues
	Backends         JobBackends
	Aggregator       JobAggregator
	Applications     ApplicationCreator
	Profiles         AssistantProfiles
	Suggester        SearchQuerySuggester
	DefaultCountries []string
}

func NewJobSearchService(deps JobSearchDependencies) *JobSearchService {
	countries := normalizeCountries(deps.DefaultCountries)
	if len(countries) == 0 {
		countries = []string{"it"}
	}
	return &JobSearchService{
		settings:         deps.Settings,
		backends:         deps.Backends,
		aggregator:       deps.Aggregator,
		applications:     deps.Applications,
		profiles:         deps.Profiles,
		suggester:        deps.Suggester,
		defaultCountries: countries,
	}
}

// Search fans the query out to Adzuna once per country and to JSearch once,
// using whichever credentials the user stored.
func (service *JobSearchService) Search(ctx context.Context, userID uint, params JobSearchParams) (JobSearchResult, error) {
	text := strings.TrimSpace(params.Query)
	if text == "" {
		return JobSearchResult{}, fmt.Errorf("%w: search query (q) is required", ErrJobSearchInvalid)
	}
	countries := normalizeCountries(strings.Split(params.Countries, ","))
	if len(countries) == 0 {
		countries = service.defaultCountries
	}
	page := parsePositiveInt(params.Page, 1)

	tasks, err := service.searchTasks(userID, jobsearch.Query{
		Text:     text,
		Location: strings.TrimSpace(params.Location),
		Page:     page,
	}, countries)
	if err != nil {
		return JobSearchResult{}, err
	}

	postings := service.aggregator.Search(ctx, tasks)
	return JobSearchResult{Results: postings, Count: len(postings), Page: page, Countries: countries}, nil
}

func (service *JobSearchService) searchTasks(userID uint, query jobsearch.Query, countries []string) ([]jobsearch.Task, error) {
	appID, err := service.settings.Value(userID, SettingAdzunaAppID)
	if err != nil {
		return nil, err
	}
	adzunaKey, err := service.settings.Value(userID, SettingAdzunaAPIKey)
	if err != nil {
		return nil, err
	}
	jsearchKey, err := service.settings.Value(userID, SettingJSearchAPIKey)
	if err != nil {
		return nil, err
	}

	tasks := make([]jobsearch.Task, 0, len(countries)+1)
	if appID != "" && adzunaKey != "" {
		adzuna := service.backends.Adzuna(appID, adzunaKey)
		for _, country := range countries {
			countryQuery := query
			countryQuery.Country = country
			tasks = append(tasks, jobsearch.Task{Backend: adzuna, Query: countryQuery})
		}
	}
	if jsearchKey != "" {
		tasks = append(tasks, jobsearch.Task{Backend: service.backends.JSearch(jsearchKey), Query: query})
	}
	if len(tasks) == 0 {
		return nil, ErrJobSearchNotConfigured
	}
	return tasks, nil
}

func normalizeCountries(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	countries := make([]string, 0, len(values))
	for _, value := range values {
		country := strings.ToLower(strings.TrimSpace(value))
		if len(country) != 2 || country[0] < 'a' || country[0] > 'z' || country[1] < 'a' || country[1] > 'z' {
			continue
		}
		if _, duplicate := seen[country]; duplicate {
			continue
		}
		seen[country] = struct{}{}
		countries = append(countries, country)
	}
	return countries
}

// SaveApplication stores a search result as a draft application.
func (service *JobSearchService) SaveApplication(userID uint, request SavePostingRequest) (models.Application, error) {
	title := strings.TrimSpace(request.Title)
	company := strings.TrimSpace(request.Company)
	if title == "" || company == "" {
		return models.Application{}, fmt.Errorf("%w: title and company are required", ErrJobSearchInvalid)
	}

	status := models.StatusDraft
	description := request.Description
	summary := truncateRunes(description, savedDescriptionRunes)
	input := ApplicationInput{
		Company:        &company,
		Role:           &title,
		Location:       &request.Location,
		URL:            &request.URL,
		Status:         &status,
		JobDescription: &summary,
		JobPostingText: &description,
		SalaryMin:      roundedSalary(request.SalaryMin),
		SalaryMax:      roundedSalary(request.SalaryMax),
	}
	if len(request.MatchAnalysis) > 0 && string(request.MatchAnalysis) != "null" {
		input.MatchAnalysis = request.MatchAnalysis
		if score, ok := matchScore(request.MatchAnalysis); ok {
			input.MatchScore = &score
		}
	}
	return service.applications.Create(userID, input, savedPostingNote)
}

func roundedSalary(value *float64) *int {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	rounded := int(math.Round(*value))
	return &rounded
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

// SmartSuggestions proposes search queries for the user's profile. Without a
// provider, or when it fails, the recent job titles and top skills are used.
func (service *JobSearchService) SmartSuggestions(ctx context.Context, userID uint) (SearchSuggestions, error) {
	profile, err := service.profiles.Get(userID)
	if err != nil {
		return SearchSuggestions{}, err
	}
	if strings.TrimSpace(profile.FullName) == "" {
		return SearchSuggestions{}, ErrProfileIncomplete
	}

	recentRoles := make([]string, 0, maxSuggestionFallbackRoles)
	for _, experience := range profile.WorkExperiences {
		if len(recentRoles) == maxSuggestionFallbackRoles {
			break
		}
		if title := strings.TrimSpace(experience.Title); title != "" {
			recentRoles = append(recentRoles, title)
		}
	}
	skills := make([]string, 0, 10)
	for _, skill := range profile.Skills {
		if len(skills) == 10 {
			break
		}
		if name := strings.TrimSpace(skill.Name); name != "" {
			skills = append(skills, name)
		}
	}

	result := SearchSuggestions{ProfileLocation: profile.Location}
	suggestions, err := service.suggester.SuggestSearchQueries(ctx, userID, profile, recentRoles, skills)
	if err == nil && len(suggestions) > 0 {
		result.Suggestions = suggestions
		return result, nil
	}
	if err != nil && !errors.Is(err, ErrAIKeyMissing) {
		log.Printf("job search suggestions for user %d: falling back to profile data: %v", userID, err)
	}

	result.Suggestions = make([]SearchSuggestion, 0, maxSuggestionFallbackRoles)
	for _, role := range recentRoles {
		result.Suggestions = append(result.Suggestions, SearchSuggestion{Query: role, Location: profile.Location})
	}
	if len(result.Suggestions) == 0 && len(skills) > 0 {
		top := skills
		if len(top) > 2 {
			top = top[:2]
		}
		result.Suggestions = append(result.Suggestions, SearchSuggestion{Query: strings.Join(top, " "), Location: profile.Location})
	}
	return result, nil
}
