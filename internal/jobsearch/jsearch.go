package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultJSearchBaseURL = "https://jsearch.p.rapidapi.com"
	jsearchHost           = "jsearch.p.rapidapi.com"
)

type JSearch struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewJSearch(apiKey string, baseURL string) *JSearch {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultJSearchBaseURL
	}
	return &JSearch{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), client: newHTTPClient()}
}

func (jsearch *JSearch) Name() string {
	return "jsearch"
}

type jsearchResponse struct {
	Data []struct {
		JobID          string   `json:"job_id"`
		Title          string   `json:"job_title"`
		EmployerName   string   `json:"employer_name"`
		City           string   `json:"job_city"`
		State          string   `json:"job_state"`
		Country        string   `json:"job_country"`
		MinSalary      *float64 `json:"job_min_salary"`
		MaxSalary      *float64 `json:"job_max_salary"`
		ApplyLink      string   `json:"job_apply_link"`
		Description    string   `json:"job_description"`
		PostedAt       string   `json:"job_posted_at_datetime_utc"`
		EmploymentType string   `json:"job_employment_type"`
		ApplyOptions   []struct {
			ApplyLink string `json:"apply_link"`
		} `json:"apply_options"`
	} `json:"data"`
}

// Search ignores Query.Country; JSearch folds the location into the query text.
func (jsearch *JSearch) Search(ctx context.Context, query Query) ([]Posting, error) {
	query = normalizeQuery(query)
	text := query.Text
	if location := strings.TrimSpace(query.Location); location != "" {
		text = fmt.Sprintf("%s in %s", text, location)
	}

	params := url.Values{}
	params.Set("query", text)
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("num_pages", "1")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, jsearch.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("X-RapidAPI-Key", jsearch.apiKey)
	request.Header.Set("X-RapidAPI-Host", jsearchHost)

	body, err := getJSON(jsearch.client, request, jsearch.Name())
	if err != nil {
		return nil, err
	}

	var decoded jsearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("jsearch decode: %w", err)
	}

	postings := make([]Posting, 0, len(decoded.Data))
	for _, result := range decoded.Data {
		link := result.ApplyLink
		if link == "" && len(result.ApplyOptions) > 0 {
			link = result.ApplyOptions[0].ApplyLink
		}

		parts := make([]string, 0, 3)
		for _, part := range []string{result.City, result.State, result.Country} {
			if strings.TrimSpace(part) != "" {
				parts = append(parts, part)
			}
		}

		postings = append(postings, Posting{
			ExternalID:   result.JobID,
			Title:        result.Title,
			Company:      result.EmployerName,
			Location:     strings.Join(parts, ", "),
			SalaryMin:    result.MinSalary,
			SalaryMax:    result.MaxSalary,
			URL:          link,
			Description:  result.Description,
			PostedAt:     result.PostedAt,
			ContractType: result.EmploymentType,
			Source:       jsearch.Name(),
		})
	}
	return postings, nil
}
