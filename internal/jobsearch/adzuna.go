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

const DefaultAdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

type Adzuna struct {
	appID   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAdzuna(appID string, apiKey string, baseURL string) *Adzuna {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultAdzunaBaseURL
	}
	return &Adzuna{
		appID:   appID,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (adzuna *Adzuna) Name() string {
	return "adzuna"
}

type adzunaResponse struct {
	Count   int `json:"count"`
	Results []struct {
		ID          json.RawMessage `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		RedirectURL string          `json:"redirect_url"`
		Created     string          `json:"created"`
		SalaryMin   *float64        `json:"salary_min"`
		SalaryMax   *float64        `json:"salary_max"`
		Contract    string          `json:"contract_type"`
		Company     struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
	} `json:"results"`
}

// Search queries one country; Adzuna has no cross-country endpoint.
func (adzuna *Adzuna) Search(ctx context.Context, query Query) ([]Posting, error) {
	query = normalizeQuery(query)
	country := strings.ToLower(strings.TrimSpace(query.Country))
	if country == "" {
		country = "it"
	}

	params := url.Values{}
	params.Set("app_id", adzuna.appID)
	params.Set("app_key", adzuna.apiKey)
	params.Set("what", query.Text)
	params.Set("results_per_page", strconv.Itoa(query.PerPage))
	params.Set("content-type", "application/json")
	if location := strings.TrimSpace(query.Location); location != "" {
		params.Set("where", location)
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d?%s", adzuna.baseURL, url.PathEscape(country), query.Page, params.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	body, err := getJSON(adzuna.client, request, adzuna.Name())
	if err != nil {
		return nil, err
	}

	var decoded adzunaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	postings := make([]Posting, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		postings = append(postings, Posting{
			ExternalID:   strings.Trim(string(result.ID), `"`),
			Title:        result.Title,
			Company:      result.Company.DisplayName,
			Location:     result.Location.DisplayName,
			SalaryMin:    result.SalaryMin,
			SalaryMax:    result.SalaryMax,
			URL:          result.RedirectURL,
			Description:  result.Description,
			PostedAt:     result.Created,
			ContractType: result.Contract,
			Source:       adzuna.Name() + ":" + country,
		})
	}
	return postings, nil
}
