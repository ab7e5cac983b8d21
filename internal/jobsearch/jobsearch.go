package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrBackendStatus = errors.New("job search backend returned an error status")

// Posting is the normalised shape every backend maps its results into.
type Posting struct {
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	SalaryMin    *float64 `json:"salary_min"`
	SalaryMax    *float64 `json:"salary_max"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	PostedAt     string   `json:"posted_at"`
	ContractType string   `json:"contract_type"`
	Source       string   `json:"source"`
}

type Query struct {
	Text     string
	Location string
	Country  string
	Page     int
	PerPage  int
}

type Backend interface {
	Name() string
	Search(ctx context.Context, query Query) ([]Posting, error)
}

const (
	defaultPerPage = 15
	requestTimeout = 15 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

func normalizeQuery(query Query) Query {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = defaultPerPage
	}
	return query
}

func getJSON(client *http.Client, request *http.Request, backend string) ([]byte, error) {
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", backend, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", backend, err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s %d", ErrBackendStatus, backend, response.StatusCode)
	}
	return body, nil
}

// Factory builds backends for per-user credentials. Empty base URLs select
// the public endpoints.
type Factory struct {
	AdzunaBaseURL  string
	JSearchBaseURL string
}

func (factory Factory) Adzuna(appID string, apiKey string) Backend {
	return NewAdzuna(appID, apiKey, factory.AdzunaBaseURL)
}

func (factory Factory) JSearch(apiKey string) Backend {
	return NewJSearch(apiKey, factory.JSearchBaseURL)
}
