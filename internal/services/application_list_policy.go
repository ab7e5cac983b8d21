package services

import (
	"strconv"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/models"
)

const (
	defaultApplicationSort = "applied_date"
	defaultPerPage         = 20
	maxPerPage             = 100
)

var sortableApplicationColumns = map[string]struct{}{
	"applied_date": {},
	"created_at":   {},
	"updated_at":   {},
	"company":      {},
	"role":         {},
	"status":       {},
	"deadline":     {},
	"match_score":  {},
}

type ApplicationListParams struct {
	Status  string
	Search  string
	SortBy  string
	Order   string
	Page    string
	PerPage string
}

// NormalizeApplicationQuery turns raw query parameters into a safe query. An
// unknown sort column falls back to applied_date; page values are clamped.
func NormalizeApplicationQuery(params ApplicationListParams) (models.ApplicationQuery, error) {
	query := models.ApplicationQuery{
		Search:     strings.TrimSpace(params.Search),
		SortBy:     defaultApplicationSort,
		Descending: !strings.EqualFold(strings.TrimSpace(params.Order), "asc"),
		Page:       parsePositiveInt(params.Page, 1),
		PerPage:    parsePositiveInt(params.PerPage, defaultPerPage),
	}

	if status := strings.TrimSpace(params.Status); status != "" {
		if err := ValidateStatus(status); err != nil {
			return models.ApplicationQuery{}, err
		}
		query.Status = status
	}

	sortBy := strings.ToLower(strings.TrimSpace(params.SortBy))
	if _, ok := sortableApplicationColumns[sortBy]; ok {
		query.SortBy = sortBy
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}
	return query, nil
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func pageCount(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
