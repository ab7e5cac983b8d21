package models

import "time"

// ApplicationQuery is the normalised list request for a user's applications.
// SortBy must already be one of the sortable columns.
type ApplicationQuery struct {
	Status     string
	Search     string
	SortBy     string
	Descending bool
	Page       int
	PerPage    int
}

type ApplicationPage struct {
	Applications []Application `json:"applications"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Pages        int           `json:"pages"`
}

// StatusChange is a history row joined with the application it belongs to.
type StatusChange struct {
	ID            uint      `json:"id"`
	ApplicationID uint      `json:"application_id"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	FromStatus    *string   `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedAt     time.Time `json:"changed_at"`
	Note          string    `json:"note"`
}
