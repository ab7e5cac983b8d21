package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

// Every valid status may move to every other valid status. Hiring pipelines
// are not linear: an interview can fall back to sent, a draft can be rejected
// outright. Only membership in the status set is enforced.

type StatusEffect string

const (
	// EffectStampResponseDate sets response_date to today when it is still empty.
	EffectStampResponseDate StatusEffect = "stamp_response_date"
)

// StatusTransitionEffects lists the side effects of moving from oldStatus to
// newStatus. Leaving sent is the only transition that carries one.
func StatusTransitionEffects(oldStatus string, newStatus string) []StatusEffect {
	if oldStatus == models.StatusSent && newStatus != models.StatusSent {
		return []StatusEffect{EffectStampResponseDate}
	}
	return nil
}

func ValidateStatus(status string) error {
	if models.IsValidStatus(status) {
		return nil
	}
	return fmt.Errorf("%w: must be one of %s", ErrInvalidStatus, strings.Join(models.ApplicationStatuses(), ", "))
}

// applyStatusTransition mutates application in place and returns the history
// entry describing the transition.
func applyStatusTransition(application *models.Application, newStatus string, note string, now time.Time) models.StatusHistory {
	oldStatus := application.Status

	for _, effect := range StatusTransitionEffects(oldStatus, newStatus) {
		switch effect {
		case EffectStampResponseDate:
			if application.ResponseDate == nil {
				today := dateOnly(now)
				application.ResponseDate = &today
			}
		}
	}

	application.Status = newStatus
	application.UpdatedAt = now

	return models.StatusHistory{
		FromStatus: &oldStatus,
		ToStatus:   newStatus,
		ChangedAt:  now,
		Note:       strings.TrimSpace(note),
	}
}

func dateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
