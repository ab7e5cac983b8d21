package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

var ErrTimelinePeriodInvalid = errors.New("invalid timeline period")

const (
	TimelineWeekly  = "weekly"
	TimelineDaily   = "daily"
	TimelineMonthly = "monthly"

	recentLimit                = 5
	deadlineHorizonDays        = 7
	sentFollowUpAfterDays      = 7
	interviewFollowUpAfterDays = 3
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DashboardRepository interface {
	ListByUser(userID uint) ([]models.Application, error)
	ListRecent(userID uint, limit int) ([]models.Application, error)
	RecentStatusChanges(userID uint, limit int) ([]models.StatusChange, error)
	CountDistinctReached(userID uint, status string) (int64, error)
	TransitionsInto(userID uint, status string) ([]models.StatusHistory, error)
}

type DashboardStats struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"by_status"`
	ResponseRate      float64        `json:"response_rate"`
	AvgResponseDays   float64        `json:"avg_response_days"`
	ThisWeek          int            `json:"this_week"`
	ThisMonth         int            `json:"this_month"`
	AvgMatchScore     *float64       `json:"avg_match_score"`
}

type TimelineBucket struct {
	Date         string                      `json:"date"`
	FullDate     string                      `json:"full_date"`
	Count        int                         `json:"count"`
	Cumulative   *int                        `json:"cumulative,omitempty"`
	Applications []models.ApplicationSummary `json:"applications"`
}

type RecentActivity struct {
	RecentApplications  []models.Application  `json:"recent_applications"`
	RecentStatusChanges []models.StatusChange `json:"recent_status_changes"`
}

type UpcomingDeadline struct {
	models.Application
	DaysUntil int `json:"days_until"`
}

type OverdueDeadline struct {
	models.Application
	DaysOverdue int `json:"days_overdue"`
}

type DeadlineAlerts struct {
	Upcoming []UpcomingDeadline `json:"upcoming"`
	Overdue  []OverdueDeadline  `json:"overdue"`
}

type FunnelStage struct {
	Stage    string `json:"stage"`
	Count    int64  `json:"count"`
	LabelKey string `json:"label_key"`
}

type FunnelConversionRates struct {
	DraftToSent     float64 `json:"draft_to_sent"`
	SentToInterview float64 `json:"sent_to_interview"`
}

type Funnel struct {
	Stages          []FunnelStage         `json:"funnel"`
	ConversionRates FunnelConversionRates `json:"conversion_rates"`
}

type FollowUpSuggestion struct {
	Application models.Application `json:"application"`
	Reason      string             `json:"reason"`
	DaysWaiting int                `json:"days_waiting"`
	Context     string             `json:"context"`
}

// DashboardService computes every view from the store on each call.
type DashboardService struct {
	applications DashboardRepository
	now          func() time.Time
}

func NewDashboardService(applications DashboardRepository) *DashboardService {
	return &DashboardService{applications: applications, now: time.Now}
}

func (service *DashboardService) Stats(userID uint) (DashboardStats, error) {
	applications, err := service.applications.ListByUser(userID)
	if err != nil {
		return DashboardStats{}, err
	}

	today := dateOnly(service.now())
	weekStart := startOfWeek(today)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := DashboardStats{
		TotalApplications: len(applications),
		ByStatus:          make(map[string]int, 4),
	}
	for _, status := range models.ApplicationStatuses() {
		stats.ByStatus[status] = 0
	}

	responded := 0
	responseDays := 0
	responseSamples := 0
	scoreSum := 0.0
	scoreSamples := 0
	for _, application := range applications {
		stats.ByStatus[application.Status]++
		if application.Status != models.StatusDraft && application.Status != models.StatusSent {
			responded++
		}
		if application.ResponseDate != nil && !application.AppliedDate.IsZero() {
			responseDays += daysBetween(application.AppliedDate, *application.ResponseDate)
			responseSamples++
		}
		if !application.AppliedDate.Before(weekStart) {
			stats.ThisWeek++
		}
		if !application.AppliedDate.Before(monthStart) {
			stats.ThisMonth++
		}
		if application.MatchScore != nil {
			scoreSum += *application.MatchScore
			scoreSamples++
		}
	}

	stats.ResponseRate = percentage(int64(responded), int64(len(applications)))
	if responseSamples > 0 {
		stats.AvgResponseDays = roundOneDecimal(float64(responseDays) / float64(responseSamples))
	}
	if scoreSamples > 0 {
		average := roundOneDecimal(scoreSum / float64(scoreSamples))
		stats.AvgMatchScore = &average
	}
	return stats, nil
}

// Timeline buckets applications by applied date. Every bucket in the window
// is present, empty ones with a zero count.
func (service *DashboardService) Timeline(userID uint, period string) ([]TimelineBucket, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = TimelineMonthly
	}
	if period != TimelineWeekly && period != TimelineDaily && period != TimelineMonthly {
		return nil, fmt.Errorf("%w: use weekly, daily or monthly", ErrTimelinePeriodInvalid)
	}

	applications, err := service.applications.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(applications, func(i, j int) bool {
		return applications[i].AppliedDate.Before(applications[j].AppliedDate)
	})

	today := dateOnly(service.now())
	switch period {
	case TimelineWeekly:
		return dailyBuckets(applications, startOfWeek(today), 7, false, func(day time.Time, index int) string {
			return weekdayLabels[index]
		}), nil
	case TimelineDaily:
		return dailyBuckets(applications, today.AddDate(0, 0, -29), 30, true, func(day time.Time, _ int) string {
			return day.Format("Jan 02")
		}), nil
	default:
		return monthlyBuckets(applications, today, 12), nil
	}
}

func dailyBuckets(applications []models.Application, start time.Time, days int, cumulative bool, label func(time.Time, int) string) []TimelineBucket {
	byDay := make(map[string][]models.ApplicationSummary)
	for _, application := range applications {
		key := application.AppliedDate.Format(isoDateLayout)
		byDay[key] = append(byDay[key], application.Summary())
	}

	buckets := make([]TimelineBucket, 0, days)
	running := 0
	for index := 0; index < days; index++ {
		day := start.AddDate(0, 0, index)
		key := day.Format(isoDateLayout)
		summaries := byDay[key]
		if summaries == nil {
			summaries = []models.ApplicationSummary{}
		}

		bucket := TimelineBucket{
			Date:         label(day, index),
			FullDate:     key,
			Count:        len(summaries),
			Applications: summaries,
		}
		if cumulative {
			running += len(summaries)
			total := running
			bucket.Cumulative = &total
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// monthlyBuckets walks real calendar months backwards from the current one.
func monthlyBuckets(applications []models.Application, today time.Time, months int) []TimelineBucket {
	byMonth := make(map[string][]models.ApplicationSummary)
	for _, application := range applications {
		key := application.AppliedDate.Format("2006-01")
		byMonth[key] = append(byMonth[key], application.Summary())
	}

	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]TimelineBucket, 0, months)
	for offset := months - 1; offset >= 0; offset-- {
		month := currentMonth.AddDate(0, -offset, 0)
		key := month.Format("2006-01")
		summaries := byMonth[key]
		if summaries == nil {
			summaries = []models.ApplicationSummary{}
		}
		buckets = append(buckets, TimelineBucket{
			Date:         key,
			FullDate:     month.Format(isoDateLayout),
			Count:        len(summaries),
			Applications: summaries,
		})
	}
	return buckets
}

func (service *DashboardService) Recent(userID uint) (RecentActivity, error) {
	applications, err := service.applications.ListRecent(userID, recentLimit)
	if err != nil {
		return RecentActivity{}, err
	}
	changes, err := service.applications.RecentStatusChanges(userID, recentLimit)
	if err != nil {
		return RecentActivity{}, err
	}
	return RecentActivity{RecentApplications: applications, RecentStatusChanges: changes}, nil
}

func (service *DashboardService) DeadlineAlerts(userID uint) (DeadlineAlerts, error) {
	applications, err := service.applications.ListByUser(userID)
	if err != nil {
		return DeadlineAlerts{}, err
	}

	today := dateOnly(service.now())
	alerts := DeadlineAlerts{Upcoming: []UpcomingDeadline{}, Overdue: []OverdueDeadline{}}
	for _, application := range applications {
		if application.Deadline == nil {
			continue
		}
		days := daysBetween(today, *application.Deadline)
		switch {
		case days >= 0 && days <= deadlineHorizonDays &&
			(application.Status == models.StatusDraft || application.Status == models.StatusSent):
			alerts.Upcoming = append(alerts.Upcoming, UpcomingDeadline{Application: application, DaysUntil: days})
		case days < 0 && application.Status == models.StatusDraft:
			alerts.Overdue = append(alerts.Overdue, OverdueDeadline{Application: application, DaysOverdue: -days})
		}
	}

	sort.SliceStable(alerts.Upcoming, func(i, j int) bool {
		return alerts.Upcoming[i].Deadline.Before(*alerts.Upcoming[j].Deadline)
	})
	sort.SliceStable(alerts.Overdue, func(i, j int) bool {
		return alerts.Overdue[i].Deadline.Before(*alerts.Overdue[j].Deadline)
	})
	return alerts, nil
}

// Funnel counts the interview stage from the audit trail, so applications that
// reached interview and moved on are still counted.
func (service *DashboardService) Funnel(userID uint) (Funnel, error) {
	applications, err := service.applications.ListByUser(userID)
	if err != nil {
		return Funnel{}, err
	}
	interviewed, err := service.applications.CountDistinctReached(userID, models.StatusInterview)
	if err != nil {
		return Funnel{}, err
	}

	var sent, rejected int64
	for _, application := range applications {
		switch application.Status {
		case models.StatusSent, models.StatusInterview:
			sent++
		case models.StatusRejected:
			sent++
			rejected++
		}
	}
	total := int64(len(applications))

	return Funnel{
		Stages: []FunnelStage{
			{Stage: models.StatusDraft, Count: total, LabelKey: "statuses.draft"},
			{Stage: models.StatusSent, Count: sent, LabelKey: "statuses.sent"},
			{Stage: models.StatusInterview, Count: interviewed, LabelKey: "statuses.interview"},
			{Stage: models.StatusRejected, Count: rejected, LabelKey: "statuses.rejected"},
		},
		ConversionRates: FunnelConversionRates{
			DraftToSent:     percentage(sent, total),
			SentToInterview: percentage(interviewed, sent),
		},
	}, nil
}

func (service *DashboardService) FollowUpSuggestions(userID uint) ([]FollowUpSuggestion, error) {
	applications, err := service.applications.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	transitions, err := service.applications.TransitionsInto(userID, models.StatusInterview)
	if err != nil {
		return nil, err
	}

	latestInterview := make(map[uint]time.Time, len(transitions))
	for _, entry := range transitions {
		if current, ok := latestInterview[entry.ApplicationID]; !ok || entry.ChangedAt.After(current) {
			latestInterview[entry.ApplicationID] = entry.ChangedAt
		}
	}

	now := service.now()
	today := dateOnly(now)
	suggestions := make([]FollowUpSuggestion, 0)
	for _, application := range applications {
		switch application.Status {
		case models.StatusSent:
			if application.ResponseDate != nil {
				continue
			}
			waiting := daysBetween(application.AppliedDate, today)
			if waiting >= sentFollowUpAfterDays {
				suggestions = append(suggestions, FollowUpSuggestion{
					Application: application,
					Reason:      "sent_no_response",
					DaysWaiting: waiting,
					Context:     fmt.Sprintf("%d days since application was sent, no response received", waiting),
				})
			}
		case models.StatusInterview:
			changedAt, ok := latestInterview[application.ID]
			if !ok {
				continue
			}
			waiting := int(now.UTC().Sub(changedAt.UTC()).Hours() / 24)
			if waiting >= interviewFollowUpAfterDays {
				suggestions = append(suggestions, FollowUpSuggestion{
					Application: application,
					Reason:      "interview_no_response",
					DaysWaiting: waiting,
					Context:     fmt.Sprintf("%d days since interview stage, no follow-up sent", waiting),
				})
			}
		}
	}
	return suggestions, nil
}

func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// daysBetween counts calendar days from one UTC-midnight date to another.
func daysBetween(from time.Time, to time.Time) int {
	return int(math.Round(dateOnly(to).Sub(dateOnly(from)).Hours() / 24))
}

func percentage(part int64, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return roundOneDecimal(float64(part) / float64(whole) * 100)
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
