package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

type stubDashboardRepository struct {
	applications []models.Application
	history      []models.StatusHistory
}

func (stub *stubDashboardRepository) ListByUser(uint) ([]models.Application, error) {
	return append([]models.Application(nil), stub.applications...), nil
}

func (stub *stubDashboardRepository) ListRecent(_ uint, limit int) ([]models.Application, error) {
	if len(stub.applications) < limit {
		limit = len(stub.applications)
	}
	return stub.applications[:limit], nil
}

func (stub *stubDashboardRepository) RecentStatusChanges(uint, int) ([]models.StatusChange, error) {
	return []models.StatusChange{}, nil
}

func (stub *stubDashboardRepository) CountDistinctReached(_ uint, status string) (int64, error) {
	seen := map[uint]struct{}{}
	for _, entry := range stub.history {
		if entry.ToStatus == status {
			seen[entry.ApplicationID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (stub *stubDashboardRepository) TransitionsInto(_ uint, status string) ([]models.StatusHistory, error) {
	result := make([]models.StatusHistory, 0)
	for _, entry := range stub.history {
		if entry.ToStatus == status {
			result = append(result, entry)
		}
	}
	return result, nil
}

// 2026-06-10 is a Wednesday.
var dashboardNow = time.Date(2026, time.June, 10, 15, 0, 0, 0, time.UTC)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func timePointer(value time.Time) *time.Time {
	return &value
}

func floatPointer(value float64) *float64 {
	return &value
}

func newDashboardServiceForTest(repo *stubDashboardRepository) *DashboardService {
	service := NewDashboardService(repo)
	service.now = func() time.Time { return dashboardNow }
	return service
}

func TestDashboardStats(t *testing.T) {
	repo := &stubDashboardRepository{applications: []models.Application{
		{ID: 1, Status: models.StatusDraft, AppliedDate: day(2026, time.June, 9)},
		{ID: 2, Status: models.StatusSent, AppliedDate: day(2026, time.June, 2), MatchScore: floatPointer(7)},
		{ID: 3, Status: models.StatusInterview, AppliedDate: day(2026, time.May, 20), ResponseDate: timePointer(day(2026, time.May, 25)), MatchScore: floatPointer(8.5)},
		{ID: 4, Status: models.StatusRejected, AppliedDate: day(2026, time.May, 1), ResponseDate: timePointer(day(2026, time.May, 11))},
	}}
	stats, err := newDashboardServiceForTest(repo).Stats(1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalApplications != 4 || stats.ByStatus[models.StatusDraft] != 1 || stats.ByStatus[models.StatusRejected] != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.ResponseRate != 50 {
		t.Fatalf("expected response rate 50, got %v", stats.ResponseRate)
	}
	if stats.AvgResponseDays != 7.5 {
		t.Fatalf("expected avg response days 7.5, got %v", stats.AvgResponseDays)
	}
	if stats.ThisWeek != 1 || stats.ThisMonth != 2 {
		t.Fatalf("expected this_week=1 this_month=2, got %d/%d", stats.ThisWeek, stats.ThisMonth)
	}
	if stats.AvgMatchScore == nil || *stats.AvgMatchScore != 7.8 {
		t.Fatalf("expected avg match score 7.8, got %v", stats.AvgMatchScore)
	}
}

func TestDashboardStatsEmpty(t *testing.T) {
	stats, err := newDashboardServiceForTest(&stubDashboardRepository{}).Stats(1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ResponseRate != 0 || stats.AvgMatchScore != nil || len(stats.ByStatus) != 4 {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestDashboardTimelineBuckets(t *testing.T) {
	repo := &stubDashboardRepository{applications: []models.Application{
		{ID: 1, Company: "Acme", Status: models.StatusSent, AppliedDate: day(2026, time.June, 8)},
		{ID: 2, Company: "Globex", Status: models.StatusDraft, AppliedDate: day(2026, time.June, 10)},
		{ID: 3, Company: "Initech", Status: models.StatusDraft, AppliedDate: day(2025, time.July, 31)},
	}}
	service := newDashboardServiceForTest(repo)

	weekly, err := service.Timeline(1, "weekly")
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(weekly) != 7 || weekly[0].Date != "Mon" || weekly[0].FullDate != "2026-06-08" || weekly[0].Count != 1 {
		t.Fatalf("unexpected weekly head %+v", weekly[0])
	}
	if weekly[1].Count != 0 || weekly[1].Applications == nil {
		t.Fatalf("expected zero-filled bucket with empty list, got %+v", weekly[1])
	}
	if weekly[2].Applications[0].Company != "Globex" {
		t.Fatalf("expected Wednesday bucket to hold Globex, got %+v", weekly[2])
	}

	daily, err := service.Timeline(1, "daily")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	last := daily[len(daily)-1]
	if len(daily) != 30 || last.FullDate != "2026-06-10" || last.Cumulative == nil || *last.Cumulative != 2 {
		t.Fatalf("unexpected daily tail %+v", last)
	}

	monthly, err := service.Timeline(1, "")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(monthly) != 12 || monthly[0].Date != "2025-07" || monthly[11].Date != "2026-06" {
		t.Fatalf("expected 12 calendar months ending 2026-06, got %s..%s (%d)", monthly[0].Date, monthly[len(monthly)-1].Date, len(monthly))
	}
	if monthly[0].Count != 1 || monthly[11].Count != 2 {
		t.Fatalf("unexpected monthly counts first=%d last=%d", monthly[0].Count, monthly[11].Count)
	}

	if _, err := service.Timeline(1, "hourly"); !errors.Is(err, ErrTimelinePeriodInvalid) {
		t.Fatalf("expected ErrTimelinePeriodInvalid, got %v", err)
	}
}

func TestDashboardFunnelCountsInterviewFromHistory(t *testing.T) {
	repo := &stubDashboardRepository{
		applications: []models.Application{
			{ID: 1, Status: models.StatusRejected},
			{ID: 2, Status: models.StatusRejected},
			{ID: 3, Status: models.StatusInterview},
			{ID: 4, Status: models.StatusDraft},
		},
		history: []models.StatusHistory{
			{ApplicationID: 1, ToStatus: models.StatusInterview},
			{ApplicationID: 1, ToStatus: models.StatusRejected},
			{ApplicationID: 2, ToStatus: models.StatusInterview},
			{ApplicationID: 2, ToStatus: models.StatusRejected},
			{ApplicationID: 3, ToStatus: models.StatusInterview},
		},
	}
	funnel, err := newDashboardServiceForTest(repo).Funnel(1)
	if err != nil {
		t.Fatalf("funnel: %v", err)
	}

	counts := map[string]int64{}
	for _, stage := range funnel.Stages {
		counts[stage.Stage] = stage.Count
	}
	if counts[models.StatusDraft] != 4 || counts[models.StatusSent] != 3 || counts[models.StatusInterview] != 3 || counts[models.StatusRejected] != 2 {
		t.Fatalf("unexpected funnel counts %v", counts)
	}
	if funnel.ConversionRates.DraftToSent != 75 || funnel.ConversionRates.SentToInterview != 100 {
		t.Fatalf("unexpected conversion rates %+v", funnel.ConversionRates)
	}
}

func TestDashboardDeadlineAlerts(t *testing.T) {
	repo := &stubDashboardRepository{applications: []models.Application{
		{ID: 1, Status: models.StatusDraft, Deadline: timePointer(day(2026, time.June, 17))},
		{ID: 2, Status: models.StatusSent, Deadline: timePointer(day(2026, time.June, 10))},
		{ID: 3, Status: models.StatusInterview, Deadline: timePointer(day(2026, time.June, 12))},
		{ID: 4, Status: models.StatusDraft, Deadline: timePointer(day(2026, time.June, 7))},
		{ID: 5, Status: models.StatusSent, Deadline: timePointer(day(2026, time.June, 1))},
		{ID: 6, Status: models.StatusDraft, Deadline: timePointer(day(2026, time.June, 18))},
	}}
	alerts, err := newDashboardServiceForTest(repo).DeadlineAlerts(1)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}

	if len(alerts.Upcoming) != 2 || alerts.Upcoming[0].ID != 2 || alerts.Upcoming[0].DaysUntil != 0 || alerts.Upcoming[1].DaysUntil != 7 {
		t.Fatalf("unexpected upcoming %+v", alerts.Upcoming)
	}
	if len(alerts.Overdue) != 1 || alerts.Overdue[0].ID != 4 || alerts.Overdue[0].DaysOverdue != 3 {
		t.Fatalf("unexpected overdue %+v", alerts.Overdue)
	}
}

func TestDashboardFollowUpSuggestions(t *testing.T) {
	repo := &stubDashboardRepository{
		applications: []models.Application{
			{ID: 1, Status: models.StatusSent, AppliedDate: day(2026, time.June, 3)},
			{ID: 2, Status: models.StatusSent, AppliedDate: day(2026, time.June, 4)},
			{ID: 3, Status: models.StatusSent, AppliedDate: day(2026, time.May, 1), ResponseDate: timePointer(day(2026, time.May, 2))},
			{ID: 4, Status: models.StatusInterview},
			{ID: 5, Status: models.StatusInterview},
		},
		history: []models.StatusHistory{
			{ApplicationID: 4, ToStatus: models.StatusInterview, ChangedAt: dashboardNow.Add(-10 * 24 * time.Hour)},
			{ApplicationID: 4, ToStatus: models.StatusInterview, ChangedAt: dashboardNow.Add(-1 * 24 * time.Hour)},
			{ApplicationID: 5, ToStatus: models.StatusInterview, ChangedAt: dashboardNow.Add(-4 * 24 * time.Hour)},
		},
	}
	suggestions, err := newDashboardServiceForTest(repo).FollowUpSuggestions(1)
	if err != nil {
		t.Fatalf("follow-ups: %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", suggestions)
	}
	if suggestions[0].Application.ID != 1 || suggestions[0].Reason != "sent_no_response" || suggestions[0].DaysWaiting != 7 {
		t.Fatalf("unexpected sent suggestion %+v", suggestions[0])
	}
	if suggestions[1].Application.ID != 5 || suggestions[1].Reason != "interview_no_response" || suggestions[1].DaysWaiting != 4 {
		t.Fatalf("unexpected interview suggestion %+v", suggestions[1])
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	t.Parallel()

	if got := startOfWeek(day(2026, time.June, 14)); !got.Equal(day(2026, time.June, 8)) {
		t.Fatalf("expected Sunday to map to previous Monday, got %v", got)
	}
	if got := startOfWeek(day(2026, time.June, 8)); !got.Equal(day(2026, time.June, 8)) {
		t.Fatalf("expected Monday to map to itself, got %v", got)
	}
}
