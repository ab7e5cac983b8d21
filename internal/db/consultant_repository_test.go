package db

import (
	"testing"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/datatypes"
)

func TestSearchAndCalendarNeverReturnForeignRows(t *testing.T) {
	_, repos := openRepositoriesForTest(t)
	owner := createUserForRepositoryTest(t, repos, "owner@example.com")
	other := createUserForRepositoryTest(t, repos, "other@example.com")

	mine := createApplicationForRepositoryTest(t, repos, owner.ID, "Acme", models.StatusDraft)
	createApplicationForRepositoryTest(t, repos, other.ID, "Acme", models.StatusDraft)
	createApplicationForRepositoryTest(t, repos, other.ID, "Globex", models.StatusSent)

	// "Engineer" matches the role column of every row above.
	for _, search := range []string{"Acme", "Engineer", "Globex"} {
		applications, total, err := repos.Applications.List(owner.ID, models.ApplicationQuery{
			Search:     search,
			SortBy:     "applied_date",
			Descending: true,
			Page:       1,
			PerPage:    20,
		})
		if err != nil {
			t.Fatalf("search %q: %v", search, err)
		}
		for _, application := range applications {
			if application.UserID != owner.ID {
				t.Fatalf("search %q leaked application %d of user %d", search, application.ID, application.UserID)
			}
		}
		want := int64(1)
		if search == "Globex" {
			want = 0
		}
		if total != want || int64(len(applications)) != want {
			t.Fatalf("search %q: expected %d owned rows, got total=%d rows=%d", search, want, total, len(applications))
		}
	}

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	calendar, err := repos.Applications.ListForCalendar(owner.ID, from, from.AddDate(0, 1, 0), "")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(calendar) != 1 || calendar[0].ID != mine.ID {
		t.Fatalf("expected only the owner's application in the calendar, got %+v", calendar)
	}
}

func TestConsultantSessionsAreScopedToOwner(t *testing.T) {
	database, repos := openRepositoriesForTest(t)
	owner := createUserForRepositoryTest(t, repos, "owner@example.com")
	intruder := createUserForRepositoryTest(t, repos, "intruder@example.com")
	application := createApplicationForRepositoryTest(t, repos, owner.ID, "Acme", models.StatusSent)

	session := models.ConsultantSession{UserID: owner.ID, ApplicationID: &application.ID, Title: "Salary talk", Topic: "negotiation"}
	if err := repos.Consultant.Create(&session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	now := time.Now().UTC()
	exchange := []models.ConsultantMessage{
		{Role: models.ChatRoleUser, Content: "How much should I ask?", CreatedAt: now},
		{Role: models.ChatRoleAssistant, Content: "Start from the top of the range.", CreatedAt: now},
	}
	if found, err := repos.Consultant.AppendExchange(owner.ID, session.ID, exchange, now); err != nil || !found {
		t.Fatalf("append exchange: found=%v err=%v", found, err)
	}

	if _, found, err := repos.Consultant.FindByIDForUser(intruder.ID, session.ID); err != nil || found {
		t.Fatalf("expected session hidden from intruder, found=%v err=%v", found, err)
	}
	if found, err := repos.Consultant.AppendExchange(intruder.ID, session.ID, []models.ConsultantMessage{{Role: models.ChatRoleUser, Content: "hi"}}, now); err != nil || found {
		t.Fatalf("expected intruder append to miss, found=%v err=%v", found, err)
	}
	if updated, err := repos.Consultant.UpdateFields(intruder.ID, session.ID, map[string]any{"title": "mine now"}, now); err != nil || updated {
		t.Fatalf("expected intruder update to miss, updated=%v err=%v", updated, err)
	}
	if deleted, err := repos.Consultant.DeleteForUser(intruder.ID, session.ID); err != nil || deleted {
		t.Fatalf("expected intruder delete to miss, deleted=%v err=%v", deleted, err)
	}
	foreignList, err := repos.Consultant.ListByUser(intruder.ID, nil)
	if err != nil || len(foreignList) != 0 {
		t.Fatalf("expected empty list for intruder, got %d err=%v", len(foreignList), err)
	}

	loaded, found, err := repos.Consultant.FindByIDForUser(owner.ID, session.ID)
	if err != nil || !found {
		t.Fatalf("load session: found=%v err=%v", found, err)
	}
	if len(loaded.Messages) != 2 || loaded.Messages[0].Role != models.ChatRoleUser || loaded.Title != "Salary talk" {
		t.Fatalf("unexpected session %+v", loaded)
	}
	listed, err := repos.Consultant.ListByUser(owner.ID, &application.ID)
	if err != nil || len(listed) != 1 || listed[0].MessageCount != 2 {
		t.Fatalf("expected one linked session with 2 messages, got %+v err=%v", listed, err)
	}

	if _, found, err := repos.Applications.DeleteForUser(owner.ID, application.ID); err != nil || !found {
		t.Fatalf("delete application: found=%v err=%v", found, err)
	}
	unlinked, _, _ := repos.Consultant.FindByIDForUser(owner.ID, session.ID)
	if unlinked.ApplicationID != nil {
		t.Fatalf("expected session unlinked from the deleted application, got %v", *unlinked.ApplicationID)
	}

	if deleted, err := repos.Consultant.DeleteForUser(owner.ID, session.ID); err != nil || !deleted {
		t.Fatalf("delete session: deleted=%v err=%v", deleted, err)
	}
	if remaining := countRows(t, database, "consultant_messages", "session_id = ?", session.ID); remaining != 0 {
		t.Fatalf("expected consultant messages removed, %d remain", remaining)
	}
}

func TestInsightSaveReplacesCachedRow(t *testing.T) {
	database, repos := openRepositoriesForTest(t)
	owner := createUserForRepositoryTest(t, repos, "owner@example.com")

	if _, found, err := repos.Insights.FindByUser(owner.ID); err != nil || found {
		t.Fatalf("expected no cached insight, found=%v err=%v", found, err)
	}

	first := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	if err := repos.Insights.Save(&models.UserAIInsight{UserID: owner.ID, InsightData: datatypes.JSON(`{"summary":"old"}`), LastUpdated: first}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := first.Add(24 * time.Hour)
	if err := repos.Insights.Save(&models.UserAIInsight{UserID: owner.ID, InsightData: datatypes.JSON(`{"summary":"new"}`), LastUpdated: second}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if rows := countRows(t, database, "user_ai_insights", "user_id = ?", owner.ID); rows != 1 {
		t.Fatalf("expected a single cached row, got %d", rows)
	}
	insight, found, err := repos.Insights.FindByUser(owner.ID)
	if err != nil || !found {
		t.Fatalf("reload insight: found=%v err=%v", found, err)
	}
	if string(insight.InsightData) != `{"summary":"new"}` || !insight.LastUpdated.Equal(second) {
		t.Fatalf("expected the second insight, got %s at %s", insight.InsightData, insight.LastUpdated)
	}
}
