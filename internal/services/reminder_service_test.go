package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

type stubReminderRepository struct {
	reminders map[uint]models.Reminder
	owners    stubOwnership
	nextID    uint
	dueAt     time.Time
}

func (stub *stubReminderRepository) Create(reminder *models.Reminder) error {
	stub.nextID++
	reminder.ID = stub.nextID
	stub.reminders[reminder.ID] = *reminder
	return nil
}

func (stub *stubReminderRepository) ListByUser(userID uint, includeDismissed bool) ([]models.Reminder, error) {
	result := make([]models.Reminder, 0)
	for _, reminder := range stub.reminders {
		if stub.owners[reminder.ApplicationID] == userID && (includeDismissed || !reminder.IsDismissed) {
			result = append(result, reminder)
		}
	}
	return result, nil
}

func (stub *stubReminderRepository) ListDue(userID uint, now time.Time) ([]models.Reminder, error) {
	stub.dueAt = now
	return stub.ListByUser(userID, false)
}

func (stub *stubReminderRepository) Dismiss(userID uint, reminderID uint) (models.Reminder, bool, error) {
	reminder, ok := stub.reminders[reminderID]
	if !ok || stub.owners[reminder.ApplicationID] != userID {
		return models.Reminder{}, false, nil
	}
	reminder.IsDismissed = true
	stub.reminders[reminderID] = reminder
	return reminder, true, nil
}

func (stub *stubReminderRepository) DeleteForUser(userID uint, reminderID uint) (bool, error) {
	reminder, ok := stub.reminders[reminderID]
	if !ok || stub.owners[reminder.ApplicationID] != userID {
		return false, nil
	}
	delete(stub.reminders, reminderID)
	return true, nil
}

func newReminderServiceForTest() (*ReminderService, *stubReminderRepository) {
	owners := stubOwnership{10: 1}
	repo := &stubReminderRepository{reminders: map[uint]models.Reminder{}, owners: owners}
	return NewReminderService(repo, owners), repo
}

func TestReminderCreateValidatesInput(t *testing.T) {
	service, _ := newReminderServiceForTest()

	if _, err := service.Create(1, 99, "2026-06-01T10:00", "call"); !errors.Is(err, ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if _, err := service.Create(1, 10, "", "call"); !errors.Is(err, ErrReminderInvalid) {
		t.Fatalf("expected missing remind_at rejected, got %v", err)
	}
	if _, err := service.Create(1, 10, "tomorrow", "call"); !errors.Is(err, ErrReminderInvalid) {
		t.Fatalf("expected malformed remind_at rejected, got %v", err)
	}
	if _, err := service.Create(1, 10, "2026-06-01", strings.Repeat("x", 501)); !errors.Is(err, ErrReminderInvalid) {
		t.Fatalf("expected long message rejected, got %v", err)
	}
}

func TestReminderDismissTwiceStaysDismissed(t *testing.T) {
	service, _ := newReminderServiceForTest()

	reminder, err := service.Create(1, 10, "2026-06-01T10:00:00Z", "send thank-you note")
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	for attempt := 0; attempt < 2; attempt++ {
		dismissed, err := service.Dismiss(1, reminder.ID)
		if err != nil {
			t.Fatalf("dismiss attempt %d: %v", attempt, err)
		}
		if !dismissed.IsDismissed {
			t.Fatalf("dismiss attempt %d: expected dismissed", attempt)
		}
	}

	if _, err := service.Dismiss(2, reminder.ID); !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("expected other user to get ErrReminderNotFound, got %v", err)
	}
	if err := service.Delete(2, reminder.ID); !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("expected other user delete to miss, got %v", err)
	}
}

func TestReminderUpcomingUsesCurrentTime(t *testing.T) {
	service, repo := newReminderServiceForTest()
	fixed := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	if _, err := service.Upcoming(1); err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if !repo.dueAt.Equal(fixed) {
		t.Fatalf("expected due cutoff %v, got %v", fixed, repo.dueAt)
	}
}

func TestParseDateTimeLayouts(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"2026-06-01T10:00:00Z", "2026-06-01T10:00:00+02:00", "2026-06-01T10:00", "2026-06-01 10:00:00", "2026-06-01"} {
		if _, err := ParseDateTime(value); err != nil {
			t.Fatalf("expected %q to parse, got %v", value, err)
		}
	}
	parsed, err := ParseDateTime("2026-06-01T10:00:00+02:00")
	if err != nil || parsed.Hour() != 8 || parsed.Location() != time.UTC {
		t.Fatalf("expected UTC conversion, got %v err=%v", parsed, err)
	}
	if _, err := ParseDateTime("01/06/2026"); !errors.Is(err, ErrInvalidDateTime) {
		t.Fatalf("expected ErrInvalidDateTime, got %v", err)
	}
}
