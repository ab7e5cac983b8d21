package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/jobtrack/internal/models"
)

func TestReminderLifecycle(t *testing.T) {
	env := newTestApp(t)
	_, token := registerTestUser(t, env.app, "reminders@example.com")
	application := createTestApplication(t, env.app, token, "Acme", "Go Developer")
	createPath := fmt.Sprintf("/api/applications/%d/reminders", application.ID)

	status, body := doRequest(t, env.app, http.MethodPost, createPath, token, fiber.Map{"remind_at": "tomorrow", "message": "call back"})
	expectStatus(t, status, fiber.StatusBadRequest, body)

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	status, body = doRequest(t, env.app, http.MethodPost, createPath, token, fiber.Map{"remind_at": past, "message": "call back"})
	expectStatus(t, status, fiber.StatusCreated, body)
	var due models.Reminder
	decodeBody(t, body, &due)

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	status, body = doRequest(t, env.app, http.MethodPost, createPath, token, fiber.Map{"remind_at": future, "message": "send portfolio"})
	expectStatus(t, status, fiber.StatusCreated, body)

	status, body = doRequest(t, env.app, http.MethodGet, "/api/reminders/upcoming", token, nil)
	expectStatus(t, status, fiber.StatusOK, body)
	var upcoming []models.Reminder
	decodeBody(t, body, &upcoming)
	if len(upcoming) != 1 || upcoming[0].ID != due.ID {
		t.Fatalf("expected only the due reminder, got %#v", upcoming)
	}

	dismissPath := fmt.Sprintf("/api/reminders/%d/dismiss", due.ID)
	for attempt := 0; attempt < 2; attempt++ {
		status, body = doRequest(t, env.app, http.MethodPatch, dismissPath, token, nil)
		expectStatus(t, status, fiber.StatusOK, body)
		var dismissed models.Reminder
		decodeBody(t, body, &dismissed)
		if !dismissed.IsDismissed {
			t.Fatalf("attempt %d: expected dismissed reminder", attempt+1)
		}
	}

	status, body = doRequest(t, env.app, http.MethodGet, "/api/reminders", token, nil)
	expectStatus(t, status, fiber.StatusOK, body)
	var active []models.Reminder
	decodeBody(t, body, &active)
	if len(active) != 1 {
		t.Fatalf("expected dismissed reminder to be hidden, got %d", len(active))
	}

	status, body = doRequest(t, env.app, http.MethodGet, "/api/reminders?include_dismissed=true", token, nil)
	expectStatus(t, status, fiber.StatusOK, body)
	var all []models.Reminder
	decodeBody(t, body, &all)
	if len(all) != 2 {
		t.Fatalf("expected both reminders with include_dismissed, got %d", len(all))
	}

	_, otherToken := registerTestUser(t, env.app, "stranger@example.com")
	status, body = doRequest(t, env.app, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", due.ID), otherToken, nil)
	expectStatus(t, status, fiber.StatusNotFound, body)

	status, body = doRequest(t, env.app, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", due.ID), token, nil)
	expectStatus(t, status, fiber.StatusNoContent, body)
}
