package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/ai"
	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrConsultantSessionNotFound = errors.New("consultant session not found")
	ErrConsultantInvalid         = errors.New("invalid consultant session")
)

const (
	maxConsultantTitleLength = 200
	maxConsultantTopicLength = 50
)

type ConsultantStore interface {
	ListByUser(userID uint, applicationID *uint) ([]models.ConsultantSession, error)
	Create(session *models.ConsultantSession) error
	FindByIDForUser(userID uint, sessionID uint) (models.ConsultantSession, bool, error)
	UpdateFields(userID uint, sessionID uint, values map[string]any, now time.Time) (bool, error)
	AppendExchange(userID uint, sessionID uint, messages []models.ConsultantMessage, now time.Time) (bool, error)
	DeleteForUser(userID uint, sessionID uint) (bool, error)
}

type ConsultantSessionInput struct {
	Title         *string `json:"title"`
	Topic         *string `json:"topic"`
	ApplicationID *uint   `json:"application_id"`
}

type ConsultantChatRequest struct {
	Message       string        `json:"message"`
	Topic         string        `json:"topic"`
	History       []ai.ChatTurn `json:"history"`
	ApplicationID *uint         `json:"application_id"`
	SessionID     *uint         `json:"session_id"`
}

type ConsultantReply struct {
	Response string `json:"response"`
	Provider string `json:"provider"`
}

func (service *AssistantService) ListSessions(userID uint, applicationID *uint) ([]models.ConsultantSession, error) {
	return service.consultant.ListByUser(userID, applicationID)
}

func (service *AssistantService) CreateSession(userID uint, input ConsultantSessionInput) (models.ConsultantSession, error) {
	session := models.ConsultantSession{
		UserID: userID,
		Title:  models.DefaultConsultantTitle,
		Topic:  models.DefaultConsultantTopic,
	}
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			session.Title = title
		}
	}
	if input.Topic != nil {
		if topic := strings.TrimSpace(*input.Topic); topic != "" {
			session.Topic = topic
		}
	}
	if err := validateSessionText(session.Title, session.Topic); err != nil {
		return models.ConsultantSession{}, err
	}
	if input.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *input.ApplicationID); err != nil {
			return models.ConsultantSession{}, err
		}
		session.ApplicationID = input.ApplicationID
	}

	now := service.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := service.consultant.Create(&session); err != nil {
		return models.ConsultantSession{}, err
	}
	return session, nil
}

func (service *AssistantService) GetSession(userID uint, sessionID uint) (models.ConsultantSession, error) {
	session, found, err := service.consultant.FindByIDForUser(userID, sessionID)
	if err != nil {
		return models.ConsultantSession{}, err
	}
	if !found {
		return models.ConsultantSession{}, ErrConsultantSessionNotFound
	}
	session.MessageCount = len(session.Messages)
	return session, nil
}

// UpdateSession renames a session or changes its topic. A blank title is rejected.
func (service *AssistantService) UpdateSession(userID uint, sessionID uint, input ConsultantSessionInput) (models.ConsultantSession, error) {
	if _, err := service.GetSession(userID, sessionID); err != nil {
		return models.ConsultantSession{}, err
	}

	values := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return models.ConsultantSession{}, fmt.Errorf("%w: title must not be blank", ErrConsultantInvalid)
		}
		values["title"] = title
	}
	if input.Topic != nil {
		topic := strings.TrimSpace(*input.Topic)
		if topic == "" {
			topic = models.DefaultConsultantTopic
		}
		values["topic"] = topic
	}
	title, _ := values["title"].(string)
	topic, _ := values["topic"].(string)
	if err := validateSessionText(title, topic); err != nil {
		return models.ConsultantSession{}, err
	}
	if input.ApplicationID != nil {
		if _, err := service.applications.Get(userID, *input.ApplicationID); err != nil {
			return models.ConsultantSession{}, err
		}
		values["application_id"] = *input.ApplicationID
	}

	if _, err := service.consultant.UpdateFields(userID, sessionID, values, service.now().UTC()); err != nil {
		return models.ConsultantSession{}, err
	}
	return service.GetSession(userID, sessionID)
}

func validateSessionText(title string, topic string) error {
	if len([]rune(title)) > maxConsultantTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrConsultantInvalid, maxConsultantTitleLength)
	}
	if len([]rune(topic)) > maxConsultantTopicLength {
		return fmt.Errorf("%w: topic must be at most %d characters", ErrConsultantInvalid, maxConsultantTopicLength)
	}
	return nil
}

func (service *AssistantService) DeleteSession(userID uint, sessionID uint) error {
	deleted, err := service.consultant.DeleteForUser(userID, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrConsultantSessionNotFound
	}
	return nil
}

// AssignSession links a session to an application. When the session already
// has messages and a provider is configured, the conversation is summarised;
// a failed summary is logged and the link is kept.
func (service *AssistantService) AssignSession(ctx context.Context, userID uint, sessionID uint, applicationID uint) (models.ConsultantSession, error) {
	session, err := service.GetSession(userID, sessionID)
	if err != nil {
		return models.ConsultantSession{}, err
	}
	application, err := service.applications.Get(userID, applicationID)
	if err != nil {
		return models.ConsultantSession{}, err
	}

	values := map[string]any{"application_id": applicationID}
	if len(session.Messages) > 0 {
		if summary, err := service.summarizeSession(ctx, userID, session, application); err != nil {
			log.Printf("consultant session %d: summary skipped: %v", sessionID, err)
		} else {
			values["summary"] = summary
		}
	}

	if _, err := service.consultant.UpdateFields(userID, sessionID, values, service.now().UTC()); err != nil {
		return models.ConsultantSession{}, err
	}
	return service.GetSession(userID, sessionID)
}

func (service *AssistantService) summarizeSession(ctx context.Context, userID uint, session models.ConsultantSession, application models.Application) (string, error) {
	lines := make([]string, 0, len(session.Messages))
	for _, message := range session.Messages {
		lines = append(lines, message.Role+": "+message.Content)
	}
	reply, err := service.generate(ctx, userID, ai.ConsultantSummaryPrompt(strings.Join(lines, "\n"), application.Company, application.Role))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ConsultantChat answers one message, trying each configured provider in turn.
// With a session id both sides of the exchange are stored on that session and,
// when the request carries no history, the stored messages are used instead.
func (service *AssistantService) ConsultantChat(ctx context.Context, userID uint, request ConsultantChatRequest) (ConsultantReply, error) {
	message, err := requireText(request.Message, "message is required")
	if err != nil {
		return ConsultantReply{}, err
	}

	history := request.History
	topic := strings.TrimSpace(request.Topic)
	applicationID := request.ApplicationID
	if request.SessionID != nil {
		session, err := service.GetSession(userID, *request.SessionID)
		if err != nil {
			return ConsultantReply{}, err
		}
		if len(history) == 0 {
			for _, stored := range session.Messages {
				history = append(history, ai.ChatTurn{Role: stored.Role, Content: stored.Content})
			}
		}
		if topic == "" {
			topic = session.Topic
		}
		if applicationID == nil {
			applicationID = session.ApplicationID
		}
	}

	chatContext := ai.ConsultantContext{Topic: topic, History: history}
	if applicationID != nil {
		application, err := service.applications.Get(userID, *applicationID)
		if err != nil {
			return ConsultantReply{}, err
		}
		chatContext.Application = &application
	}
	profile, err := service.profiles.Get(userID)
	if err != nil {
		return ConsultantReply{}, err
	}
	chatContext.Profile = profile

	choices, err := service.providerChoices(userID)
	if err != nil {
		return ConsultantReply{}, err
	}
	prompt := ai.ConsultantChatPrompt(message, chatContext)
	var reply ConsultantReply
	var failures []string
	for _, choice := range choices {
		text, err := service.build(choice).Generate(ctx, prompt)
		if err != nil {
			log.Printf("consultant chat: provider %s failed: %v", choice.name, err)
			failures = append(failures, choice.name+": "+err.Error())
			continue
		}
		reply = ConsultantReply{Response: strings.TrimSpace(text), Provider: choice.name}
		break
	}
	if reply.Provider == "" {
		return ConsultantReply{}, fmt.Errorf("%w: %s", ErrAIProvider, strings.Join(failures, "; "))
	}

	if request.SessionID != nil {
		now := service.now().UTC()
		exchange := []models.ConsultantMessage{
			{Role: models.ChatRoleUser, Content: message, CreatedAt: now},
			{Role: models.ChatRoleAssistant, Content: reply.Response, CreatedAt: now},
		}
		found, err := service.consultant.AppendExchange(userID, *request.SessionID, exchange, now)
		if err != nil {
			return ConsultantReply{}, err
		}
		if !found {
			return ConsultantReply{}, ErrConsultantSessionNotFound
		}
	}
	return reply, nil
}
