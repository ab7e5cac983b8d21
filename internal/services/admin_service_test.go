package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/jobtrack/internal/models"
)

type stubAdminUsers struct {
	users map[uint]models.User
}

func (stub *stubAdminUsers) ListAll() ([]models.User, error) {
	result := make([]models.User, 0, len(stub.users))
	for _, user := range stub.users {
		result = append(result, user)
	}
	return result, nil
}

func (stub *stubAdminUsers) FindByID(userID uint) (models.User, bool, error) {
	user, ok := stub.users[userID]
	return user, ok, nil
}

func (stub *stubAdminUsers) UpdateActive(userID uint, active bool) error {
	user := stub.users[userID]
	user.IsActive = active
	stub.users[userID] = user
	return nil
}

type stubAdminInvites struct {
	invites []models.InvitedEmail
}

func (stub *stubAdminInvites) List() ([]models.InvitedEmail, error) {
	return stub.invites, nil
}

func (stub *stubAdminInvites) FindByEmail(email string) (models.InvitedEmail, bool, error) {
	for _, invite := range stub.invites {
		if invite.Email == email {
			return invite, true, nil
		}
	}
	return models.InvitedEmail{}, false, nil
}

func (stub *stubAdminInvites) Create(invite *models.InvitedEmail) error {
	invite.ID = uint(len(stub.invites) + 1)
	stub.invites = append(stub.invites, *invite)
	return nil
}

func (stub *stubAdminInvites) DeleteByID(inviteID uint) (bool, error) {
	for index, invite := range stub.invites {
		if invite.ID == inviteID {
			stub.invites = append(stub.invites[:index], stub.invites[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestAdminInvites(t *testing.T) {
	t.Parallel()

	invites := &stubAdminInvites{}
	service := NewAdminService(&stubAdminUsers{}, invites, NewRegistrationMode(true))

	invite, err := service.AddInvite(1, " Guest@Example.com ")
	if err != nil {
		t.Fatalf("add invite: %v", err)
	}
	if invite.Email != "guest@example.com" || invite.InvitedBy == nil || *invite.InvitedBy != 1 {
		t.Fatalf("unexpected invite %+v", invite)
	}
	if _, err := service.AddInvite(1, "guest@example.com"); !errors.Is(err, ErrInviteExists) {
		t.Fatalf("expected ErrInviteExists, got %v", err)
	}
	if _, err := service.AddInvite(1, "nope"); !errors.Is(err, ErrInviteEmailInvalid) {
		t.Fatalf("expected ErrInviteEmailInvalid, got %v", err)
	}

	if err := service.DeleteInvite(invite.ID); err != nil {
		t.Fatalf("delete invite: %v", err)
	}
	if err := service.DeleteInvite(invite.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestAdminToggleActive(t *testing.T) {
	t.Parallel()

	users := &stubAdminUsers{users: map[uint]models.User{
		1: {ID: 1, Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, IsActive: true},
	}}
	service := NewAdminService(users, &stubAdminInvites{}, NewRegistrationMode(true))

	if _, err := service.ToggleActive(1, 1); !errors.Is(err, ErrCannotDeactivateSelf) {
		t.Fatalf("expected ErrCannotDeactivateSelf, got %v", err)
	}

	user, err := service.ToggleActive(1, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if user.IsActive || users.users[2].IsActive {
		t.Fatal("expected user 2 to be deactivated")
	}
	user, err = service.ToggleActive(1, 2)
	if err != nil || !user.IsActive {
		t.Fatalf("expected user 2 to be reactivated, got %+v %v", user, err)
	}

	if _, err := service.ToggleActive(1, 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminRegistrationModeIsShared(t *testing.T) {
	t.Parallel()

	mode := NewRegistrationMode(true)
	admin := NewAdminService(&stubAdminUsers{}, &stubAdminInvites{}, mode)
	auth := NewAuthService(&stubAuthUserRepo{users: []models.User{{ID: 1, Email: "root@example.com"}}}, stubInviteLookup{}, mode)

	if admin.SetRegistrationOpen(false) {
		t.Fatal("expected registration to be closed")
	}
	if _, err := auth.Register(RegistrationInput{Email: "late@example.com", Password: "password1"}); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed after admin switch, got %v", err)
	}
}
