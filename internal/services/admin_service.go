package services

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrInviteExists         = errors.New("email already in invite list")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteEmailInvalid   = errors.New("a valid email is required")
	ErrCannotDeactivateSelf = errors.New("cannot deactivate yourself")
)

type AdminUserRepository interface {
	ListAll() ([]models.User, error)
	FindByID(userID uint) (models.User, bool, error)
	UpdateActive(userID uint, active bool) error
}

type AdminInviteRepository interface {
	List() ([]models.InvitedEmail, error)
	FindByEmail(email string) (models.InvitedEmail, bool, error)
	Create(invite *models.InvitedEmail) error
	DeleteByID(inviteID uint) (bool, error)
}

type AdminService struct {
	users   AdminUserRepository
	invites AdminInviteRepository
	mode    *RegistrationMode
}

func NewAdminService(users AdminUserRepository, invites AdminInviteRepository, mode *RegistrationMode) *AdminService {
	return &AdminService{users: users, invites: invites, mode: mode}
}

func (service *AdminService) ListInvites() ([]models.InvitedEmail, error) {
	return service.invites.List()
}

func (service *AdminService) AddInvite(adminID uint, rawEmail string) (models.InvitedEmail, error) {
	email := NormalizeAuthEmail(rawEmail)
	if email == "" {
		return models.InvitedEmail{}, ErrInviteEmailInvalid
	}

	_, found, err := service.invites.FindByEmail(email)
	if err != nil {
		return models.InvitedEmail{}, err
	}
	if found {
		return models.InvitedEmail{}, fmt.Errorf("%w: %s", ErrInviteExists, email)
	}

	invite := models.InvitedEmail{Email: email, InvitedBy: &adminID}
	if err := service.invites.Create(&invite); err != nil {
		return models.InvitedEmail{}, err
	}
	return invite, nil
}

func (service *AdminService) DeleteInvite(inviteID uint) error {
	deleted, err := service.invites.DeleteByID(inviteID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrInviteNotFound
	}
	return nil
}

func (service *AdminService) ListUsers() ([]models.User, error) {
	return service.users.ListAll()
}

func (service *AdminService) ToggleActive(adminID uint, userID uint) (models.User, error) {
	if adminID == userID {
		return models.User{}, ErrCannotDeactivateSelf
	}
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}

	user.IsActive = !user.IsActive
	if err := service.users.UpdateActive(user.ID, user.IsActive); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AdminService) RegistrationOpen() bool {
	return service.mode.Open()
}

func (service *AdminService) SetRegistrationOpen(open bool) bool {
	service.mode.Set(open)
	return service.mode.Open()
}
