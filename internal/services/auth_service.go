package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrRegistrationClosed = errors.New("registration is by invitation only")
	ErrInviteAlreadyUsed  = errors.New("this invitation has already been used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is disabled, contact an administrator")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUserRepository interface {
	CountUsers() (int64, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, bool, error)
	FindByID(userID uint) (models.User, bool, error)
	CreateAccount(user *models.User, inviteID *uint) error
}

type InviteLookup interface {
	FindByEmail(email string) (models.InvitedEmail, bool, error)
}

type RegistrationInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type AuthService struct {
	users    AuthUserRepository
	invites  InviteLookup
	mode     *RegistrationMode
	hashCost int
}

func NewAuthService(users AuthUserRepository, invites InviteLookup, mode *RegistrationMode) *AuthService {
	if mode == nil {
		mode = NewRegistrationMode(true)
	}
	return &AuthService{users: users, invites: invites, mode: mode, hashCost: security.DefaultHashCost}
}

// Register creates the account and its empty profile. While registration is
// invite-only the email must be on the invite list with the invite unused;
// the very first account is always allowed so a fresh install can bootstrap.
func (service *AuthService) Register(input RegistrationInput) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	inviteID, err := service.requireInvite(email)
	if err != nil {
		return models.User{}, err
	}

	hash, err := security.HashPassword(password, service.hashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := service.users.CreateAccount(&user, inviteID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) requireInvite(email string) (*uint, error) {
	if service.mode.Open() {
		return nil, nil
	}
	count, err := service.users.CountUsers()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	invite, found, err := service.invites.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRegistrationClosed
	}
	if invite.IsUsed() {
		return nil, ErrInviteAlreadyUsed
	}
	return &invite.ID, nil
}

func (service *AuthService) Login(emailRaw string, password string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, password)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if !found || !security.PasswordMatches(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.User{}, ErrAccountInactive
	}
	return user, nil
}

// ActiveUser resolves the subject of an access token. Deactivated accounts are
// reported as ErrAccountInactive so their outstanding tokens stop working.
func (service *AuthService) ActiveUser(userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	if !user.IsActive {
		return models.User{}, ErrAccountInactive
	}
	return user, nil
}
