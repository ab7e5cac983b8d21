package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/security"
	"github.com/terraincognita07/jobtrack/internal/services"
)

var errPasswordMismatch = errors.New("passwords do not match")

type adminAccountStore interface {
	FindByNormalizedEmail(email string) (models.User, bool, error)
	CreateAccount(user *models.User, inviteID *uint) error
	UpdateRole(userID uint, role string) error
	UpdateActive(userID uint, active bool) error
	UpdatePassword(userID uint, passwordHash string) error
}

type AdminAccount struct {
	Email    string
	FullName string
	Password string
}

// RunCreateAdminCommand creates an administrator, or promotes and reactivates
// an existing account with the same email. The password is read from the
// terminal without echo; for an existing account it may be left blank.
func RunCreateAdminCommand(dbPath string, email string, fullName string, stdin *os.File, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errEmailRequired
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)
	users := db.NewUserRepository(database)

	_, exists, err := users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	label := "Password: "
	if exists {
		label = "New password (leave blank to keep the current one): "
	}
	password, err := promptNewPassword(label, stdin, out)
	if err != nil {
		return err
	}

	user, created, err := ensureAdmin(users, AdminAccount{
		Email:    normalizedEmail,
		FullName: fullName,
		Password: password,
	}, security.DefaultHashCost)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(out, "Administrator %s created (id %d)\n", user.Email, user.ID)
	} else {
		fmt.Fprintf(out, "User %s promoted to administrator\n", user.Email)
	}
	return nil
}

func promptNewPassword(label string, stdin *os.File, out io.Writer) (string, error) {
	password, err := promptPassword(label, stdin, out)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", nil
	}
	confirmation, err := promptPassword("Repeat password: ", stdin, out)
	if err != nil {
		return "", err
	}
	if confirmation != password {
		return "", errPasswordMismatch
	}
	return password, nil
}

func ensureAdmin(users adminAccountStore, account AdminAccount, hashCost int) (models.User, bool, error) {
	email := services.NormalizeAuthEmail(account.Email)
	if email == "" {
		return models.User{}, false, errEmailRequired
	}
	if account.Password != "" {
		if err := services.ValidatePasswordStrength(account.Password); err != nil {
			return models.User{}, false, err
		}
	}

	user, found, err := users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, false, fmt.Errorf("load user: %w", err)
	}

	if !found {
		if account.Password == "" {
			return models.User{}, false, errors.New("a password is required for a new administrator")
		}
		passwordHash, err := security.HashPassword(account.Password, hashCost)
		if err != nil {
			return models.User{}, false, fmt.Errorf("hash password: %w", err)
		}
		user = models.User{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(account.FullName),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := users.CreateAccount(&user, nil); err != nil {
			return models.User{}, false, fmt.Errorf("create administrator: %w", err)
		}
		return user, true, nil
	}

	if err := users.UpdateRole(user.ID, models.RoleAdmin); err != nil {
		return models.User{}, false, fmt.Errorf("promote user: %w", err)
	}
	if err := users.UpdateActive(user.ID, true); err != nil {
		return models.User{}, false, fmt.Errorf("activate user: %w", err)
	}
	if account.Password != "" {
		passwordHash, err := security.HashPassword(account.Password, hashCost)
		if err != nil {
			return models.User{}, false, fmt.Errorf("hash password: %w", err)
		}
		if err := users.UpdatePassword(user.ID, passwordHash); err != nil {
			return models.User{}, false, fmt.Errorf("update user password: %w", err)
		}
	}
	user.Role = models.RoleAdmin
	user.IsActive = true
	return user, false, nil
}
