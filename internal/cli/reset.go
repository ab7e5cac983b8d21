package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/jobtrack/internal/db"
	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/security"
	"github.com/terraincognita07/jobtrack/internal/services"
	"gorm.io/gorm"
)

const temporaryPasswordLength = 12

var errEmailRequired = errors.New("a valid email address is required")

type passwordResetStore interface {
	FindByNormalizedEmail(email string) (models.User, bool, error)
	UpdatePassword(userID uint, passwordHash string) error
}

// RunResetPasswordCommand replaces the user's password with a random one and
// prints it so an operator can hand it over.
func RunResetPasswordCommand(dbPath string, email string, out io.Writer) error {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return errEmailRequired
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	temporaryPassword, err := resetPassword(db.NewUserRepository(database), normalizedEmail, security.DefaultHashCost)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password for %s: %s\n", normalizedEmail, temporaryPassword)
	fmt.Fprintln(out, "Ask the user to change it after signing in.")
	return nil
}

func resetPassword(users passwordResetStore, email string, hashCost int) (string, error) {
	user, found, err := users.FindByNormalizedEmail(email)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if !found {
		return "", fmt.Errorf("user %s not found", email)
	}

	temporaryPassword, err := security.TemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	passwordHash, err := security.HashPassword(temporaryPassword, hashCost)
	if err != nil {
		return "", fmt.Errorf("hash temporary password: %w", err)
	}
	if err := users.UpdatePassword(user.ID, passwordHash); err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return temporaryPassword, nil
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
