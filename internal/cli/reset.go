package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/bloom/internal/db"
	"github.com/terraincognita07/bloom/internal/models"
	"github.com/terraincognita07/bloom/internal/security"
	"github.com/terraincognita07/bloom/internal/services"
	"golang.org/x/crypto/bcrypt"
)

type ResetUserRepository interface {
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	UpdateByID(ctx context.Context, userID uint, updates map[string]any) error
}

type ResetOptions struct {
	// Interactive asks for the new password on Stdin without echo. An empty
	// answer falls back to a generated temporary password.
	Interactive bool
	Stdin       *os.File
	Stdout      io.Writer
}

func RunResetPasswordCommand(ctx context.Context, dbPath string, email string, options ResetOptions) error {
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	chosen := ""
	if options.Interactive {
		fmt.Fprint(options.Stdout, "New password (leave empty to generate): ")
		raw, err := readPasswordNoEcho(options.Stdin)
		fmt.Fprintln(options.Stdout)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		chosen = strings.TrimSpace(string(raw))
	}

	password, err := ResetPassword(ctx, db.NewUserRepository(database), email, chosen)
	if err != nil {
		return err
	}

	fmt.Fprintln(options.Stdout, "Password reset successful")
	if chosen == "" {
		fmt.Fprintf(options.Stdout, "Temporary password: %s\n", password)
	}
	fmt.Fprintln(options.Stdout, "User must change password on next login.")
	return nil
}

// ResetPassword stores a new password for email and forces a change on the
// next login. An empty password is replaced by a generated one, which is
// returned.
func ResetPassword(ctx context.Context, users ResetUserRepository, email string, password string) (string, error) {
	normalizedEmail := services.NormalizeAuthEmail(email)
	if normalizedEmail == "" {
		return "", fmt.Errorf("invalid email address %q", email)
	}

	user, err := users.FindByNormalizedEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return "", fmt.Errorf("user %s not found", normalizedEmail)
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if password == "" {
		password, err = security.NewTemporaryPassword()
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return "", fmt.Errorf("password rejected: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := users.UpdateByID(ctx, user.ID, map[string]any{
		"password_hash":        string(passwordHash),
		"must_change_password": true,
	}); err != nil {
		return "", fmt.Errorf("update user password: %w", err)
	}
	return password, nil
}
