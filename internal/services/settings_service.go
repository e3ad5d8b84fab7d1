package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/bloom/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const maxDisplayNameLength = 64

var (
	ErrSettingsDisplayNameTooLong = errors.New("display name too long")
	ErrSettingsLanguageInvalid    = errors.New("unsupported language")
	ErrSettingsPasswordInvalid    = errors.New("invalid current password")
	ErrSettingsPasswordUnchanged  = errors.New("new password must differ")
	ErrSettingsUpdateFailed       = errors.New("update settings failed")
	ErrSettingsDeleteFailed       = errors.New("delete account failed")
)

type SettingsUserRepository interface {
	FindByID(ctx context.Context, userID uint) (models.User, error)
	UpdateByID(ctx context.Context, userID uint, updates map[string]any) error
	DeleteWithData(ctx context.Context, userID uint) error
}

// ProfileUpdate leaves fields that are nil untouched.
type ProfileUpdate struct {
	DisplayName  *string `json:"display_name"`
	DiscreetMode *bool   `json:"discreet_mode"`
	Language     *string `json:"language"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type SettingsService struct {
	users     SettingsUserRepository
	languages map[string]struct{}
}

func NewSettingsService(users SettingsUserRepository, supportedLanguages []string) *SettingsService {
	languages := make(map[string]struct{}, len(supportedLanguages))
	for _, language := range supportedLanguages {
		languages[language] = struct{}{}
	}
	return &SettingsService{users: users, languages: languages}
}

func (service *SettingsService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (models.User, error) {
	updates := make(map[string]any)
	if update.DisplayName != nil {
		displayName := strings.TrimSpace(*update.DisplayName)
		if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
			return models.User{}, ErrSettingsDisplayNameTooLong
		}
		updates["display_name"] = displayName
	}
	if update.DiscreetMode != nil {
		updates["discreet_mode"] = *update.DiscreetMode
	}
	if update.Language != nil {
		language := strings.ToLower(strings.TrimSpace(*update.Language))
		if _, ok := service.languages[language]; !ok {
			return models.User{}, ErrSettingsLanguageInvalid
		}
		updates["language"] = language
	}

	if len(updates) > 0 {
		if err := service.users.UpdateByID(ctx, userID, updates); err != nil {
			return models.User{}, ErrSettingsUpdateFailed
		}
	}
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, ErrSettingsUpdateFailed
	}
	return user, nil
}

// ChangePassword also clears a forced change set by the reset command.
func (service *SettingsService) ChangePassword(ctx context.Context, user models.User, change PasswordChange) error {
	current := strings.TrimSpace(change.CurrentPassword)
	next := strings.TrimSpace(change.NewPassword)
	if current == "" || next == "" {
		return ErrAuthInputInvalid
	}
	if next != strings.TrimSpace(change.ConfirmPassword) {
		return ErrAuthPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrSettingsPasswordInvalid
	}
	if current == next {
		return ErrSettingsPasswordUnchanged
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return ErrSettingsUpdateFailed
	}
	if err := service.users.UpdateByID(ctx, user.ID, map[string]any{
		"password_hash":        string(passwordHash),
		"must_change_password": false,
	}); err != nil {
		return ErrSettingsUpdateFailed
	}
	return nil
}

// DeleteAccount removes the user and all owned data after re-checking the
// password.
func (service *SettingsService) DeleteAccount(ctx context.Context, user models.User, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrAuthInputInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrSettingsPasswordInvalid
	}
	if err := service.users.DeleteWithData(ctx, user.ID); err != nil {
		return ErrSettingsDeleteFailed
	}
	return nil
}
