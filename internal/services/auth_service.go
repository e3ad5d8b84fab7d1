package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/terraincognita07/bloom/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthCredentialsInvalid = errors.New("invalid credentials")
	ErrAuthInputInvalid       = errors.New("invalid input")
	ErrAuthPasswordMismatch   = errors.New("password mismatch")
	ErrAuthEmailExists        = errors.New("email already exists")
	ErrAuthCreateFailed       = errors.New("failed to create account")
	ErrWeakPassword           = errors.New("weak password")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, userID uint) (models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type RegistrationInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Language        string
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func (service *AuthService) Register(ctx context.Context, input RegistrationInput) (models.User, error) {
	email := NormalizeAuthEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return models.User{}, ErrAuthInputInvalid
	}
	if password != strings.TrimSpace(input.ConfirmPassword) {
		return models.User{}, ErrAuthPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrAuthCreateFailed
	}
	if exists {
		return models.User{}, ErrAuthEmailExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, ErrAuthCreateFailed
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleOwner,
		Language:     input.Language,
		CreatedAt:    service.now(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, ErrAuthEmailExists
	}
	return user, nil
}

// Authenticate checks credentials. Callers must still honour
// MustChangePassword on the returned user.
func (service *AuthService) Authenticate(ctx context.Context, rawEmail string, rawPassword string) (models.User, error) {
	email := NormalizeAuthEmail(rawEmail)
	password := strings.TrimSpace(rawPassword)
	if email == "" || password == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	return service.users.FindByID(ctx, userID)
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}
