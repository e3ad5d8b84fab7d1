package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/bloom/internal/models"
)

var (
	ErrDayLogInvalid    = errors.New("invalid day log")
	ErrDayLogLoadFailed = errors.New("load day log failed")
	ErrDayLogSaveFailed = errors.New("save day log failed")
)

type DayLogInput struct {
	Mood          string   `json:"mood" validate:"max=64"`
	Symptoms      []string `json:"symptoms" validate:"max=20,dive,max=64"`
	BasalTemp     *float64 `json:"basal_temp" validate:"omitempty,gte=34,lte=43"`
	CervicalMucus string   `json:"cervical_mucus" validate:"omitempty,cervical_mucus"`
	LHTest        string   `json:"lh_test" validate:"omitempty,lh_test"`
}

type DayLogRepository interface {
	FindByUserAndDate(ctx context.Context, userID uint, date string) (models.DailyLog, bool, error)
	Upsert(ctx context.Context, entry *models.DailyLog) error
}

type DayLogService struct {
	logs     DayLogRepository
	validate *validator.Validate
}

func NewDayLogService(logs DayLogRepository) *DayLogService {
	return &DayLogService{
		logs:     logs,
		validate: newDayLogValidator(),
	}
}

// newDayLogValidator checks label fields against the model vocabularies.
func newDayLogValidator() *validator.Validate {
	validate := validator.New()
	labelSets := map[string][]string{
		"cervical_mucus": models.CervicalMucusLabels(),
		"lh_test":        models.LHTestLabels(),
	}
	for tag, labels := range labelSets {
		allowed := make(map[string]struct{}, len(labels))
		for _, label := range labels {
			allowed[label] = struct{}{}
		}
		if err := validate.RegisterValidation(tag, func(field validator.FieldLevel) bool {
			_, ok := allowed[field.Field().String()]
			return ok
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return validate
}

// Fetch returns an empty entry for days without a log.
func (service *DayLogService) Fetch(ctx context.Context, userID uint, day civil.Date) (models.DailyLog, error) {
	entry, found, err := service.logs.FindByUserAndDate(ctx, userID, day.String())
	if err != nil {
		return models.DailyLog{}, ErrDayLogLoadFailed
	}
	if !found {
		return models.DailyLog{UserID: userID, Date: day.String(), Symptoms: []string{}}, nil
	}
	if entry.Symptoms == nil {
		entry.Symptoms = []string{}
	}
	return entry, nil
}

// Save replaces every field of the day's log.
func (service *DayLogService) Save(ctx context.Context, userID uint, day civil.Date, input DayLogInput) (models.DailyLog, error) {
	normalized := NormalizeDayLogInput(input)
	if err := service.validate.Struct(normalized); err != nil {
		return models.DailyLog{}, fmt.Errorf("%w: %v", ErrDayLogInvalid, err)
	}

	entry := models.DailyLog{
		UserID:        userID,
		Date:          day.String(),
		Mood:          normalized.Mood,
		Symptoms:      normalized.Symptoms,
		BasalTemp:     normalized.BasalTemp,
		CervicalMucus: normalized.CervicalMucus,
		LHTest:        normalized.LHTest,
	}
	if err := service.logs.Upsert(ctx, &entry); err != nil {
		return models.DailyLog{}, ErrDayLogSaveFailed
	}

	saved, found, err := service.logs.FindByUserAndDate(ctx, userID, entry.Date)
	if err != nil || !found {
		return models.DailyLog{}, ErrDayLogLoadFailed
	}
	return saved, nil
}

func NormalizeDayLogInput(input DayLogInput) DayLogInput {
	input.Mood = strings.TrimSpace(input.Mood)
	input.CervicalMucus = strings.TrimSpace(input.CervicalMucus)
	input.LHTest = strings.TrimSpace(input.LHTest)

	symptoms := make([]string, 0, len(input.Symptoms))
	seen := make(map[string]struct{}, len(input.Symptoms))
	for _, raw := range input.Symptoms {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		symptoms = append(symptoms, label)
	}
	input.Symptoms = symptoms
	return input
}

// DayHasData reports whether a log carries anything beyond its date.
func DayHasData(entry models.DailyLog) bool {
	return entry.Mood != "" ||
		len(entry.Symptoms) > 0 ||
		entry.BasalTemp != nil ||
		entry.CervicalMucus != "" ||
		entry.LHTest != ""
}
