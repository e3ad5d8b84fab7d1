package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/bloom/internal/models"
)

type dayLogRepositoryStub struct {
	entries   map[string]models.DailyLog
	findErr   error
	upsertErr error
	upserts   int
}

func newDayLogRepositoryStub() *dayLogRepositoryStub {
	return &dayLogRepositoryStub{entries: make(map[string]models.DailyLog)}
}

func (stub *dayLogRepositoryStub) ListByUser(_ context.Context, userID uint) ([]models.DailyLog, error) {
	result := make([]models.DailyLog, 0, len(stub.entries))
	for _, entry := range stub.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (stub *dayLogRepositoryStub) FindByUserAndDate(_ context.Context, userID uint, date string) (models.DailyLog, bool, error) {
	if stub.findErr != nil {
		return models.DailyLog{}, false, stub.findErr
	}
	entry, ok := stub.entries[date]
	if !ok || entry.UserID != userID {
		return models.DailyLog{}, false, nil
	}
	return entry, true, nil
}

func (stub *dayLogRepositoryStub) Upsert(_ context.Context, entry *models.DailyLog) error {
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	stub.upserts++
	stub.entries[entry.Date] = *entry
	return nil
}

func TestDayLogServiceFetchMissingReturnsEmptyEntry(t *testing.T) {
	service := NewDayLogService(newDayLogRepositoryStub())

	entry, err := service.Fetch(context.Background(), 7, mustDate(t, "2024-03-10"))
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if entry.Date != "2024-03-10" || entry.UserID != 7 {
		t.Fatalf("unexpected empty entry %+v", entry)
	}
	if entry.Symptoms == nil || DayHasData(entry) {
		t.Fatalf("expected empty non-nil symptoms and no data, got %+v", entry)
	}
}

func TestDayLogServiceSaveNormalizesAndReplaces(t *testing.T) {
	repo := newDayLogRepositoryStub()
	service := NewDayLogService(repo)
	day := mustDate(t, "2024-03-10")
	temp := 36.6

	saved, err := service.Save(context.Background(), 1, day, DayLogInput{
		Mood:          "  Calm ",
		Symptoms:      []string{"Cramps", " cramps", "", "Headache"},
		BasalTemp:     &temp,
		CervicalMucus: "Creamy",
		LHTest:        "Positive",
	})
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if saved.Mood != "Calm" {
		t.Fatalf("expected trimmed mood, got %q", saved.Mood)
	}
	if len(saved.Symptoms) != 2 || saved.Symptoms[0] != "Cramps" || saved.Symptoms[1] != "Headache" {
		t.Fatalf("expected deduplicated symptoms, got %v", saved.Symptoms)
	}

	replaced, err := service.Save(context.Background(), 1, day, DayLogInput{Mood: "Happy"})
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if replaced.BasalTemp != nil || replaced.CervicalMucus != "" || len(replaced.Symptoms) != 0 {
		t.Fatalf("expected second save to replace every field, got %+v", replaced)
	}
}

func TestDayLogServiceSaveRejectsInvalidInput(t *testing.T) {
	cold := 20.0
	cases := []struct {
		name  string
		input DayLogInput
	}{
		{name: "temperature out of range", input: DayLogInput{BasalTemp: &cold}},
		{name: "unknown mucus", input: DayLogInput{CervicalMucus: "Gel"}},
		{name: "unknown lh result", input: DayLogInput{LHTest: "Maybe"}},
		{name: "mood too long", input: DayLogInput{Mood: strings.Repeat("a", 65)}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			repo := newDayLogRepositoryStub()
			service := NewDayLogService(repo)
			_, err := service.Save(context.Background(), 1, mustDate(t, "2024-03-10"), testCase.input)
			if !errors.Is(err, ErrDayLogInvalid) {
				t.Fatalf("expected ErrDayLogInvalid, got %v", err)
			}
			if repo.upserts != 0 {
				t.Fatal("expected invalid input not to be stored")
			}
		})
	}
}

func TestDayLogServiceStorageErrors(t *testing.T) {
	repo := newDayLogRepositoryStub()
	repo.upsertErr = errors.New("locked")
	service := NewDayLogService(repo)

	if _, err := service.Save(context.Background(), 1, mustDate(t, "2024-03-10"), DayLogInput{Mood: "Sad"}); !errors.Is(err, ErrDayLogSaveFailed) {
		t.Fatalf("expected ErrDayLogSaveFailed, got %v", err)
	}

	repo.upsertErr = nil
	repo.findErr = errors.New("locked")
	if _, err := service.Fetch(context.Background(), 1, mustDate(t, "2024-03-10")); !errors.Is(err, ErrDayLogLoadFailed) {
		t.Fatalf("expected ErrDayLogLoadFailed, got %v", err)
	}
}

func TestDayLogServiceAcceptsEveryModelLabel(t *testing.T) {
	service := NewDayLogService(newDayLogRepositoryStub())

	for _, label := range models.CervicalMucusLabels() {
		if _, err := service.Save(context.Background(), 1, mustDate(t, "2024-03-10"), DayLogInput{CervicalMucus: label}); err != nil {
			t.Fatalf("Save() cervical mucus %q unexpected error: %v", label, err)
		}
	}
	for _, label := range models.LHTestLabels() {
		if _, err := service.Save(context.Background(), 1, mustDate(t, "2024-03-10"), DayLogInput{LHTest: label}); err != nil {
			t.Fatalf("Save() lh test %q unexpected error: %v", label, err)
		}
	}
	if _, err := service.Save(context.Background(), 1, mustDate(t, "2024-03-10"), DayLogInput{CervicalMucus: "eggwhite"}); !errors.Is(err, ErrDayLogInvalid) {
		t.Fatalf("expected labels to be case sensitive, got %v", err)
	}
}
