package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/models"
)

var (
	ErrCycleLoadFailed     = errors.New("load cycles failed")
	ErrCycleMutationFailed = errors.New("apply cycle change failed")
	ErrToggleStale         = errors.New("toggle action changed since preview")
)

type CycleRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Cycle, error)
	Create(ctx context.Context, cycle *models.Cycle) error
	UpdateFields(ctx context.Context, userID uint, cycleID string, fields map[string]any) error
	Delete(ctx context.Context, userID uint, cycleID string) error
	Merge(ctx context.Context, userID uint, keepID string, endDate string, absorbedID string) error
	DeleteStartingBetween(ctx context.Context, userID uint, from string, to string) (int64, error)
	ClearUserData(ctx context.Context, userID uint) (int64, int64, error)
}

type DailyLogLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.DailyLog, error)
}

// CycleSnapshot holds everything derived from one fetch of a user's data.
type CycleSnapshot struct {
	Store       *IntervalStore
	Predictions PredictionSet
}

func BuildCycleSnapshot(cycles []models.Cycle, logs []models.DailyLog) *CycleSnapshot {
	store := NewIntervalStore(cycles, logs)
	return &CycleSnapshot{
		Store:       store,
		Predictions: BuildPredictions(store.Intervals()),
	}
}

type ToggleOptions struct {
	Language string
	// ExpectedKind rejects the toggle when the decision no longer matches
	// the one previewed. Empty accepts any decision.
	ExpectedKind ToggleKind
}

type ToggleResult struct {
	Action   ToggleAction
	Prompt   Prompt
	Applied  bool
	Snapshot *CycleSnapshot
}

type ResetMonthResult struct {
	Prompt   Prompt
	Applied  bool
	Deleted  int64
	Snapshot *CycleSnapshot
}

type ClearDataResult struct {
	Prompt        Prompt
	Applied       bool
	CyclesDeleted int64
	LogsDeleted   int64
	Snapshot      *CycleSnapshot
}

type CycleService struct {
	cycles     CycleRepository
	logs       DailyLogLister
	translator Translator
	locks      userLocks
}

func NewCycleService(cycles CycleRepository, logs DailyLogLister, translator Translator) *CycleService {
	return &CycleService{
		cycles:     cycles,
		logs:       logs,
		translator: translator,
		locks:      userLocks{locks: make(map[uint]*sync.Mutex)},
	}
}

func (service *CycleService) LoadSnapshot(ctx context.Context, userID uint) (*CycleSnapshot, error) {
	cycles, err := service.cycles.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrCycleLoadFailed
	}
	logs, err := service.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrCycleLoadFailed
	}

	snapshot := BuildCycleSnapshot(cycles, logs)
	for _, warning := range snapshot.Store.Warnings() {
		log.Printf("cycles: user %d: skipped %s", userID, warning)
	}
	return snapshot, nil
}

func (service *CycleService) PreviewToggle(ctx context.Context, userID uint, day civil.Date, language string) (ToggleAction, Prompt, error) {
	snapshot, err := service.LoadSnapshot(ctx, userID)
	if err != nil {
		return ToggleAction{}, Prompt{}, err
	}
	action := DecideToggle(day, snapshot.Store.Intervals())
	return action, BuildTogglePrompt(action, service.translator, language), nil
}

// Toggle decides the action for day, asks the confirmer and applies the
// mutation only on affirmation. The returned snapshot is rebuilt from a
// fresh fetch after a mutation. On error nothing has been changed.
func (service *CycleService) Toggle(ctx context.Context, userID uint, day civil.Date, confirmer Confirmer, options ToggleOptions) (ToggleResult, error) {
	unlock := service.locks.lock(userID)
	defer unlock()

	snapshot, err := service.LoadSnapshot(ctx, userID)
	if err != nil {
		return ToggleResult{}, err
	}

	action := DecideToggle(day, snapshot.Store.Intervals())
	prompt := BuildTogglePrompt(action, service.translator, options.Language)
	result := ToggleResult{Action: action, Prompt: prompt, Snapshot: snapshot}

	if options.ExpectedKind != "" && options.ExpectedKind != action.Kind {
		return result, ErrToggleStale
	}

	confirmed, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return result, err
	}
	if !confirmed {
		return result, nil
	}

	if err := service.applyToggle(ctx, userID, action); err != nil {
		log.Printf("cycles: user %d: %s on %s failed: %v", userID, action.Kind, action.Date, err)
		return result, ErrCycleMutationFailed
	}

	refreshed, err := service.LoadSnapshot(ctx, userID)
	if err != nil {
		return result, err
	}
	result.Applied = true
	result.Snapshot = refreshed
	return result, nil
}

func (service *CycleService) applyToggle(ctx context.Context, userID uint, action ToggleAction) error {
	switch action.Kind {
	case ToggleDelete:
		return service.cycles.Delete(ctx, userID, action.TargetID)
	case ToggleShrink, ToggleExtend:
		return service.cycles.UpdateFields(ctx, userID, action.TargetID, map[string]any{
			"end_date": action.NewEnd.String(),
		})
	case ToggleRetractStart:
		return service.cycles.UpdateFields(ctx, userID, action.TargetID, map[string]any{
			"start_date": action.NewStart.String(),
		})
	case ToggleMerge:
		return service.cycles.Merge(ctx, userID, action.TargetID, action.NewEnd.String(), action.AbsorbedID)
	case ToggleInsert:
		end := action.NewEnd.String()
		return service.cycles.Create(ctx, &models.Cycle{
			UserID:    userID,
			StartDate: action.NewStart.String(),
			EndDate:   &end,
		})
	default:
		return errors.New("unknown toggle action")
	}
}

// ResetMonth removes every cycle starting inside month.
func (service *CycleService) ResetMonth(ctx context.Context, userID uint, month civil.Date, confirmer Confirmer, language string) (ResetMonthResult, error) {
	unlock := service.locks.lock(userID)
	defer unlock()

	first, last := MonthBounds(month)
	label := first.In(time.UTC).Format("January 2006")
	prompt := BuildResetMonthPrompt(label, service.translator, language)
	result := ResetMonthResult{Prompt: prompt}

	confirmed, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return result, err
	}
	if !confirmed {
		return result, nil
	}

	deleted, err := service.cycles.DeleteStartingBetween(ctx, userID, first.String(), last.String())
	if err != nil {
		log.Printf("cycles: user %d: reset %s failed: %v", userID, label, err)
		return result, ErrCycleMutationFailed
	}

	snapshot, err := service.LoadSnapshot(ctx, userID)
	if err != nil {
		return result, err
	}
	result.Applied = true
	result.Deleted = deleted
	result.Snapshot = snapshot
	return result, nil
}

// ClearAllData wipes every cycle and day log of the user once confirmed.
func (service *CycleService) ClearAllData(ctx context.Context, userID uint, confirmer Confirmer, language string) (ClearDataResult, error) {
	unlock := service.locks.lock(userID)
	defer unlock()

	prompt := BuildClearDataPrompt(service.translator, language)
	result := ClearDataResult{Prompt: prompt}

	confirmed, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return result, err
	}
	if !confirmed {
		return result, nil
	}

	cycles, logs, err := service.cycles.ClearUserData(ctx, userID)
	if err != nil {
		log.Printf("cycles: user %d: clear data failed: %v", userID, err)
		return result, ErrCycleMutationFailed
	}

	snapshot, err := service.LoadSnapshot(ctx, userID)
	if err != nil {
		return result, err
	}
	result.Applied = true
	result.CyclesDeleted = cycles
	result.LogsDeleted = logs
	result.Snapshot = snapshot
	return result, nil
}

type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func (registry *userLocks) lock(userID uint) func() {
	registry.mu.Lock()
	userLock, ok := registry.locks[userID]
	if !ok {
		userLock = &sync.Mutex{}
		registry.locks[userID] = userLock
	}
	registry.mu.Unlock()

	userLock.Lock()
	return userLock.Unlock
}
