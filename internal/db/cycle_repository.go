package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/bloom/internal/models"
	"gorm.io/gorm"
)

var ErrCycleNotFound = errors.New("cycle not found")

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) ListByUser(ctx context.Context, userID uint) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC, id ASC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

func (repo *CycleRepository) Create(ctx context.Context, cycle *models.Cycle) error {
	return repo.database.WithContext(ctx).Create(cycle).Error
}

func (repo *CycleRepository) UpdateFields(ctx context.Context, userID uint, cycleID string, fields map[string]any) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Cycle{}).
		Where("id = ? AND user_id = ?", cycleID, userID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCycleNotFound
	}
	return nil
}

func (repo *CycleRepository) Delete(ctx context.Context, userID uint, cycleID string) error {
	result := repo.database.WithContext(ctx).
		Where("id = ? AND user_id = ?", cycleID, userID).
		Delete(&models.Cycle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCycleNotFound
	}
	return nil
}

// Merge extends the absorbing cycle and removes the absorbed one in a single
// transaction.
func (repo *CycleRepository) Merge(ctx context.Context, userID uint, keepID string, endDate string, absorbedID string) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		extended := tx.Model(&models.Cycle{}).
			Where("id = ? AND user_id = ?", keepID, userID).
			Update("end_date", endDate)
		if extended.Error != nil {
			return extended.Error
		}
		if extended.RowsAffected == 0 {
			return ErrCycleNotFound
		}

		removed := tx.Where("id = ? AND user_id = ?", absorbedID, userID).Delete(&models.Cycle{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected == 0 {
			return ErrCycleNotFound
		}
		return nil
	})
}

func (repo *CycleRepository) DeleteStartingBetween(ctx context.Context, userID uint, from string, to string) (int64, error) {
	result := repo.database.WithContext(ctx).
		Where("user_id = ? AND start_date >= ? AND start_date <= ?", userID, from, to).
		Delete(&models.Cycle{})
	return result.RowsAffected, result.Error
}

// ClearUserData removes every cycle and day log of the user and resets the
// notification markers, all in one transaction.
func (repo *CycleRepository) ClearUserData(ctx context.Context, userID uint) (int64, int64, error) {
	var cyclesDeleted, logsDeleted int64
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cycles := tx.Where("user_id = ?", userID).Delete(&models.Cycle{})
		if cycles.Error != nil {
			return cycles.Error
		}
		logs := tx.Where("user_id = ?", userID).Delete(&models.DailyLog{})
		if logs.Error != nil {
			return logs.Error
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
			"last_notified_phase": "",
			"last_reminded_date":  "",
		}).Error; err != nil {
			return err
		}
		cyclesDeleted, logsDeleted = cycles.RowsAffected, logs.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return cyclesDeleted, logsDeleted, nil
}
