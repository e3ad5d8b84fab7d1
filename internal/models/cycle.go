package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cycle is one logged period. Dates are stored as YYYY-MM-DD text; a nil
// EndDate means the default span applies and is never written back.
type Cycle struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	StartDate string    `gorm:"type:text;not null" json:"start_date"`
	EndDate   *string   `gorm:"type:text" json:"end_date"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (cycle *Cycle) BeforeCreate(_ *gorm.DB) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	return nil
}
