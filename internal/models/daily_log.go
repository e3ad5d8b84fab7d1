package models

import "time"

const (
	LHTestNegative = "Negative"
	LHTestPositive = "Positive"
	LHTestPeak     = "Peak"
)

type DailyLog struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        uint      `gorm:"not null;uniqueIndex:uidx_user_date" json:"-"`
	Date          string    `gorm:"type:text;not null;uniqueIndex:uidx_user_date" json:"date"`
	Mood          string    `gorm:"not null;default:''" json:"mood"`
	Symptoms      []string  `gorm:"serializer:json" json:"symptoms"`
	BasalTemp     *float64  `json:"basal_temp"`
	CervicalMucus string    `gorm:"not null;default:''" json:"cervical_mucus"`
	LHTest        string    `gorm:"column:lh_test;not null;default:''" json:"lh_test"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
