package models

import "time"

const (
	RoleOwner = "owner"
)

type User struct {
	ID                 uint      `gorm:"primaryKey"`
	Email              string    `gorm:"uniqueIndex;not null"`
	PasswordHash       string    `gorm:"not null"`
	Role               string    `gorm:"not null;default:owner"`
	DisplayName        string    `gorm:"not null;default:''"`
	PartnerEmail       string    `gorm:"not null;default:''"`
	PartnerToken       string    `gorm:"index;not null;default:''"`
	LastNotifiedPhase  string    `gorm:"not null;default:''"`
	LastRemindedDate   string    `gorm:"not null;default:''"`
	DiscreetMode       bool      `gorm:"not null;default:false"`
	Language           string    `gorm:"not null;default:''"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}
