package models

import "time"

const (
	NotificationInfo   = "info"
	NotificationRemind = "remind"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Kind      string    `gorm:"not null;default:info" json:"kind"`
	Text      string    `gorm:"not null" json:"text"`
	Unread    bool      `gorm:"not null;default:true" json:"unread"`
	CreatedAt time.Time `json:"created_at"`
}
