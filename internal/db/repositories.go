package db

import "gorm.io/gorm"

type Repositories struct {
	Users         *UserRepository
	Cycles        *CycleRepository
	DailyLogs     *DailyLogRepository
	Notifications *NotificationRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(database),
		Cycles:        NewCycleRepository(database),
		DailyLogs:     NewDailyLogRepository(database),
		Notifications: NewNotificationRepository(database),
	}
}
