package api

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/db"
	"github.com/terraincognita07/bloom/internal/i18n"
	"github.com/terraincognita07/bloom/internal/services"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Config struct {
	SecretKey    string
	Location     *time.Location
	CookieSecure bool
}

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	now          func() time.Time

	auth          *services.AuthService
	cycles        *services.CycleService
	days          *services.DayLogService
	settings      *services.SettingsService
	partners      *services.PartnerService
	notifications *services.NotificationService
	exports       *services.ExportService

	loginLimiter *attemptLimiter
}

// NewHandler wires the services over database. A nil notifier gets one
// without a schedule, which still serves the notification feed.
func NewHandler(database *gorm.DB, i18nManager *i18n.Manager, notifier *services.NotificationService, config Config) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if config.Location == nil {
		config.Location = time.Local
	}

	repos := db.NewRepositories(database)
	if notifier == nil {
		notifier = services.NewNotificationService(
			repos.Users,
			repos.Notifications,
			repos.Cycles,
			repos.DailyLogs,
			i18nManager,
			nil,
			services.NotificationConfig{Location: config.Location},
		)
	}

	return &Handler{
		secretKey:     []byte(config.SecretKey),
		location:      config.Location,
		cookieSecure:  config.CookieSecure,
		i18n:          i18nManager,
		now:           time.Now,
		auth:          services.NewAuthService(repos.Users),
		cycles:        services.NewCycleService(repos.Cycles, repos.DailyLogs, i18nManager),
		days:          services.NewDayLogService(repos.DailyLogs),
		settings:      services.NewSettingsService(repos.Users, i18nManager.SupportedLanguages()),
		partners:      services.NewPartnerService(repos.Users, repos.Cycles, i18nManager),
		notifications: notifier,
		exports:       services.NewExportService(i18nManager),
		loginLimiter:  newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}, nil
}

func (handler *Handler) today() civil.Date {
	return services.TodayAt(handler.now(), handler.location)
}
