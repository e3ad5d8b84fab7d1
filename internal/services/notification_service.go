package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nicholas-fedor/shoutrrr"
	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/bloom/internal/models"
)

const DefaultNotifySchedule = "@hourly"

var (
	ErrNotificationLoadFailed   = errors.New("load notifications failed")
	ErrNotificationUpdateFailed = errors.New("update notifications failed")
)

// Sender delivers a message to a shoutrrr service URL.
type Sender interface {
	Send(serviceURL string, message string) error
}

type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(serviceURL string, message string) error {
	return shoutrrr.Send(serviceURL, message)
}

type NotificationUserRepository interface {
	ListOwners(ctx context.Context) ([]models.User, error)
	UpdateByID(ctx context.Context, userID uint, updates map[string]any) error
}

type NotificationRepository interface {
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	ExistsUnread(ctx context.Context, userID uint, text string) (bool, error)
	Create(ctx context.Context, notification *models.Notification) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type DailyLogFinder interface {
	FindByUserAndDate(ctx context.Context, userID uint, date string) (models.DailyLog, bool, error)
}

type NotificationConfig struct {
	// Schedule is a cron spec; empty disables the background run.
	Schedule string
	// PartnerURL is a shoutrrr URL where {email} is replaced by the
	// partner's address. Empty disables partner delivery.
	PartnerURL string
	Location   *time.Location
}

// PhaseChange is emitted when today's phase differs from the last one
// the user was told about.
type PhaseChange struct {
	UserID uint
	Old    string
	New    Phase
}

type NotificationService struct {
	users         NotificationUserRepository
	notifications NotificationRepository
	cycles        CycleLister
	logs          DailyLogFinder
	translator    Translator
	sender        Sender
	config        NotificationConfig
	now           func() time.Time
}

func NewNotificationService(
	users NotificationUserRepository,
	notifications NotificationRepository,
	cycles CycleLister,
	logs DailyLogFinder,
	translator Translator,
	sender Sender,
	config NotificationConfig,
) *NotificationService {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &NotificationService{
		users:         users,
		notifications: notifications,
		cycles:        cycles,
		logs:          logs,
		translator:    translator,
		sender:        sender,
		config:        config,
		now:           time.Now,
	}
}

// Start schedules RunOnce until ctx is cancelled.
func (service *NotificationService) Start(ctx context.Context) error {
	if strings.TrimSpace(service.config.Schedule) == "" {
		return nil
	}

	scheduler := cron.New(cron.WithLocation(service.config.Location))
	if _, err := scheduler.AddFunc(service.config.Schedule, func() {
		service.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("parse notify schedule %q: %w", service.config.Schedule, err)
	}
	scheduler.Start()

	go func() {
		<-ctx.Done()
		<-scheduler.Stop().Done()
	}()
	return nil
}

func (service *NotificationService) RunOnce(ctx context.Context) {
	owners, err := service.users.ListOwners(ctx)
	if err != nil {
		log.Printf("notifications: fetch owners failed: %v", err)
		return
	}

	today := TodayAt(service.now(), service.config.Location)
	for _, owner := range owners {
		if err := service.CheckUser(ctx, owner, today); err != nil {
			log.Printf("notifications: user %d: %v", owner.ID, err)
		}
	}
}

// CheckUser emits at most one phase-change notification and one daily
// reminder for owner. Phase changes need at least one logged cycle.
func (service *NotificationService) CheckUser(ctx context.Context, owner models.User, today civil.Date) error {
	records, err := service.cycles.ListByUser(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("fetch cycles: %w", err)
	}
	intervals, _ := ParseCycles(records)
	info := ClassifyPhase(today, intervals)

	if info.HasHistory && string(info.Phase) != owner.LastNotifiedPhase {
		change := PhaseChange{UserID: owner.ID, Old: owner.LastNotifiedPhase, New: info.Phase}
		if err := service.handlePhaseChange(ctx, owner, change); err != nil {
			return err
		}
	}

	return service.remindToLog(ctx, owner, today)
}

func (service *NotificationService) handlePhaseChange(ctx context.Context, owner models.User, change PhaseChange) error {
	if err := service.addNotification(ctx, owner.ID, models.NotificationInfo, service.phaseChangeText(owner.Language, change.New)); err != nil {
		return err
	}

	if service.config.PartnerURL != "" && owner.PartnerEmail != "" {
		phaseLabel := service.translator.Translate(owner.Language, "phase."+string(change.New))
		message := formatPromptMessage(service.translator.Translate(owner.Language, "notify.partner"), phaseLabel)
		message = MaskSensitiveText(message, owner.DiscreetMode)
		target := partnerServiceURL(service.config.PartnerURL, owner.PartnerEmail)
		if err := service.sender.Send(target, message); err != nil {
			return fmt.Errorf("deliver %s phase to partner: %w", change.New, err)
		}
	}

	if err := service.users.UpdateByID(ctx, owner.ID, map[string]any{"last_notified_phase": string(change.New)}); err != nil {
		return fmt.Errorf("persist notified phase: %w", err)
	}
	return nil
}

func (service *NotificationService) remindToLog(ctx context.Context, owner models.User, today civil.Date) error {
	if owner.LastRemindedDate == today.String() {
		return nil
	}
	entry, found, err := service.logs.FindByUserAndDate(ctx, owner.ID, today.String())
	if err != nil {
		return fmt.Errorf("fetch today's log: %w", err)
	}
	if found && entry.Mood != "" {
		return nil
	}

	if err := service.addNotification(ctx, owner.ID, models.NotificationRemind, service.translator.Translate(owner.Language, "notify.reminder")); err != nil {
		return err
	}
	if err := service.users.UpdateByID(ctx, owner.ID, map[string]any{"last_reminded_date": today.String()}); err != nil {
		return fmt.Errorf("persist reminder date: %w", err)
	}
	return nil
}

func (service *NotificationService) phaseChangeText(language string, phase Phase) string {
	if phase == PhaseOvulation {
		return service.translator.Translate(language, "notify.phase_change.Ovulation")
	}
	phaseLabel := service.translator.Translate(language, "phase."+string(phase))
	return formatPromptMessage(service.translator.Translate(language, "notify.phase_change"), phaseLabel)
}

// addNotification skips text that is already waiting unread.
func (service *NotificationService) addNotification(ctx context.Context, userID uint, kind string, text string) error {
	exists, err := service.notifications.ExistsUnread(ctx, userID, text)
	if err != nil {
		return fmt.Errorf("check unread notifications: %w", err)
	}
	if exists {
		return nil
	}
	if err := service.notifications.Create(ctx, &models.Notification{
		UserID: userID,
		Kind:   kind,
		Text:   text,
		Unread: true,
	}); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (service *NotificationService) List(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	notifications, err := service.notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrNotificationLoadFailed
	}
	return notifications, nil
}

func (service *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := service.notifications.MarkAllRead(ctx, userID); err != nil {
		return ErrNotificationUpdateFailed
	}
	return nil
}

func partnerServiceURL(template string, email string) string {
	return strings.ReplaceAll(template, "{email}", url.QueryEscape(email))
}
