package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/bloom/internal/models"
)

type notificationUserRepositoryStub struct {
	owners  []models.User
	updates map[uint]map[string]any
}

func (stub *notificationUserRepositoryStub) ListOwners(context.Context) ([]models.User, error) {
	return stub.owners, nil
}

func (stub *notificationUserRepositoryStub) UpdateByID(_ context.Context, userID uint, updates map[string]any) error {
	if stub.updates == nil {
		stub.updates = make(map[uint]map[string]any)
	}
	merged := stub.updates[userID]
	if merged == nil {
		merged = make(map[string]any)
	}
	for key, value := range updates {
		merged[key] = value
	}
	stub.updates[userID] = merged
	return nil
}

type notificationRepositoryStub struct {
	created []models.Notification
}

func (stub *notificationRepositoryStub) ListByUser(_ context.Context, userID uint, _ int) ([]models.Notification, error) {
	result := make([]models.Notification, 0, len(stub.created))
	for _, notification := range stub.created {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result, nil
}

func (stub *notificationRepositoryStub) ExistsUnread(_ context.Context, userID uint, text string) (bool, error) {
	for _, notification := range stub.created {
		if notification.UserID == userID && notification.Unread && notification.Text == text {
			return true, nil
		}
	}
	return false, nil
}

func (stub *notificationRepositoryStub) Create(_ context.Context, notification *models.Notification) error {
	stub.created = append(stub.created, *notification)
	return nil
}

func (stub *notificationRepositoryStub) MarkAllRead(_ context.Context, userID uint) error {
	for index := range stub.created {
		if stub.created[index].UserID == userID {
			stub.created[index].Unread = false
		}
	}
	return nil
}

type senderStub struct {
	targets  []string
	messages []string
	err      error
}

func (stub *senderStub) Send(serviceURL string, message string) error {
	if stub.err != nil {
		return stub.err
	}
	stub.targets = append(stub.targets, serviceURL)
	stub.messages = append(stub.messages, message)
	return nil
}

type notificationFixture struct {
	service       *NotificationService
	users         *notificationUserRepositoryStub
	notifications *notificationRepositoryStub
	logs          *dayLogRepositoryStub
	sender        *senderStub
}

func newNotificationFixture(t *testing.T, owner models.User, cycles ...models.Cycle) notificationFixture {
	t.Helper()
	fixture := notificationFixture{
		users:         &notificationUserRepositoryStub{owners: []models.User{owner}},
		notifications: &notificationRepositoryStub{},
		logs:          newDayLogRepositoryStub(),
		sender:        &senderStub{},
	}
	fixture.service = NewNotificationService(
		fixture.users,
		fixture.notifications,
		newCycleRepositoryStub(cycles...),
		fixture.logs,
		mapTranslator{
			"phase.Luteal":                  "Luteal",
			"phase.Ovulation":               "Ovulation",
			"notify.phase_change":           "%s phase started.",
			"notify.phase_change.Ovulation": "Ovulation window is open.",
			"notify.partner":                "%s phase started.",
			"notify.reminder":               "Log today's mood.",
		},
		fixture.sender,
		NotificationConfig{PartnerURL: "generic://hooks.example.com/{email}", Location: time.UTC},
	)
	return fixture
}

func (fixture notificationFixture) texts() []string {
	texts := make([]string, 0, len(fixture.notifications.created))
	for _, notification := range fixture.notifications.created {
		texts = append(texts, notification.Text)
	}
	return texts
}

func TestNotificationServicePhaseChangeNotifiesOwnerAndPartner(t *testing.T) {
	owner := models.User{ID: 1, PartnerEmail: "p+1@example.com", LastNotifiedPhase: "Follicular", LastRemindedDate: "2024-03-20"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))

	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-20")); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}

	texts := fixture.texts()
	if len(texts) != 1 || texts[0] != "Ovulation window is open." {
		t.Fatalf("expected one ovulation notification, got %v", texts)
	}
	if len(fixture.sender.targets) != 1 || fixture.sender.targets[0] != "generic://hooks.example.com/p%2B1%40example.com" {
		t.Fatalf("unexpected partner targets %v", fixture.sender.targets)
	}
	if fixture.sender.messages[0] != "Ovulation phase started." {
		t.Fatalf("unexpected partner message %q", fixture.sender.messages[0])
	}
	if got := fixture.users.updates[1]["last_notified_phase"]; got != "Ovulation" {
		t.Fatalf("expected notified phase to be persisted, got %v", got)
	}
}

func TestNotificationServiceSamePhaseIsQuiet(t *testing.T) {
	owner := models.User{ID: 1, LastNotifiedPhase: "Luteal", LastRemindedDate: "2024-03-25"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))

	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}
	if len(fixture.notifications.created) != 0 || len(fixture.sender.messages) != 0 {
		t.Fatalf("expected no notifications, got %v", fixture.texts())
	}
}

func TestNotificationServicePartnerFailureKeepsPhasePending(t *testing.T) {
	owner := models.User{ID: 1, PartnerEmail: "p@example.com", LastNotifiedPhase: "Follicular", LastRemindedDate: "2024-03-25"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))
	fixture.sender.err = errors.New("smtp down")

	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err == nil {
		t.Fatal("expected delivery error")
	}
	if _, persisted := fixture.users.updates[1]["last_notified_phase"]; persisted {
		t.Fatal("expected phase not to be persisted after failed delivery")
	}

	fixture.sender.err = nil
	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err != nil {
		t.Fatalf("CheckUser() retry unexpected error: %v", err)
	}
	if len(fixture.notifications.created) != 1 {
		t.Fatalf("expected unread notification to be deduplicated, got %v", fixture.texts())
	}
	if len(fixture.sender.messages) != 1 {
		t.Fatalf("expected retry to deliver once, got %v", fixture.sender.messages)
	}
}

func TestNotificationServiceRemindsOncePerDay(t *testing.T) {
	owner := models.User{ID: 1, LastNotifiedPhase: "Luteal"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))
	today := mustDate(t, "2024-03-25")

	if err := fixture.service.CheckUser(context.Background(), owner, today); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}
	texts := fixture.texts()
	if len(texts) != 1 || texts[0] != "Log today's mood." {
		t.Fatalf("expected reminder, got %v", texts)
	}
	if got := fixture.users.updates[1]["last_reminded_date"]; got != "2024-03-25" {
		t.Fatalf("expected reminder date to be persisted, got %v", got)
	}

	owner.LastRemindedDate = "2024-03-25"
	if err := fixture.service.CheckUser(context.Background(), owner, today); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}
	if len(fixture.notifications.created) != 1 {
		t.Fatalf("expected a single reminder per day, got %v", fixture.texts())
	}
}

func TestNotificationServiceSkipsReminderWhenMoodLogged(t *testing.T) {
	owner := models.User{ID: 1, LastNotifiedPhase: "Luteal"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))
	fixture.logs.entries["2024-03-25"] = models.DailyLog{UserID: 1, Date: "2024-03-25", Mood: "Calm"}

	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}
	if len(fixture.notifications.created) != 0 {
		t.Fatalf("expected no reminder, got %v", fixture.texts())
	}
}

func TestNotificationServiceRunOnceUsesConfiguredClock(t *testing.T) {
	owner := models.User{ID: 1, LastNotifiedPhase: "Follicular", LastRemindedDate: "2024-03-10"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))
	fixture.service.now = func() time.Time {
		return time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)
	}

	fixture.service.RunOnce(context.Background())
	if len(fixture.notifications.created) != 0 {
		t.Fatalf("expected day 10 to stay follicular, got %v", fixture.texts())
	}
}

func TestNotificationServiceMarkAllRead(t *testing.T) {
	owner := models.User{ID: 1, LastNotifiedPhase: "Luteal"}
	fixture := newNotificationFixture(t, owner, cycleRecord("a", "2024-03-01", "2024-03-04"))
	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}

	if err := fixture.service.MarkAllRead(context.Background(), 1); err != nil {
		t.Fatalf("MarkAllRead() unexpected error: %v", err)
	}
	listed, err := fixture.service.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	for _, notification := range listed {
		if notification.Unread {
			t.Fatalf("expected all notifications read, got %+v", notification)
		}
	}
}

func TestNotificationServiceStartRejectsInvalidSchedule(t *testing.T) {
	fixture := newNotificationFixture(t, models.User{ID: 1})
	fixture.service.config.Schedule = "every now and then"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := fixture.service.Start(ctx); err == nil {
		t.Fatal("expected invalid schedule error")
	}
}

func TestNotificationServiceNoPhaseNoticeWithoutHistory(t *testing.T) {
	owner := models.User{ID: 1, PartnerEmail: "p@example.com", LastRemindedDate: "2024-03-25"}
	fixture := newNotificationFixture(t, owner)

	if err := fixture.service.CheckUser(context.Background(), owner, mustDate(t, "2024-03-25")); err != nil {
		t.Fatalf("CheckUser() unexpected error: %v", err)
	}
	if len(fixture.notifications.created) != 0 || len(fixture.sender.messages) != 0 {
		t.Fatalf("expected no phase notice before any cycle, got %v", fixture.texts())
	}
	if _, persisted := fixture.users.updates[1]["last_notified_phase"]; persisted {
		t.Fatal("expected no notified phase without history")
	}
}
