package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/models"
	"github.com/terraincognita07/bloom/internal/security"
)

var (
	ErrPartnerNotFound     = errors.New("partner link not found")
	ErrPartnerNoHistory    = errors.New("partner link has no cycle history")
	ErrPartnerLoadFailed   = errors.New("load partner view failed")
	ErrPartnerUpdateFailed = errors.New("update partner settings failed")
	ErrInvalidPartnerEmail = errors.New("invalid partner email")
	ErrPartnerTokenFailed  = errors.New("issue partner token failed")
)

type PartnerUserRepository interface {
	FindByPartnerToken(ctx context.Context, token string) (models.User, bool, error)
	UpdateByID(ctx context.Context, userID uint, updates map[string]any) error
}

type CycleLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Cycle, error)
}

type PartnerView struct {
	DisplayName     string     `json:"display_name"`
	LastPeriodStart civil.Date `json:"last_period_start"`
	CycleDay        int        `json:"cycle_day"`
	Phase           string     `json:"phase"`
	Tip             string     `json:"tip"`
}

type PartnerService struct {
	users      PartnerUserRepository
	cycles     CycleLister
	translator Translator
	newToken   func() (string, error)
}

func NewPartnerService(users PartnerUserRepository, cycles CycleLister, translator Translator) *PartnerService {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	return &PartnerService{
		users:      users,
		cycles:     cycles,
		translator: translator,
		newToken:   security.NewShareToken,
	}
}

// UpdatePartnerEmail stores the contact used for phase-change delivery.
// An empty address clears it.
func (service *PartnerService) UpdatePartnerEmail(ctx context.Context, userID uint, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email != "" {
		parsed, err := mail.ParseAddress(email)
		if err != nil || parsed.Address != email {
			return "", ErrInvalidPartnerEmail
		}
	}
	if err := service.users.UpdateByID(ctx, userID, map[string]any{"partner_email": email}); err != nil {
		return "", ErrPartnerUpdateFailed
	}
	return email, nil
}

// IssueToken replaces any previous share link.
func (service *PartnerService) IssueToken(ctx context.Context, userID uint) (string, error) {
	token, err := service.newToken()
	if err != nil {
		return "", ErrPartnerTokenFailed
	}
	if err := service.users.UpdateByID(ctx, userID, map[string]any{"partner_token": token}); err != nil {
		return "", ErrPartnerUpdateFailed
	}
	return token, nil
}

func (service *PartnerService) RevokeToken(ctx context.Context, userID uint) error {
	if err := service.users.UpdateByID(ctx, userID, map[string]any{"partner_token": ""}); err != nil {
		return ErrPartnerUpdateFailed
	}
	return nil
}

// ViewByToken exposes only the latest start date and the phase derived
// from it.
func (service *PartnerService) ViewByToken(ctx context.Context, token string, today civil.Date) (PartnerView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PartnerView{}, ErrPartnerNotFound
	}
	owner, found, err := service.users.FindByPartnerToken(ctx, token)
	if err != nil {
		return PartnerView{}, ErrPartnerLoadFailed
	}
	if !found {
		return PartnerView{}, ErrPartnerNotFound
	}

	records, err := service.cycles.ListByUser(ctx, owner.ID)
	if err != nil {
		return PartnerView{}, ErrPartnerLoadFailed
	}
	intervals, _ := ParseCycles(records)
	if len(intervals) == 0 {
		return PartnerView{}, ErrPartnerNoHistory
	}

	lastStart := intervals[len(intervals)-1].Start
	info := PartnerPhase(lastStart, today)
	language := owner.Language
	return PartnerView{
		DisplayName:     owner.DisplayName,
		LastPeriodStart: lastStart,
		CycleDay:        info.CycleDay,
		Phase:           DisplayPhase(info.Phase, service.translator, language, owner.DiscreetMode),
		Tip:             MaskSensitiveText(service.translator.Translate(language, "partner.tip."+string(info.Phase)), owner.DiscreetMode),
	}, nil
}
