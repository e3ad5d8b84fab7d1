package services

import (
	"context"
	"fmt"
	"strings"
)

// Prompt is what the user sees before a mutation is applied.
type Prompt struct {
	Title        string `json:"title"`
	Message      string `json:"message"`
	ConfirmLabel string `json:"confirm_label"`
}

// Confirmer decides whether a prompted mutation goes ahead. Declining is
// not an error.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt Prompt) (bool, error)

func (fn ConfirmFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return fn(ctx, prompt)
}

// Translator renders catalog messages; *i18n.Manager satisfies it.
type Translator interface {
	Translate(language string, key string) string
}

type fallbackTranslator struct{}

func (fallbackTranslator) Translate(_ string, key string) string {
	return key
}

func promptKeyPrefix(action ToggleAction) string {
	switch action.Kind {
	case ToggleDelete:
		if action.WholeRange {
			return "toggle.delete_range"
		}
		return "toggle.delete_single"
	case ToggleShrink:
		return "toggle.shrink"
	case ToggleMerge:
		return "toggle.merge"
	case ToggleExtend:
		return "toggle.extend"
	case ToggleRetractStart:
		return "toggle.retract_start"
	default:
		return "toggle.insert"
	}
}

func BuildTogglePrompt(action ToggleAction, translator Translator, language string) Prompt {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	prefix := promptKeyPrefix(action)
	return Prompt{
		Title:        translator.Translate(language, prefix+".title"),
		Message:      formatPromptMessage(translator.Translate(language, prefix+".message"), action.Date.String()),
		ConfirmLabel: translator.Translate(language, prefix+".confirm"),
	}
}

func BuildResetMonthPrompt(monthLabel string, translator Translator, language string) Prompt {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	return Prompt{
		Title:        formatPromptMessage(translator.Translate(language, "reset_month.title"), monthLabel),
		Message:      translator.Translate(language, "reset_month.message"),
		ConfirmLabel: translator.Translate(language, "reset_month.confirm"),
	}
}

func BuildClearDataPrompt(translator Translator, language string) Prompt {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	return Prompt{
		Title:        translator.Translate(language, "clear_data.title"),
		Message:      translator.Translate(language, "clear_data.message"),
		ConfirmLabel: translator.Translate(language, "clear_data.confirm"),
	}
}

// formatPromptMessage substitutes the single %s placeholder when the
// template carries one.
func formatPromptMessage(template string, value string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, value)
}
