package services

import "regexp"

var (
	ovulationPattern = regexp.MustCompile(`(?i)ovulation`)
	periodPattern    = regexp.MustCompile(`(?i)period`)
)

// MaskSensitiveText rewrites phase wording for discreet display. The phase
// vocabulary itself is never changed.
func MaskSensitiveText(text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	masked := ovulationPattern.ReplaceAllString(text, "Peak")
	return periodPattern.ReplaceAllString(masked, "Start")
}

// DisplayPhase returns the localized phase label, masked when enabled.
func DisplayPhase(phase Phase, translator Translator, language string, enabled bool) string {
	return MaskSensitiveText(translator.Translate(language, "phase."+string(phase)), enabled)
}
