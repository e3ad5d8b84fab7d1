package models

// Suggested labels offered by the day editor. Logs accept any label.
func DefaultMoodLabels() []string {
	return []string{"Happy", "Calm", "Irritable", "Sad", "Anxious", "Energetic"}
}

func DefaultSymptomLabels() []string {
	return []string{"Cramps", "Headache", "Bloating", "Acne", "Fatigue", "Cravings"}
}

func CervicalMucusLabels() []string {
	return []string{"Dry", "Sticky", "Creamy", "Watery", "Eggwhite"}
}

func LHTestLabels() []string {
	return []string{LHTestNegative, LHTestPositive, LHTestPeak}
}
