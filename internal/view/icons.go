package view

import "github.com/agbru/epanalyzer/internal/progress"

// DefaultStepIcon is shown for steps outside the table.
const DefaultStepIcon = "📝"

// ErrorIcon prefixes the error region.
const ErrorIcon = "❌"

var stepIcons = map[progress.Step]string{
	progress.StepStarting:   "🚀",
	progress.StepSearching:  "🔍",
	progress.StepProcessing: "⚙️",
	progress.StepAnalyzing:  "📊",
	progress.StepCombining:  "🔄",
	progress.StepComplete:   "✅",
	progress.StepError:      "❌",
}

// StepIcon returns the icon for a step, or DefaultStepIcon.
func StepIcon(s progress.Step) string {
	if icon, ok := stepIcons[s]; ok {
		return icon
	}
	return DefaultStepIcon
}
