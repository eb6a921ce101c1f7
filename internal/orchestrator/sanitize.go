package orchestrator

// #region imports
import (
	"regexp"
	"strings"
)

// #endregion

// #region patterns

// Boilerplate fragments already covered by fixed template lines; a model
// that repeats them inside the assessment or action would duplicate them
// in the assembled reply.
var (
	surroundingQuotes  = regexp.MustCompile(`^"+|"+$`)
	checkInFragment    = regexp.MustCompile(`(?i)How does this sound to you\??`)
	ackFragment        = regexp.MustCompile(`(?i)I understand\.?`)
	leadInFragment     = regexp.MustCompile(`(?i)^Based on what you've told me,?`)
	escalationFragment = regexp.MustCompile(`(?i)This is beyond what I can safely assess remotely\.?`)
	recommendFragment  = regexp.MustCompile(`(?i)Here's what I recommend:?.*`)
	recommendPrefix    = regexp.MustCompile(`(?i)^Here's what I recommend:\s*`)
	whitespaceRuns     = regexp.MustCompile(`\s+`)
	trailingPeriods    = regexp.MustCompile(`\.+$`)
)

// #endregion patterns

// #region sanitize

// SanitizeAssessment strips quoting and template boilerplate from a
// model-produced assessment fragment.
func SanitizeAssessment(text string) string {
	cleaned := surroundingQuotes.ReplaceAllString(strings.TrimSpace(text), "")
	cleaned = checkInFragment.ReplaceAllString(cleaned, "")
	cleaned = ackFragment.ReplaceAllString(cleaned, "")
	cleaned = leadInFragment.ReplaceAllString(strings.TrimSpace(cleaned), "")
	cleaned = escalationFragment.ReplaceAllString(cleaned, "")
	cleaned = recommendFragment.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = trailingPeriods.ReplaceAllString(strings.TrimSpace(cleaned), "")
	return strings.TrimSpace(cleaned)
}

// SanitizeAction strips quoting and the recommend lead-in from a
// model-produced action sentence.
func SanitizeAction(text string) string {
	cleaned := surroundingQuotes.ReplaceAllString(strings.TrimSpace(text), "")
	cleaned = recommendPrefix.ReplaceAllString(strings.TrimSpace(cleaned), "")
	cleaned = checkInFragment.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = trailingPeriods.ReplaceAllString(strings.TrimSpace(cleaned), "")
	return strings.TrimSpace(cleaned)
}

// #endregion sanitize
