package policy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carelane/triage-controller/internal/patterns"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #region types

// Context carries everything the validator needs to judge a candidate.
// TriageLevel is set only for the recommendation stage.
type Context struct {
	Stage             stage.Stage
	TriageLevel       triage.Level
	LatestUserMessage string
	SymptomContext    string
}

// Result is the validation outcome. OK is true iff Errors is empty;
// Warnings never block acceptance.
type Result struct {
	OK       bool
	Errors   []string
	Warnings []string
}

// #endregion types

// #region line-patterns

var (
	numberedLine = regexp.MustCompile(`(?m)^\d+\.\s.*$`)
	followUpLine = regexp.MustCompile(`(?i)if this isn't improving in \d+ days?, please contact`)
)

// #endregion line-patterns

// #region validate

// Validate checks a candidate reply against the phrase/format contract for
// the given stage and triage level.
func Validate(candidate string, ctx Context) Result {
	var errs []string
	var warnings []string

	// Universal checks.
	for _, banned := range patterns.BannedPhrases {
		if banned.Matches(candidate) {
			errs = append(errs, fmt.Sprintf("Contains banned phrase %q - use %q instead", banned.Phrase, banned.Replacement))
		}
	}
	for _, jargon := range patterns.JargonTerms {
		if jargon.Pattern.MatchString(candidate) {
			errs = append(errs, fmt.Sprintf("Contains medical jargon %q - use plain language", jargon.ID))
		}
	}

	if ctx.Stage != stage.Greeting {
		if !strings.Contains(candidate, Acknowledgment) {
			errs = append(errs, `Missing required acknowledgment phrase "I understand"`)
		}
		errs = append(errs, empathyErrors(candidate, ctx, &warnings)...)
	}

	// Stage-specific checks.
	switch ctx.Stage {
	case stage.Greeting:
		if !strings.Contains(candidate, TimelineQuestion) {
			errs = append(errs, "Missing exact timeline question")
		}
		if !strings.Contains(candidate, Disclaimer) {
			errs = append(errs, "Missing in-person examination disclaimer")
		}
	case stage.Concern:
		if !strings.Contains(candidate, ConcernQuestion) {
			errs = append(errs, `Missing exact "What concerns you most about this?" question`)
		}
	case stage.Recommendation:
		errs = append(errs, recommendationErrors(candidate, ctx, &warnings)...)
	}

	return Result{OK: len(errs) == 0, Errors: errs, Warnings: warnings}
}

// #endregion validate

// #region empathy

// empathyErrors enforces the pain and worry empathy sentences when the
// latest user message signals them. A worry sentence that names the wrong
// symptom is a mismatch error, not merely missing.
func empathyErrors(candidate string, ctx Context, warnings *[]string) []string {
	var errs []string

	if patterns.PainIndicator.MatchString(ctx.LatestUserMessage) {
		if !strings.Contains(candidate, PainEmpathy) {
			errs = append(errs, `Missing required pain empathy phrase "That sounds really uncomfortable."`)
		}
	}

	if patterns.WorryIndicator.MatchString(ctx.LatestUserMessage) {
		label := symptomLabelFor(ctx)
		want := WorryEmpathy(label)
		switch {
		case strings.Contains(candidate, want):
			// exact sentence present
		case !strings.Contains(candidate, WorryEmpathyPrefix):
			errs = append(errs, "Missing required worry empathy phrase")
		case label != patterns.DefaultSymptomLabel:
			errs = append(errs, fmt.Sprintf("Worry empathy phrase must reference the specific symptom (%s)", label))
		default:
			*warnings = append(*warnings, "Worry empathy phrase names a symptom the conversation did not surface")
		}
	}

	return errs
}

// symptomLabelFor derives the symptom label from the accumulated context,
// falling back to the latest message. The repair generator uses the same
// rule so template output always matches.
func symptomLabelFor(ctx Context) string {
	text := ctx.SymptomContext
	if text == "" {
		text = ctx.LatestUserMessage
	}
	return patterns.SymptomLabel(text)
}

// #endregion empathy

// #region recommendation

func recommendationErrors(candidate string, ctx Context, warnings *[]string) []string {
	var errs []string

	if !strings.Contains(candidate, Disclaimer) {
		errs = append(errs, "Missing in-person examination disclaimer")
	}
	if !followUpLine.MatchString(candidate) {
		errs = append(errs, "Missing exact follow-up timeframe sentence")
	}

	if ctx.TriageLevel == triage.LevelMild {
		errs = append(errs, mildFormatErrors(candidate)...)
	} else if ctx.TriageLevel != "" {
		errs = append(errs, escalationFormatErrors(candidate)...)
	}

	if !strings.Contains(candidate, Comfort) {
		*warnings = append(*warnings, `Missing closing reassurance line "Let's work through this together."`)
	}

	return errs
}

// mildFormatErrors enforces exactly three numbered self-care lines, each
// ending with the check-in phrase.
func mildFormatErrors(candidate string) []string {
	var errs []string

	lines := numberedLine.FindAllString(candidate, -1)
	if len(lines) != 3 {
		errs = append(errs, fmt.Sprintf("Mild response must include exactly 3 numbered recommendations, found %d", len(lines)))
	}
	for _, line := range lines {
		if !strings.HasSuffix(strings.TrimSpace(line), CheckIn) {
			errs = append(errs, `Each numbered recommendation must end with the check-in phrase "How does this sound to you?"`)
			break
		}
	}
	return errs
}

// escalationFormatErrors enforces the single-action emergency format.
func escalationFormatErrors(candidate string) []string {
	var errs []string

	if !strings.HasPrefix(strings.TrimSpace(candidate), EmergencyLeadIn) {
		errs = append(errs, `Emergency response must start with "Based on what you've told me"`)
	}
	if !strings.Contains(candidate, EscalationPhrase) {
		errs = append(errs, `Emergency response missing escalation safety phrase "This is beyond what I can safely assess remotely"`)
	}
	if !strings.Contains(candidate, RecommendLeadIn) {
		errs = append(errs, `Emergency response must include "Here's what I recommend"`)
	}
	if strings.Count(candidate, CheckIn) != 1 {
		errs = append(errs, `Emergency response must end recommendation with a single check-in phrase "How does this sound to you?"`)
	}
	if lines := numberedLine.FindAllString(candidate, -1); len(lines) > 1 {
		errs = append(errs, fmt.Sprintf("Emergency response must include at most one numbered recommendation, found %d", len(lines)))
	}
	return errs
}

// #endregion recommendation
