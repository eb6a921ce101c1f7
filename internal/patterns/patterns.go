// Package patterns holds the canonical detection rule tables as data so
// they can be audited and tested independently of the code that evaluates
// them. All matching is case-insensitive and whole-phrase.
package patterns

import "regexp"

// #region critical

// CriticalEmergencyPatterns are compound conditions that, if any matches
// the full conversation text, are an absolute trigger for emergency
// triage. Checked first, before any model call, and never overridable.
var CriticalEmergencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)chest (pain|pressure|tightness).*(shortness of breath|trouble breathing|can't breathe|sweating|faint|passed out)`),
	regexp.MustCompile(`(?i)(difficulty breathing|trouble breathing|can't breathe).*(blue lips|lips are blue)`),
	regexp.MustCompile(`(?i)(new confusion|confused suddenly|sudden confusion).*(trouble speaking|slurred speech|one[- ]sided weakness)`),
	regexp.MustCompile(`(?i)swollen (face|tongue).*(trouble breathing|can't breathe)`),
	regexp.MustCompile(`(?i)severe bleeding|bleeding heavily|won't stop bleeding`),
	regexp.MustCompile(`(?i)seizure|convulsions`),
	regexp.MustCompile(`(?i)(worst headache of (my|your) life|worst headache ever).*(neck stiffness|stiff neck|confused|confusion)`),
}

// CriticalEmergencyFlag is the red-flag id reported when any critical
// pattern matches.
const CriticalEmergencyFlag = "critical_emergency_pattern"

// MatchesCriticalEmergency reports whether any critical pattern matches.
func MatchesCriticalEmergency(text string) bool {
	for _, p := range CriticalEmergencyPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// #endregion critical

// #region red-flags

// RedFlagRule is a conjunction of sub-patterns: with two patterns both
// must match, with three all three must match.
type RedFlagRule struct {
	ID       string
	Patterns []*regexp.Regexp
}

var RedFlagRules = []RedFlagRule{
	{
		ID: "breathing_distress",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)difficulty breathing|trouble breathing|can't breathe|breathing is hard`),
			regexp.MustCompile(`(?i)blue lips|lips are blue`),
			regexp.MustCompile(`(?i)severe wheezing|wheezing a lot|wheezing badly`),
		},
	},
	{
		ID: "stroke_like",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)new confusion|confused suddenly|sudden confusion`),
			regexp.MustCompile(`(?i)trouble speaking|slurred speech|can't speak clearly`),
			regexp.MustCompile(`(?i)one[- ]sided weakness|face drooping|arm weakness`),
		},
	},
	{
		ID: "severe_allergic_reaction",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)swollen face|face swelling|swelling of face`),
			regexp.MustCompile(`(?i)swollen tongue|tongue swelling`),
			regexp.MustCompile(`(?i)trouble breathing|difficulty breathing|can't breathe`),
		},
	},
	{
		ID: "severe_bleeding_or_seizure",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)severe bleeding|bleeding heavily|won't stop bleeding`),
			regexp.MustCompile(`(?i)passing out|passed out|fainted`),
			regexp.MustCompile(`(?i)seizure|convulsions`),
		},
	},
	{
		ID: "worst_headache_with_neck",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)worst headache of (my|your) life|worst headache ever`),
			regexp.MustCompile(`(?i)neck stiffness|stiff neck|neck feels stiff|neck is stiff|confused|confusion`),
		},
	},
}

// Matches evaluates the conjunction against the given text.
func (r RedFlagRule) Matches(text string) bool {
	for _, p := range r.Patterns {
		if !p.MatchString(text) {
			return false
		}
	}
	return true
}

// #endregion red-flags

// #region signals

// SignalPattern is a single named pattern.
type SignalPattern struct {
	ID      string
	Pattern *regexp.Regexp
}

// HighRiskPatterns mark patient characteristics that lower the threshold
// for caution without themselves being emergency signals.
var HighRiskPatterns = []SignalPattern{
	{ID: "pregnant", Pattern: regexp.MustCompile(`(?i)\b(pregnant|pregnancy)\b`)},
	{ID: "infant", Pattern: regexp.MustCompile(`(?i)\b(newborn|infant|baby|two month|2 month|three month|3 month)\b`)},
	{ID: "immunocompromised", Pattern: regexp.MustCompile(`(?i)\b(immunocompromised|chemo|transplant|hiv)\b`)},
}

// SevereSignalPatterns mark acute severity in the patient's own wording.
var SevereSignalPatterns = []SignalPattern{
	{ID: "severe", Pattern: regexp.MustCompile(`(?i)\bsevere\b`)},
	{ID: "rapid_worsening", Pattern: regexp.MustCompile(`(?i)\b(rapidly worsening|getting worse fast|worse quickly)\b`)},
	{ID: "sudden_worse", Pattern: regexp.MustCompile(`(?i)\b(sudden|suddenly worse)\b`)},
	{ID: SignalCannotFunction, Pattern: regexp.MustCompile(`(?i)\b(can't function|can't move|can't stay awake)\b`)},
	{ID: SignalBrokenBone, Pattern: regexp.MustCompile(`(?i)\b(broke|broken|fracture|fractured|dislocated)\b`)},
}

// SignalBrokenBone is tracked separately: broken bones need evaluation but
// are not life-threatening on their own.
const (
	SignalBrokenBone     = "broken_bone"
	SignalCannotFunction = "can_not_function"
)

// BrokenBoneSignal matches broken-bone wording in raw conversation text or
// in signal names returned by the semantic classifier.
var BrokenBoneSignal = regexp.MustCompile(`(?i)\b(broke|broken|fracture|fractured|dislocat\w*)\b`)

// #endregion signals

// #region chest-compound

// Sub-patterns for the explicit chest-pain-with-distress compound rule.
var (
	ChestSymptom     = regexp.MustCompile(`(?i)chest (pain|pressure|tightness)`)
	BreathingTrouble = regexp.MustCompile(`(?i)shortness of breath|trouble breathing|difficulty breathing|can't breathe`)
	Sweating         = regexp.MustCompile(`(?i)sweating|cold sweat|clammy`)
	Fainting         = regexp.MustCompile(`(?i)faint|passed out|blackout`)
)

// ChestPainCompoundFlag is reported when chest symptoms co-occur with
// breathing trouble, sweating, or fainting.
const ChestPainCompoundFlag = "chest_pain_with_red_flags"

// #endregion chest-compound
