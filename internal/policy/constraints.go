// Package policy holds the process-wide phrase contract and the response
// validator that enforces it. Constants are initialized once and never
// mutated; concurrent reads across turns are safe.
package policy

import "github.com/carelane/triage-controller/internal/triage"

// #region constraints

// Exact phrases the assistant must reproduce verbatim. These are the
// single source of truth shared by the validator, the feedback builder,
// the repair generator, and the generator prompts.
const (
	TimelineQuestion = "When did this first start, and has it been getting better, worse, or staying the same?"
	ConcernQuestion  = "What concerns you most about this?"
	Disclaimer       = "I can provide guidance, but I cannot replace an in-person examination"
	Acknowledgment   = "I understand"
	PainEmpathy      = "That sounds really uncomfortable."
	CheckIn          = "How does this sound to you?"
	EmergencyLeadIn  = "Based on what you've told me"
	EscalationPhrase = "This is beyond what I can safely assess remotely"
	RecommendLeadIn  = "Here's what I recommend"
	FollowUp         = "If this isn't improving in 3 days, please contact a local clinic or urgent care."
	ImmediateDanger  = "If you think you are in immediate danger, please call 911 now."
	Comfort          = "Let's work through this together."
)

// WorryEmpathyPrefix starts the worry empathy sentence; the detected
// symptom label and a period complete it.
const WorryEmpathyPrefix = "It's completely understandable that you're concerned about "

// WorryEmpathy builds the full worry empathy sentence for a symptom label.
func WorryEmpathy(symptomLabel string) string {
	return WorryEmpathyPrefix + symptomLabel + "."
}

// DefaultAssessment substitutes for an empty or unusable model assessment.
const DefaultAssessment = "these symptoms could be serious and need urgent evaluation"

// #endregion constraints

// #region emergency-action

// EmergencyAction is the deterministic action sentence surfaced to the
// caller alongside any non-mild recommendation.
func EmergencyAction(level triage.Level) string {
	if level == triage.LevelUnclear {
		return "Go to urgent care or an emergency department today."
	}
	return "Call 911 now or go to the nearest emergency department."
}

// #endregion emergency-action
