package orchestrator

import (
	"strings"
	"testing"

	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

func TestBuildFeedbackMissingRecommendPhrase(t *testing.T) {
	errs := []string{`Emergency response must include "Here's what I recommend"`}
	valCtx := policy.Context{Stage: stage.Recommendation, TriageLevel: triage.LevelEmergency}

	got := BuildFeedback(errs, valCtx)
	if !strings.Contains(got, "Here's what I recommend") {
		t.Errorf("feedback missing verbatim recommend lead-in: %q", got)
	}
	if !strings.Contains(got, "You MUST include these exact phrases verbatim:") {
		t.Errorf("feedback missing verbatim block: %q", got)
	}
}

func TestBuildFeedbackCarriesExactPhrases(t *testing.T) {
	tests := []struct {
		name     string
		err      string
		verbatim string
	}{
		{"timeline", "Missing exact timeline question", policy.TimelineQuestion},
		{"concern", `Missing exact "What concerns you most about this?" question`, policy.ConcernQuestion},
		{"disclaimer", "Missing in-person examination disclaimer", policy.Disclaimer},
		{"follow-up", "Missing exact follow-up timeframe sentence", policy.FollowUp},
		{"pain empathy", `Missing required pain empathy phrase "That sounds really uncomfortable."`, policy.PainEmpathy},
		{"check-in", `Each numbered recommendation must end with the check-in phrase "How does this sound to you?"`, policy.CheckIn},
		{"escalation", "Emergency response missing escalation safety phrase", policy.EscalationPhrase},
	}
	valCtx := policy.Context{Stage: stage.Recommendation, TriageLevel: triage.LevelMild}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildFeedback([]string{tc.err}, valCtx)
			if !strings.Contains(got, tc.verbatim) {
				t.Errorf("feedback for %q missing verbatim %q: %q", tc.err, tc.verbatim, got)
			}
		})
	}
}

func TestBuildFeedbackWorryEmpathyUsesSymptomLabel(t *testing.T) {
	valCtx := policy.Context{
		Stage:             stage.Recommendation,
		TriageLevel:       triage.LevelMild,
		LatestUserMessage: "I'm worried because I feel really dizzy.",
	}
	got := BuildFeedback([]string{"Missing required worry empathy phrase"}, valCtx)
	want := policy.WorryEmpathy("your dizziness")
	if !strings.Contains(got, want) {
		t.Errorf("feedback = %q, want it to contain %q", got, want)
	}
}

func TestBuildFeedbackDeduplicatesVerbatim(t *testing.T) {
	errs := []string{
		`Missing required acknowledgment phrase "I understand"`,
	}
	valCtx := policy.Context{Stage: stage.Clarify}

	got := BuildFeedback(errs, valCtx)
	// The acknowledgment is named by the error and appended for every
	// non-greeting stage; it must appear once in the verbatim block.
	if n := strings.Count(got, policy.Acknowledgment+"."); n != 1 {
		t.Errorf("acknowledgment appears %d times, want 1: %q", n, got)
	}
	if !strings.Contains(got, "Do not provide recommendations at this stage.") {
		t.Errorf("clarify-stage guidance missing: %q", got)
	}
}

func TestBuildFeedbackLevelGuidance(t *testing.T) {
	mild := BuildFeedback(nil, policy.Context{Stage: stage.Recommendation, TriageLevel: triage.LevelMild})
	if !strings.Contains(mild, "exactly 3 self-care items") {
		t.Errorf("mild guidance missing: %q", mild)
	}
	emergency := BuildFeedback(nil, policy.Context{Stage: stage.Recommendation, TriageLevel: triage.LevelEmergency})
	if !strings.Contains(emergency, "Keep the emergency format") {
		t.Errorf("emergency guidance missing: %q", emergency)
	}
}

func TestBuildAssessmentFeedback(t *testing.T) {
	got := BuildAssessmentFeedback([]string{
		`Contains medical jargon "angina" - use plain language`,
		`Contains banned phrase "don't worry" - use "It's completely understandable that you're concerned" instead`,
	})
	if !strings.Contains(got, "Remove all medical jargon") {
		t.Errorf("jargon fix missing: %q", got)
	}
	if !strings.Contains(got, "Remove banned phrases:") {
		t.Errorf("banned fix missing: %q", got)
	}
	if !strings.Contains(got, "Keep assessment under 20 words.") {
		t.Errorf("length guidance missing: %q", got)
	}
}
