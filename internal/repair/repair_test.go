package repair

import (
	"strings"
	"testing"

	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// The template generator must be a fixed point of the validator: for every
// stage, triage level, and message context, its output validates cleanly.
func TestResponseIsFixedPointOfValidator(t *testing.T) {
	stages := []stage.Stage{stage.Greeting, stage.Clarify, stage.Concern, stage.Recommendation}
	levels := []triage.Level{"", triage.LevelMild, triage.LevelUnclear, triage.LevelEmergency}
	messages := []string{
		"",
		"I have a headache and it hurts.",
		"I'm worried about my cough.",
		"I feel dizzy and scared, and my chest aches.",
		"My stomach has been upset since yesterday.",
	}

	for _, st := range stages {
		for _, lvl := range levels {
			if st != stage.Recommendation && lvl != "" {
				continue
			}
			for _, msg := range messages {
				ctx := Context{
					Stage:             st,
					TriageLevel:       lvl,
					LatestUserMessage: msg,
					SymptomContext:    msg,
				}
				text := Response(ctx)
				result := policy.Validate(text, policy.Context{
					Stage:             st,
					TriageLevel:       lvl,
					LatestUserMessage: msg,
					SymptomContext:    msg,
				})
				if !result.OK {
					t.Errorf("repair output failed validation for stage=%s level=%s msg=%q: %v\n%s",
						st, lvl, msg, result.Errors, text)
				}
			}
		}
	}
}

func TestGreetingContainsRequiredStrings(t *testing.T) {
	text := Response(Context{Stage: stage.Greeting})
	if !strings.Contains(text, "When did this first start, and has it been getting better, worse, or staying the same?") {
		t.Error("greeting missing timeline question")
	}
	if !strings.Contains(text, policy.Disclaimer) {
		t.Error("greeting missing disclaimer")
	}
	if !strings.Contains(text, policy.ImmediateDanger) {
		t.Error("greeting missing immediate-danger notice")
	}
}

func TestMildRecommendationFormat(t *testing.T) {
	text := Response(Context{
		Stage:             stage.Recommendation,
		TriageLevel:       triage.LevelMild,
		LatestUserMessage: "I've been tired and a bit fatigued for two days.",
		SymptomContext:    "I've been tired and a bit fatigued for two days.",
	})

	numbered := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 1 && trimmed[0] >= '1' && trimmed[0] <= '9' && strings.HasPrefix(trimmed[1:], ". ") {
			numbered++
			if !strings.HasSuffix(trimmed, policy.CheckIn) {
				t.Errorf("numbered line missing check-in: %q", trimmed)
			}
		}
	}
	if numbered != 3 {
		t.Errorf("expected exactly 3 numbered lines, got %d", numbered)
	}
	if !strings.Contains(text, policy.Disclaimer) {
		t.Error("missing disclaimer")
	}
	if !strings.Contains(text, "your fatigue") {
		t.Error("self-care summary not personalized with the detected symptom label")
	}
}

func TestEscalationFormat(t *testing.T) {
	tests := []struct {
		name       string
		level      triage.Level
		wantAction string
	}{
		{"unclear", triage.LevelUnclear, "urgent care or emergency department today"},
		{"emergency", triage.LevelEmergency, "call 911 now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Response(Context{Stage: stage.Recommendation, TriageLevel: tt.level})
			if !strings.HasPrefix(text, policy.EmergencyLeadIn) {
				t.Errorf("escalation must start with the lead-in, got %q", text[:40])
			}
			if !strings.Contains(strings.ToLower(text), tt.wantAction) {
				t.Errorf("expected action %q in %q", tt.wantAction, text)
			}
			if got := strings.Count(text, policy.CheckIn); got != 1 {
				t.Errorf("check-in phrase count = %d, want 1", got)
			}
		})
	}
}

func TestEscalationSanitizesInputs(t *testing.T) {
	text := Escalation(Context{Stage: stage.Recommendation, TriageLevel: triage.LevelEmergency},
		"  this looks serious...  ", "Please call 911 now.")
	if !strings.Contains(text, "Based on what you've told me, this looks serious.") {
		t.Errorf("assessment not normalized: %q", text)
	}
	if !strings.Contains(text, "Here's what I recommend: Please call 911 now. How does this sound to you?") {
		t.Errorf("action not normalized: %q", text)
	}
}

func TestEscalationEmptyAssessmentFallsBack(t *testing.T) {
	text := Escalation(Context{Stage: stage.Recommendation, TriageLevel: triage.LevelEmergency}, "", "")
	if !strings.Contains(text, policy.DefaultAssessment) {
		t.Error("empty assessment should use the default assessment")
	}
	if !strings.Contains(text, "call 911 now") {
		t.Error("empty action should use the default action for the level")
	}
}

func TestScreeningQuestions(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"headache", "a bad headache since monday", "Is this the worst headache you've ever had?"},
		{"chest", "a cough that won't quit", "Are you having any chest pain, pressure, or tightness?"},
		{"stomach", "nausea after every meal", "Are you able to keep fluids down?"},
		{"neuro", "numbness in my hand", "Have you noticed any one-sided weakness or numbness?"},
		{"allergic", "hives on my arms", "Is your face, tongue, or throat swelling?"},
		{"generic-pain", "my knee is sore", "Is the pain severe or getting worse quickly?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := screeningQuestions(tt.context)
			found := false
			for _, q := range qs {
				if q == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q in %v", tt.want, qs)
			}
		})
	}
}

func TestScreeningQuestionsAlwaysIncludeBleeding(t *testing.T) {
	for _, context := range []string{"", "headache", "something unrelated"} {
		qs := screeningQuestions(context)
		last := qs[len(qs)-1]
		if !strings.Contains(last, "severe bleeding") {
			t.Errorf("context %q: expected universal bleeding question last, got %q", context, last)
		}
	}
}

func TestScreeningQuestionsSingleQuestionMark(t *testing.T) {
	for _, q := range screeningQuestions("headache and chest pain and nausea") {
		if !strings.HasSuffix(q, "?") || strings.HasSuffix(q, "??") {
			t.Errorf("question not normalized to a single question mark: %q", q)
		}
	}
}
