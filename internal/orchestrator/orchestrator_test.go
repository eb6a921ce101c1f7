package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carelane/triage-controller/internal/repair"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// scriptedGenerator returns canned responses (or errors) in order and
// records every request it sees.
type scriptedGenerator struct {
	responses []string
	errs      []error
	requests  []Request
}

func (g *scriptedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func validMildDraft() string {
	return repair.Response(repair.Context{
		Stage:       stage.Recommendation,
		TriageLevel: triage.LevelMild,
	})
}

func history(messages ...string) []Message {
	var h []Message
	for _, m := range messages {
		h = append(h, Message{Role: RoleUser, Content: m})
	}
	return h
}

func TestProduceReplyEarlyStagesSkipGenerator(t *testing.T) {
	gen := &scriptedGenerator{}
	o := New(gen, 5)

	for _, st := range []stage.Stage{stage.Greeting, stage.Clarify, stage.Concern} {
		reply := o.ProduceReply(context.Background(), st, triage.LevelMild, history("I have a cough."))
		if !reply.Validation.OK {
			t.Errorf("stage %s: template reply failed validation: %v", st, reply.Validation.Errors)
		}
		if reply.Repaired {
			t.Errorf("stage %s: direct template replies are not marked repaired", st)
		}
	}
	if len(gen.requests) != 0 {
		t.Errorf("generator called %d times for early stages, want 0", len(gen.requests))
	}
}

func TestProduceReplyMildFirstAttemptValid(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validMildDraft()}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelMild, nil)
	if !reply.Validation.OK {
		t.Fatalf("expected ok, got %v", reply.Validation.Errors)
	}
	if reply.Repaired {
		t.Error("valid first attempt must not be marked repaired")
	}
	if reply.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", reply.Attempts)
	}
	if gen.requests[0].Feedback != "" {
		t.Error("first attempt must carry no corrective feedback")
	}
}

func TestProduceReplyMildRetryWithFeedback(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"Here are some tips.", validMildDraft()}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelMild, nil)
	if !reply.Validation.OK {
		t.Fatalf("expected ok after retry, got %v", reply.Validation.Errors)
	}
	if reply.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", reply.Attempts)
	}

	feedback := gen.requests[1].Feedback
	if feedback == "" {
		t.Fatal("retry must carry corrective feedback")
	}
	// Feedback carries the exact missing strings verbatim.
	if !strings.Contains(feedback, "I can provide guidance, but I cannot replace an in-person examination") {
		t.Errorf("feedback missing verbatim disclaimer: %q", feedback)
	}
	if !strings.Contains(feedback, "Do not paraphrase the verbatim phrases.") {
		t.Errorf("feedback missing do-not-paraphrase directive: %q", feedback)
	}
}

func TestProduceReplyMildExhaustedFallsBack(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"bad", "bad", "bad"}}
	o := New(gen, 3)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelMild, nil)
	if !reply.Repaired {
		t.Error("exhausted retries must fall back to the repair template")
	}
	if !reply.Validation.OK {
		t.Errorf("fallback reply must validate, got %v", reply.Validation.Errors)
	}
	if reply.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", reply.Attempts)
	}
}

func TestProduceReplyGeneratorErrorFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("rate limited")}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelMild, nil)
	if !reply.Repaired {
		t.Error("generator error must trigger the repair fallback")
	}
	if !reply.Validation.OK {
		t.Errorf("fallback reply must validate, got %v", reply.Validation.Errors)
	}
	if reply.GeneratorErr != "rate limited" {
		t.Errorf("generator error not surfaced: %q", reply.GeneratorErr)
	}
}

func TestProduceReplyEscalationStructured(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"assessment": "these symptoms point to something serious", "action": "call 911 now"}`,
	}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelEmergency,
		history("I have chest pain and trouble breathing."))
	if !reply.Validation.OK {
		t.Fatalf("expected ok, got %v", reply.Validation.Errors)
	}
	if reply.Repaired {
		t.Error("structured reply accepted, must not be marked repaired")
	}
	if !strings.Contains(reply.Text, "Here's what I recommend: call 911 now.") {
		t.Errorf("model action not used: %q", reply.Text)
	}
	if reply.EmergencyAction != "Call 911 now or go to the nearest emergency department." {
		t.Errorf("emergencyAction = %q", reply.EmergencyAction)
	}
	if gen.requests[0].Format != FormatAssessmentAction {
		t.Error("escalation flow must request the assessment_action format")
	}
}

func TestProduceReplyEscalationParseFailure(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`"These symptoms look dangerous."`}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelUnclear,
		history("I am pregnant and feeling lightheaded."))
	if !reply.Validation.OK {
		t.Fatalf("expected ok via sanitize-and-default, got %v", reply.Validation.Errors)
	}
	if !strings.Contains(reply.Text, "These symptoms look dangerous") {
		t.Errorf("sanitized raw text not used as assessment: %q", reply.Text)
	}
	// Unparseable output substitutes the deterministic action for the level.
	if !strings.Contains(reply.Text, "Go to urgent care or an emergency department today") {
		t.Errorf("default unclear action not substituted: %q", reply.Text)
	}
	if reply.EmergencyAction != "Go to urgent care or an emergency department today." {
		t.Errorf("emergencyAction = %q", reply.EmergencyAction)
	}
}

func TestProduceReplyEscalationRetriesOnJargon(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"assessment": "this could be angina", "action": "call 911 now"}`,
		`{"assessment": "this could be a serious heart problem", "action": "call 911 now"}`,
	}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelEmergency,
		history("My chest feels tight."))
	if !reply.Validation.OK {
		t.Fatalf("expected ok on second attempt, got %v", reply.Validation.Errors)
	}
	if reply.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", reply.Attempts)
	}
	if !strings.Contains(gen.requests[1].Feedback, "Remove all medical jargon") {
		t.Errorf("assessment feedback missing jargon fix: %q", gen.requests[1].Feedback)
	}
}

func TestProduceReplyEscalationErrorFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("backend down")}}
	o := New(gen, 5)

	reply := o.ProduceReply(context.Background(), stage.Recommendation, triage.LevelEmergency,
		history("severe bleeding that won't stop"))
	if !reply.Repaired {
		t.Error("generator failure must fall back to the template")
	}
	if !reply.Validation.OK {
		t.Errorf("fallback must validate, got %v", reply.Validation.Errors)
	}
	if reply.EmergencyAction == "" {
		t.Error("emergencyAction must survive the fallback path")
	}
}

func TestUserMessages(t *testing.T) {
	h := []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
	}
	got := UserMessages(h)
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("UserMessages = %v", got)
	}
	if latestUserMessage(h) != "second" {
		t.Errorf("latestUserMessage = %q", latestUserMessage(h))
	}
}
