// Package orchestrator drives generation attempts against the policy
// validator. The retry loop is explicit state (attempt counter, last
// validation), strictly sequential, and bounded; when attempts exhaust or
// the generator errors, the deterministic repair template takes over so
// the user always receives a compliant reply.
package orchestrator

// #region imports
import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/repair"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region constants

// DefaultMaxAttempts bounds worst-case latency and cost per turn.
const DefaultMaxAttempts = 5

// #endregion

// #region orchestrator

// Orchestrator coordinates the generator, the validator, the feedback
// builder, and the repair fallback for one turn at a time. Safe for
// concurrent use: it holds no per-turn state.
type Orchestrator struct {
	gen         Generator
	maxAttempts int
}

// New creates an orchestrator. maxAttempts <= 0 selects the default.
func New(gen Generator, maxAttempts int) *Orchestrator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Orchestrator{gen: gen, maxAttempts: maxAttempts}
}

// #endregion orchestrator

// #region produce-reply

// ProduceReply produces the turn's reply for the effective stage. The
// early stages never touch the generator; recommendation replies go
// through the bounded retry loop with the repair template as terminal
// fallback.
func (o *Orchestrator) ProduceReply(ctx context.Context, st stage.Stage, level triage.Level, history []Message) Reply {
	latest := latestUserMessage(history)
	symptomContext := joinUserMessages(history)

	if st != stage.Recommendation {
		level = "" // triage level only shapes recommendation replies
	}

	repairCtx := repair.Context{
		Stage:             st,
		TriageLevel:       level,
		LatestUserMessage: latest,
		SymptomContext:    symptomContext,
	}
	valCtx := policy.Context{
		Stage:             st,
		TriageLevel:       level,
		LatestUserMessage: latest,
		SymptomContext:    symptomContext,
	}

	if st != stage.Recommendation {
		text := repair.Response(repairCtx)
		return Reply{Text: text, Validation: policy.Validate(text, valCtx)}
	}

	var reply Reply
	if level == triage.LevelMild || level == "" {
		reply = o.mildLoop(ctx, level, history, latest, repairCtx, valCtx)
	} else {
		reply = o.escalationLoop(ctx, level, history, latest, repairCtx, valCtx)
		reply.EmergencyAction = policy.EmergencyAction(level)
	}
	return reply
}

// #endregion produce-reply

// #region mild-loop

func (o *Orchestrator) mildLoop(ctx context.Context, level triage.Level, history []Message, latest string, repairCtx repair.Context, valCtx policy.Context) Reply {
	var lastValidation policy.Result
	var genErr string

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		var feedback string
		if attempt > 0 {
			feedback = BuildFeedback(lastValidation.Errors, valCtx)
		}

		draft, err := o.gen.Generate(ctx, Request{
			Messages:          history,
			Stage:             stage.Recommendation,
			TriageLevel:       level,
			LatestUserMessage: latest,
			Feedback:          feedback,
		})
		if err != nil {
			genErr = err.Error()
			log.Printf("[ORCH] generator error on attempt %d: %v", attempt, err)
			return o.fallback(repairCtx, valCtx, attempt+1, genErr)
		}

		lastValidation = policy.Validate(draft, valCtx)
		log.Printf("[ORCH] attempt %d: ok=%v errors=%d", attempt, lastValidation.OK, len(lastValidation.Errors))
		if lastValidation.OK {
			return Reply{Text: draft, Validation: lastValidation, Attempts: attempt + 1}
		}
	}

	log.Printf("[ORCH] attempts exhausted, falling back to template")
	return o.fallback(repairCtx, valCtx, o.maxAttempts, genErr)
}

// #endregion mild-loop

// #region escalation-loop

// escalationLoop requests the structured {assessment, action} format,
// sanitizes whatever comes back, and assembles the fixed escalation
// template around it. Unparseable output degrades to the deterministic
// default action rather than failing the turn.
func (o *Orchestrator) escalationLoop(ctx context.Context, level triage.Level, history []Message, latest string, repairCtx repair.Context, valCtx policy.Context) Reply {
	var lastValidation policy.Result

	for attempt := 0; attempt < o.maxAttempts; attempt++ {
		var feedback string
		if attempt > 0 {
			feedback = BuildAssessmentFeedback(lastValidation.Errors)
		}

		raw, err := o.gen.Generate(ctx, Request{
			Messages:          history,
			Stage:             stage.Recommendation,
			TriageLevel:       level,
			LatestUserMessage: latest,
			Feedback:          feedback,
			Format:            FormatAssessmentAction,
		})
		if err != nil {
			log.Printf("[ORCH] generator error on attempt %d: %v", attempt, err)
			return o.fallback(repairCtx, valCtx, attempt+1, err.Error())
		}

		assessment, action := parseAssessmentAction(raw, level)
		text := repair.Escalation(repairCtx, assessment, action)

		lastValidation = policy.Validate(text, valCtx)
		log.Printf("[ORCH] escalation attempt %d: ok=%v errors=%d", attempt, lastValidation.OK, len(lastValidation.Errors))
		if lastValidation.OK {
			return Reply{Text: text, Validation: lastValidation, Attempts: attempt + 1}
		}
	}

	log.Printf("[ORCH] escalation attempts exhausted, falling back to template")
	return o.fallback(repairCtx, valCtx, o.maxAttempts, "")
}

// parseAssessmentAction extracts the structured reply, sanitizing both
// fields. Parse failures keep the sanitized raw text as assessment and
// substitute the deterministic default action for the level.
func parseAssessmentAction(raw string, level triage.Level) (string, string) {
	defaultAction := SanitizeAction(policy.EmergencyAction(level))

	var parsed assessmentAction
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return SanitizeAssessment(raw), defaultAction
	}

	assessment := SanitizeAssessment(parsed.Assessment)
	if assessment == "" {
		assessment = SanitizeAssessment(raw)
	}
	action := SanitizeAction(parsed.Action)
	if action == "" {
		action = defaultAction
	}
	return assessment, action
}

// #endregion escalation-loop

// #region fallback

func (o *Orchestrator) fallback(repairCtx repair.Context, valCtx policy.Context, attempts int, genErr string) Reply {
	text := repair.Response(repairCtx)
	return Reply{
		Text:         text,
		Validation:   policy.Validate(text, valCtx),
		Repaired:     true,
		Attempts:     attempts,
		GeneratorErr: genErr,
	}
}

// #endregion fallback

// #region history-helpers

func latestUserMessage(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func joinUserMessages(history []Message) string {
	var parts []string
	for _, m := range history {
		if m.Role == RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, " ")
}

// UserMessages extracts the ordered user-message contents for triage.
func UserMessages(history []Message) []string {
	var out []string
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, m.Content)
		}
	}
	return out
}

// #endregion history-helpers
