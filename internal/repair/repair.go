// Package repair deterministically synthesizes policy-compliant replies.
// It is the sole reply source for the early stages and the guaranteed-safe
// fallback when generation fails: a total function with no external
// dependencies and no failure modes, and a fixed point of the validator
// for every stage and triage level.
package repair

import (
	"fmt"
	"strings"

	"github.com/carelane/triage-controller/internal/patterns"
	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #region context

// Context is the per-turn input to the template generator. TriageLevel is
// meaningful only for the recommendation stage.
type Context struct {
	Stage             stage.Stage
	TriageLevel       triage.Level
	LatestUserMessage string
	SymptomContext    string
}

func (c Context) symptomText() string {
	if c.SymptomContext != "" {
		return c.SymptomContext
	}
	return c.LatestUserMessage
}

// #endregion context

// #region response

// Response produces a compliant reply for the given context.
func Response(ctx Context) string {
	switch ctx.Stage {
	case stage.Greeting:
		return greeting()
	case stage.Clarify:
		return clarify(ctx)
	case stage.Concern:
		return concern(ctx)
	case stage.Recommendation:
		return recommendation(ctx)
	}
	return policy.Acknowledgment + ". " + policy.Comfort
}

// #endregion response

// #region stages

func greeting() string {
	return strings.Join([]string{
		"Hi, I'm an AI health assistant.",
		policy.Disclaimer + ".",
		policy.ImmediateDanger,
		policy.TimelineQuestion,
	}, " ")
}

func clarify(ctx Context) string {
	parts := []string{policy.Acknowledgment + "."}
	parts = append(parts, empathyLines(ctx)...)
	parts = append(parts, "Please share any other details that feel important.")
	parts = append(parts, screeningQuestions(ctx.symptomText())...)
	parts = append(parts, policy.Comfort)
	return strings.Join(parts, " ")
}

func concern(ctx Context) string {
	parts := []string{policy.Acknowledgment + "."}
	parts = append(parts, empathyLines(ctx)...)
	parts = append(parts, policy.ConcernQuestion)
	return strings.Join(parts, " ")
}

func recommendation(ctx Context) string {
	if ctx.TriageLevel == triage.LevelMild || ctx.TriageLevel == "" {
		return mildRecommendation(ctx)
	}
	return Escalation(ctx, defaultAssessment(ctx.TriageLevel), DefaultAction(ctx.TriageLevel))
}

// #endregion stages

// #region mild

func mildRecommendation(ctx Context) string {
	symptom := patterns.SymptomLabel(ctx.symptomText())

	lines := []string{policy.Acknowledgment + "."}
	lines = append(lines, empathyLines(ctx)...)
	lines = append(lines,
		policy.Disclaimer+".",
		fmt.Sprintf("Based on what you shared about %s, here are some self-care steps:", symptom),
		"1. Rest, drink water, and keep meals light as you can. "+policy.CheckIn,
		"2. Use comfort measures like a cool or warm compress, depending on what feels better. "+policy.CheckIn,
		"3. Use a pain relief medicine you have used before, like Tylenol or Advil, if it is safe for you. "+policy.CheckIn,
		policy.FollowUp,
		policy.Comfort,
	)
	return strings.Join(lines, "\n")
}

// #endregion mild

// #region escalation

// Escalation assembles the single-action emergency/unclear format around
// an assessment clause and an action sentence. Both are normalized so the
// assembled reply always satisfies the validator; the retry orchestrator
// reuses this with model-produced assessment and action.
func Escalation(ctx Context, assessment, action string) string {
	assessment = strings.TrimRight(strings.TrimSpace(assessment), ".")
	if assessment == "" {
		assessment = policy.DefaultAssessment
	}
	action = strings.TrimRight(strings.TrimSpace(action), ".")
	if action == "" {
		action = strings.TrimRight(DefaultAction(ctx.TriageLevel), ".")
	}

	parts := []string{fmt.Sprintf("%s, %s.", policy.EmergencyLeadIn, assessment)}
	parts = append(parts, policy.Acknowledgment+".")
	parts = append(parts, empathyLines(ctx)...)
	parts = append(parts,
		policy.EscalationPhrase+".",
		fmt.Sprintf("%s: %s. %s", policy.RecommendLeadIn, action, policy.CheckIn),
		policy.FollowUp,
		policy.Disclaimer+".",
		policy.Comfort,
	)
	return strings.Join(parts, " ")
}

// DefaultAction is the deterministic action sentence for a non-mild level.
func DefaultAction(level triage.Level) string {
	if level == triage.LevelUnclear {
		return "Please go to an urgent care or emergency department today."
	}
	return "Please call 911 now or go to the nearest emergency department right away."
}

func defaultAssessment(level triage.Level) string {
	if level == triage.LevelUnclear {
		return "I'm concerned because of your risk factors and I can't safely sort this out remotely"
	}
	return policy.DefaultAssessment
}

// #endregion escalation

// #region empathy

// empathyLines mirrors the validator's empathy requirements exactly.
func empathyLines(ctx Context) []string {
	var lines []string
	if patterns.PainIndicator.MatchString(ctx.LatestUserMessage) {
		lines = append(lines, policy.PainEmpathy)
	}
	if patterns.WorryIndicator.MatchString(ctx.LatestUserMessage) {
		lines = append(lines, policy.WorryEmpathy(patterns.SymptomLabel(ctx.symptomText())))
	}
	return lines
}

// #endregion empathy
