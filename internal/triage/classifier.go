// Package triage classifies accumulated user text into a triage level.
// The critical-pattern safety net runs first and cannot be overridden;
// the optional semantic pass is best-effort; the rule tables are the
// deterministic fallback. Classification never fails a turn.
package triage

import (
	"context"
	"log"
	"strings"

	"github.com/carelane/triage-controller/internal/patterns"
)

// #region classifier

// Classifier produces a Decision for a conversation. semantic may be nil.
type Classifier struct {
	semantic SemanticClassifier
}

// NewClassifier creates a classifier. Pass nil to run rules-only.
func NewClassifier(semantic SemanticClassifier) *Classifier {
	return &Classifier{semantic: semantic}
}

// #endregion classifier

// #region classify

// Classify is a total function over user message sequences: it always
// returns a Decision and never raises.
func (c *Classifier) Classify(ctx context.Context, userMessages []string) Decision {
	conversation := strings.Join(userMessages, " ")

	// Safety net: critical patterns short-circuit everything else.
	if patterns.MatchesCriticalEmergency(conversation) {
		return Decision{
			Level:         LevelEmergency,
			RedFlags:      []string{patterns.CriticalEmergencyFlag},
			HighRisk:      []string{},
			SevereSignals: []string{},
			Reasoning:     "Critical emergency pattern detected - immediate escalation required",
		}
	}

	// Optional semantic pass.
	if c.semantic != nil {
		decision, err := c.semantic.Classify(ctx, conversation)
		if err == nil {
			return clampBrokenBone(decision, conversation)
		}
		log.Printf("[TRIAGE] semantic classifier unavailable, using rules: %v", err)
	}

	return ruleBased(conversation)
}

// #endregion classify

// #region broken-bone-clamp

// clampBrokenBone downgrades a semantic emergency to unclear when the only
// driver is a broken bone, fracture, or dislocation: those need evaluation,
// not a life-threatening escalation.
func clampBrokenBone(d Decision, conversation string) Decision {
	if d.Level != LevelEmergency {
		return d
	}
	hasBrokenBone := patterns.BrokenBoneSignal.MatchString(conversation)
	for _, s := range d.SevereSignals {
		if patterns.BrokenBoneSignal.MatchString(s) {
			hasBrokenBone = true
		}
	}
	if hasBrokenBone {
		d.Level = LevelUnclear
	}
	return d
}

// #endregion broken-bone-clamp

// #region rule-based

// ruleBased evaluates the red-flag conjunctions and signal tables.
func ruleBased(conversation string) Decision {
	joined := strings.ToLower(conversation)

	redFlags := []string{}
	highRisk := []string{}
	severeSignals := []string{}

	hasChest := patterns.ChestSymptom.MatchString(joined)
	hasBreathing := patterns.BreathingTrouble.MatchString(joined)
	hasSweating := patterns.Sweating.MatchString(joined)
	hasFainting := patterns.Fainting.MatchString(joined)

	if hasChest && (hasBreathing || hasSweating || hasFainting) {
		redFlags = append(redFlags, patterns.ChestPainCompoundFlag)
	}

	for _, rule := range patterns.RedFlagRules {
		if rule.Matches(joined) {
			redFlags = append(redFlags, rule.ID)
		}
	}

	for _, risk := range patterns.HighRiskPatterns {
		if risk.Pattern.MatchString(joined) {
			highRisk = append(highRisk, risk.ID)
		}
	}

	for _, signal := range patterns.SevereSignalPatterns {
		if signal.Pattern.MatchString(joined) {
			severeSignals = append(severeSignals, signal.ID)
		}
	}

	// Broken bones are tracked separately: they need medical attention but
	// go through the normal flow as unclear rather than emergency.
	hasBrokenBone := false
	otherSevere := 0
	for _, s := range severeSignals {
		if s == patterns.SignalBrokenBone {
			hasBrokenBone = true
		} else {
			otherSevere++
		}
	}

	decision := Decision{
		RedFlags:      redFlags,
		HighRisk:      highRisk,
		SevereSignals: severeSignals,
	}

	switch {
	case len(redFlags) > 0 || otherSevere > 0:
		decision.Level = LevelEmergency
	case hasBrokenBone:
		decision.Level = LevelUnclear
	case len(highRisk) > 0:
		decision.Level = LevelUnclear
	default:
		decision.Level = LevelMild
	}
	return decision
}

// #endregion rule-based
