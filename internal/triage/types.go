package triage

import "context"

// #region level

// Level is the coarse urgency classification of a conversation.
type Level string

const (
	LevelMild      Level = "mild"      // self-care
	LevelEmergency Level = "emergency" // immediate danger
	LevelUnclear   Level = "unclear"   // needs evaluation, not life-threatening
)

// #endregion level

// #region decision

// Decision is the triage output for a turn. Produced fresh on every turn
// from the full accumulated user text and never mutated afterwards.
type Decision struct {
	Level         Level
	RedFlags      []string
	HighRisk      []string
	SevereSignals []string
	Reasoning     string
}

// #endregion decision

// #region semantic

// SemanticClassifier is the optional model-backed triage pass. Best-effort:
// any error or malformed payload is discarded by the Classifier, which then
// falls back to the rule tables.
type SemanticClassifier interface {
	Classify(ctx context.Context, conversationText string) (Decision, error)
}

// #endregion semantic
