// Package stage tracks conversation progress through the fixed
// greeting → clarify → concern → recommendation sequence. Pure functions,
// recomputed from scratch every turn.
package stage

import "github.com/carelane/triage-controller/internal/triage"

// #region stage

// Stage identifies where the conversation is in the triage flow.
type Stage string

const (
	Greeting       Stage = "greeting"
	Clarify        Stage = "clarify"
	Concern        Stage = "concern"
	Recommendation Stage = "recommendation"
)

// Parse returns the stage for s, defaulting to Greeting for anything
// unrecognized or empty.
func Parse(s string) Stage {
	switch Stage(s) {
	case Clarify, Concern, Recommendation:
		return Stage(s)
	default:
		return Greeting
	}
}

// #endregion stage

// #region transitions

// Advance is the linear transition. Recommendation is terminal.
func Advance(current Stage) Stage {
	switch current {
	case Greeting:
		return Clarify
	case Clarify:
		return Concern
	case Concern:
		return Recommendation
	default:
		return Recommendation
	}
}

// Effective applies the emergency override: a conclusive emergency jumps
// straight to recommendation, but never from greeting — a single alarming
// first utterance still gets consent and safety framing before the
// conversation escalates.
func Effective(current Stage, level triage.Level, userMessages int) Stage {
	if level == triage.LevelEmergency && userMessages > 0 && current != Greeting {
		return Recommendation
	}
	return current
}

// Next is the full transition function: the emergency override when it
// applies, otherwise the linear advance.
func Next(current Stage, level triage.Level, userMessages int) Stage {
	if eff := Effective(current, level, userMessages); eff == Recommendation {
		return Recommendation
	}
	return Advance(current)
}

// #endregion transitions
