package stage

import (
	"testing"

	"github.com/carelane/triage-controller/internal/triage"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		current Stage
		want    Stage
	}{
		{Greeting, Clarify},
		{Clarify, Concern},
		{Concern, Recommendation},
		{Recommendation, Recommendation}, // terminal
	}
	for _, tt := range tests {
		if got := Advance(tt.current); got != tt.want {
			t.Errorf("Advance(%s) = %s, want %s", tt.current, got, tt.want)
		}
	}
}

func TestEffectiveEmergencyOverride(t *testing.T) {
	tests := []struct {
		name         string
		current      Stage
		level        triage.Level
		userMessages int
		want         Stage
	}{
		{"clarify-emergency", Clarify, triage.LevelEmergency, 2, Recommendation},
		{"concern-emergency", Concern, triage.LevelEmergency, 3, Recommendation},
		{"greeting-exception", Greeting, triage.LevelEmergency, 1, Greeting},
		{"no-user-messages", Clarify, triage.LevelEmergency, 0, Clarify},
		{"mild-no-override", Clarify, triage.LevelMild, 2, Clarify},
		{"unclear-no-override", Concern, triage.LevelUnclear, 2, Concern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Effective(tt.current, tt.level, tt.userMessages); got != tt.want {
				t.Errorf("Effective(%s, %s, %d) = %s, want %s", tt.current, tt.level, tt.userMessages, got, tt.want)
			}
		})
	}
}

func TestNextMonotonic(t *testing.T) {
	order := map[Stage]int{Greeting: 0, Clarify: 1, Concern: 2, Recommendation: 3}
	levels := []triage.Level{triage.LevelMild, triage.LevelUnclear}
	stages := []Stage{Greeting, Clarify, Concern, Recommendation}

	for _, lvl := range levels {
		for _, st := range stages {
			next := Next(st, lvl, 3)
			if order[next] < order[st] {
				t.Errorf("Next(%s, %s) regressed to %s", st, lvl, next)
			}
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Stage
	}{
		{"greeting", Greeting},
		{"clarify", Clarify},
		{"concern", Concern},
		{"recommendation", Recommendation},
		{"", Greeting},
		{"bogus", Greeting},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
