// Package replay runs recorded conversations through the full pipeline
// and checks each turn against expected outcomes. Used for regression
// fixtures and offline policy review.
package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string           `json:"description"`
	StartStage      string           `json:"start_stage"`
	Turns           []FixtureTurn    `json:"turns"`
	ExpectedResults []ExpectedResult `json:"expected_results"`
}

// FixtureTurn is one recorded user utterance.
type FixtureTurn struct {
	TurnID  string `json:"turn_id"`
	Message string `json:"message"`
}

// ExpectedResult captures the expected pipeline outcome per turn.
type ExpectedResult struct {
	TurnID       string       `json:"turn_id"`
	Stage        stage.Stage  `json:"stage"`
	NextStage    stage.Stage  `json:"next_stage"`
	TriageLevel  triage.Level `json:"triage_level"`
	ValidationOK bool         `json:"validation_ok"`
	Repaired     bool         `json:"repaired"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks structural invariants before a replay run.
func (f *Fixture) Validate() error {
	if len(f.Turns) == 0 {
		return fmt.Errorf("fixture has no turns")
	}
	seen := make(map[string]bool, len(f.Turns))
	for i, turn := range f.Turns {
		if turn.TurnID == "" {
			return fmt.Errorf("turn %d has empty turn_id", i)
		}
		if seen[turn.TurnID] {
			return fmt.Errorf("duplicate turn_id %q", turn.TurnID)
		}
		seen[turn.TurnID] = true
		if turn.Message == "" {
			return fmt.Errorf("turn %q has empty message", turn.TurnID)
		}
	}
	for _, exp := range f.ExpectedResults {
		if !seen[exp.TurnID] {
			return fmt.Errorf("expected result references unknown turn_id %q", exp.TurnID)
		}
	}
	return nil
}

// Expected returns the expectation for a turn, if one was recorded.
func (f *Fixture) Expected(turnID string) (ExpectedResult, bool) {
	for _, exp := range f.ExpectedResults {
		if exp.TurnID == turnID {
			return exp, true
		}
	}
	return ExpectedResult{}, false
}

// #endregion load

// #region compare

// Matches reports whether a replay result meets the expectation.
func (e ExpectedResult) Matches(r Result) bool {
	return e.Stage == r.Stage &&
		e.NextStage == r.NextStage &&
		e.TriageLevel == r.TriageLevel &&
		e.ValidationOK == r.Validation.OK &&
		e.Repaired == r.Repaired
}

// #endregion compare

// #region export

// FromMessages builds a fixture skeleton out of a raw conversation,
// leaving expected results to be filled in after a reviewed run.
func FromMessages(description string, startStage stage.Stage, messages []orchestrator.Message) Fixture {
	f := Fixture{
		Description: description,
		StartStage:  string(startStage),
	}
	n := 0
	for _, m := range messages {
		if m.Role != orchestrator.RoleUser {
			continue
		}
		n++
		f.Turns = append(f.Turns, FixtureTurn{
			TurnID:  fmt.Sprintf("turn-%d", n),
			Message: m.Content,
		})
	}
	return f
}

// #endregion export
