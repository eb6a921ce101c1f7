package replay

// #region imports
import (
	"context"

	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region types

// Result captures the outcome of replaying one turn through the pipeline.
type Result struct {
	TurnID      string
	Stage       stage.Stage
	NextStage   stage.Stage
	TriageLevel triage.Level
	Reply       string
	Validation  policy.Result
	Repaired    bool
	Attempts    int
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns  int
	OKTurns     int
	Repaired    int
	Escalations int
	FinalStage  stage.Stage
}

// #endregion types

// #region replay

// Replay iterates through the fixture's turns, applying the full
// pipeline per turn: triage → stage resolution → reply →
// validation. Operates entirely in-memory.
func Replay(ctx context.Context, f *Fixture, classifier *triage.Classifier, orch *orchestrator.Orchestrator) ([]Result, Summary) {
	current := stage.Parse(f.StartStage)
	var history []orchestrator.Message
	results := make([]Result, 0, len(f.Turns))
	summary := Summary{}

	for _, turn := range f.Turns {
		history = append(history, orchestrator.Message{Role: orchestrator.RoleUser, Content: turn.Message})
		userMessages := orchestrator.UserMessages(history)

		decision := classifier.Classify(ctx, userMessages)
		effective := stage.Effective(current, decision.Level, len(userMessages))
		next := stage.Next(current, decision.Level, len(userMessages))
		reply := orch.ProduceReply(ctx, effective, decision.Level, history)

		results = append(results, Result{
			TurnID:      turn.TurnID,
			Stage:       effective,
			NextStage:   next,
			TriageLevel: decision.Level,
			Reply:       reply.Text,
			Validation:  reply.Validation,
			Repaired:    reply.Repaired,
			Attempts:    reply.Attempts,
		})

		summary.TotalTurns++
		if reply.Validation.OK {
			summary.OKTurns++
		}
		if reply.Repaired {
			summary.Repaired++
		}
		if effective == stage.Recommendation && decision.Level != triage.LevelMild {
			summary.Escalations++
		}

		history = append(history, orchestrator.Message{Role: orchestrator.RoleAssistant, Content: reply.Text})
		current = next
	}

	summary.FinalStage = current
	return results, summary
}

// #endregion replay
