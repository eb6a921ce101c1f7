package orchestrator

// #region imports
import (
	"context"

	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region message

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the caller-owned conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// #endregion message

// #region generator

// ResponseFormat selects the generator's output shape.
type ResponseFormat string

// FormatAssessmentAction requests a two-field JSON object
// {assessment, action} for the escalation sub-flow.
const FormatAssessmentAction ResponseFormat = "assessment_action"

// Request is the full instruction context for one generation attempt.
type Request struct {
	Messages          []Message
	Stage             stage.Stage
	TriageLevel       triage.Level
	LatestUserMessage string
	Feedback          string
	Format            ResponseFormat
}

// Generator is the external text-generation capability. It has no memory
// between calls (history is resent each time) and may fail; failures are
// recovered locally, never surfaced as a fatal turn error.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// #endregion generator

// #region reply

// Reply is the orchestrator's output for one turn.
type Reply struct {
	Text            string
	Validation      policy.Result
	Repaired        bool // deterministic fallback was used
	Attempts        int  // generation attempts consumed
	GeneratorErr    string
	EmergencyAction string // set only for non-mild recommendation replies
}

// #endregion reply

// #region assessment

// assessmentAction is the parsed structured reply for the escalation flow.
type assessmentAction struct {
	Assessment string `json:"assessment"`
	Action     string `json:"action"`
}

// #endregion assessment
