package llm

// #region imports
import (
	"context"
	"encoding/json"
	"strings"

	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/policy"
	"github.com/carelane/triage-controller/internal/repair"
)

// #endregion

// #region mock

// Mock is the offline generator: free-text requests delegate to the
// repair template, structured requests return the deterministic
// assessment and action as JSON. Development and test environments run
// on it end to end.
type Mock struct{}

// NewMock creates the deterministic offline generator.
func NewMock() *Mock {
	return &Mock{}
}

// Generate never fails and never touches the network.
func (*Mock) Generate(_ context.Context, req orchestrator.Request) (string, error) {
	if req.Format == orchestrator.FormatAssessmentAction {
		payload, err := json.Marshal(map[string]string{
			"assessment": policy.DefaultAssessment,
			"action":     orchestrator.SanitizeAction(policy.EmergencyAction(req.TriageLevel)),
		})
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}

	return repair.Response(repair.Context{
		Stage:             req.Stage,
		TriageLevel:       req.TriageLevel,
		LatestUserMessage: req.LatestUserMessage,
		SymptomContext:    strings.Join(orchestrator.UserMessages(req.Messages), " "),
	}), nil
}

// #endregion mock
