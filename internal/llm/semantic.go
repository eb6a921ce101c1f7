package llm

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region prompt

const triageSystemPrompt = "You are a medical triage assistant. Return ONLY valid JSON, no other text."

const triagePromptFormat = `You are a medical triage assistant. Analyze the following patient conversation and determine the appropriate triage level.

Conversation:
%s

Return ONLY valid JSON with this exact structure:
{
  "level": "mild" | "emergency" | "unclear",
  "redFlags": ["array", "of", "detected", "red", "flags"],
  "highRisk": ["array", "of", "high", "risk", "factors"],
  "severeSignals": ["array", "of", "severe", "signals"],
  "reasoning": "brief explanation of your decision"
}

Triage guidelines:
- "emergency": Life-threatening symptoms, severe distress, OR symptoms requiring immediate medical attention including: chest pain with breathing trouble, stroke-like symptoms, severe allergic reactions, severe bleeding, seizures, broken bones/fractures, dislocations, severe injuries that need X-rays or medical evaluation
- "unclear": High-risk patients (pregnant, very young infants, immunocompromised) with symptoms that need professional evaluation but aren't immediately life-threatening
- "mild": Common, non-urgent symptoms that can be managed with self-care (mild headaches, fatigue, minor cold symptoms, etc.)

Be conservative - when in doubt, err on the side of caution and escalate. Broken bones, fractures, and dislocations always need medical evaluation.`

// #endregion prompt

// #region semantic-triage

// SemanticTriage implements triage.SemanticClassifier against the
// OpenAI Responses API. Low temperature keeps the triage calls
// consistent across retries of the same conversation.
type SemanticTriage struct {
	client *openai.Client
	config Config
}

// NewSemanticTriage creates the OpenAI-backed triage classifier.
func NewSemanticTriage(cfg Config) (*SemanticTriage, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &SemanticTriage{client: newClient(cfg), config: cfg}, nil
}

// Classify asks the model for a triage decision over the joined user
// messages. Any transport or parse failure returns an error so the
// caller can fall back to the rule-based pass.
func (s *SemanticTriage) Classify(ctx context.Context, conversationText string) (triage.Decision, error) {
	input := responses.ResponseInputParam{
		responses.ResponseInputItemParamOfMessage(triageSystemPrompt, responses.EasyInputMessageRoleSystem),
		responses.ResponseInputItemParamOfMessage(fmt.Sprintf(triagePromptFormat, conversationText), responses.EasyInputMessageRoleUser),
	}

	result, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           shared.ResponsesModel(s.config.Model),
		Input:           responses.ResponseNewParamsInputUnion{OfInputItemList: input},
		MaxOutputTokens: openai.Int(s.config.MaxOutputTokens),
		Temperature:     openai.Float(triageTemperature),
	})
	if err != nil {
		return triage.Decision{}, fmt.Errorf("openai triage: %w", err)
	}

	return parseTriageDecision(result.OutputText())
}

// parseTriageDecision decodes the model's JSON and normalizes the
// level: anything outside emergency/unclear degrades to mild, matching
// the conservative rule-based defaults.
func parseTriageDecision(content string) (triage.Decision, error) {
	var parsed struct {
		Level         string   `json:"level"`
		RedFlags      []string `json:"redFlags"`
		HighRisk      []string `json:"highRisk"`
		SevereSignals []string `json:"severeSignals"`
		Reasoning     string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return triage.Decision{}, fmt.Errorf("parse triage decision: %w", err)
	}

	level := triage.LevelMild
	switch triage.Level(parsed.Level) {
	case triage.LevelEmergency:
		level = triage.LevelEmergency
	case triage.LevelUnclear:
		level = triage.LevelUnclear
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "AI triage analysis"
	}

	return triage.Decision{
		Level:         level,
		RedFlags:      parsed.RedFlags,
		HighRisk:      parsed.HighRisk,
		SevereSignals: parsed.SevereSignals,
		Reasoning:     reasoning,
	}, nil
}

// stripCodeFence unwraps a ```json ... ``` block if the model added
// one despite the JSON-only instruction.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// #endregion semantic-triage
