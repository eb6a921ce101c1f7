package llm

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/carelane/triage-controller/internal/orchestrator"
)

// #endregion

// #region config

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const (
	defaultMaxOutputTokens = 800
	replyTemperature       = 0.2
	triageTemperature      = 0.1
)

// Config holds the OpenAI connection settings shared by the reply
// generator and the semantic triage classifier.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int64
}

func (c *Config) normalize() error {
	if c.APIKey == "" {
		return errors.New("llm: missing OpenAI API key")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = defaultMaxOutputTokens
	}
	return nil
}

func newClient(cfg Config) *openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

// #endregion config

// #region generator

// OpenAIGenerator implements orchestrator.Generator against the OpenAI
// Responses API.
type OpenAIGenerator struct {
	client *openai.Client
	config Config
}

// NewOpenAIGenerator creates the OpenAI-backed reply generator.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &OpenAIGenerator{client: newClient(cfg), config: cfg}, nil
}

// Generate sends the system prompt, the per-turn developer prompt, and
// the conversation history, returning the trimmed model output.
func (g *OpenAIGenerator) Generate(ctx context.Context, req orchestrator.Request) (string, error) {
	developer := BuildDeveloperPrompt(req.Stage, req.TriageLevel, req.Feedback, req.Format)

	input := make(responses.ResponseInputParam, 0, len(req.Messages)+2)
	input = append(input, responses.ResponseInputItemParamOfMessage(SystemPrompt, responses.EasyInputMessageRoleSystem))
	input = append(input, responses.ResponseInputItemParamOfMessage(developer, responses.EasyInputMessageRoleSystem))
	for _, m := range req.Messages {
		role := responses.EasyInputMessageRoleUser
		if m.Role == orchestrator.RoleAssistant {
			role = responses.EasyInputMessageRoleAssistant
		}
		input = append(input, responses.ResponseInputItemParamOfMessage(m.Content, role))
	}

	result, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           shared.ResponsesModel(g.config.Model),
		Input:           responses.ResponseNewParamsInputUnion{OfInputItemList: input},
		MaxOutputTokens: openai.Int(g.config.MaxOutputTokens),
		Temperature:     openai.Float(replyTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return strings.TrimSpace(result.OutputText()), nil
}

// #endregion generator
