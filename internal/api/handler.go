// Package api provides the HTTP surface of the triage pipeline.
package api

// #region imports
import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/telemetry"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region types

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Messages []orchestrator.Message `json:"messages"`
	Stage    string                 `json:"stage"`
}

// TriageView is the triage decision as exposed to clients.
type TriageView struct {
	Level         triage.Level `json:"level"`
	RedFlags      []string     `json:"redFlags"`
	HighRisk      []string     `json:"highRisk"`
	SevereSignals []string     `json:"severeSignals"`
	Reasoning     string       `json:"reasoning,omitempty"`
}

// ValidationView reports how the reply fared against the policy checks.
type ValidationView struct {
	OK             bool     `json:"ok"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings,omitempty"`
	Repaired       bool     `json:"repaired"`
	Attempts       int      `json:"attempts"`
	GeneratorError string   `json:"generatorError,omitempty"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	Message         string         `json:"message"`
	NextStage       stage.Stage    `json:"nextStage"`
	Triage          TriageView     `json:"triage"`
	Validation      ValidationView `json:"validation"`
	EmergencyAction string         `json:"emergencyAction,omitempty"`
}

// #endregion types

// #region handler

// Handler runs a full pipeline turn per chat request.
type Handler struct {
	classifier *triage.Classifier
	orch       *orchestrator.Orchestrator
	store      *telemetry.Store
	logger     *slog.Logger
}

// NewHandler creates the chat handler. store may be nil to disable the
// audit log.
func NewHandler(classifier *triage.Classifier, orch *orchestrator.Orchestrator, store *telemetry.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{classifier: classifier, orch: orch, store: store, logger: logger}
}

// RegisterRoutes mounts the API endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.Chat)
	r.Get("/api/turns", h.RecentTurns)
	r.Get("/healthz", h.Health)
}

// #endregion handler

// #region chat

// Chat executes one turn: triage, stage resolution, reply production,
// and the audit-log write.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	current := stage.Parse(req.Stage)
	userMessages := orchestrator.UserMessages(req.Messages)

	decision := h.classifier.Classify(ctx, userMessages)
	effective := stage.Effective(current, decision.Level, len(userMessages))
	next := stage.Next(current, decision.Level, len(userMessages))

	reply := h.orch.ProduceReply(ctx, effective, decision.Level, req.Messages)

	h.logger.Info("turn complete",
		"stage", effective,
		"nextStage", next,
		"triageLevel", decision.Level,
		"validationOk", reply.Validation.OK,
		"attempts", reply.Attempts,
		"repaired", reply.Repaired,
	)

	h.recordTurn(effective, next, decision, reply)

	JSON(w, http.StatusOK, ChatResponse{
		Message:   reply.Text,
		NextStage: next,
		Triage: TriageView{
			Level:         decision.Level,
			RedFlags:      emptyIfNil(decision.RedFlags),
			HighRisk:      emptyIfNil(decision.HighRisk),
			SevereSignals: emptyIfNil(decision.SevereSignals),
			Reasoning:     decision.Reasoning,
		},
		Validation: ValidationView{
			OK:             reply.Validation.OK,
			Errors:         emptyIfNil(reply.Validation.Errors),
			Warnings:       reply.Validation.Warnings,
			Repaired:       reply.Repaired,
			Attempts:       reply.Attempts,
			GeneratorError: reply.GeneratorErr,
		},
		EmergencyAction: reply.EmergencyAction,
	})
}

func (h *Handler) recordTurn(effective, next stage.Stage, decision triage.Decision, reply orchestrator.Reply) {
	if h.store == nil {
		return
	}
	_, err := h.store.RecordTurn(telemetry.TurnRecord{
		Stage:        string(effective),
		NextStage:    string(next),
		TriageLevel:  string(decision.Level),
		TriageReason: decision.Reasoning,
		RedFlags:     decision.RedFlags,
		ValidationOK: reply.Validation.OK,
		Errors:       reply.Validation.Errors,
		Warnings:     reply.Validation.Warnings,
		Attempts:     reply.Attempts,
		Repaired:     reply.Repaired,
		GeneratorErr: reply.GeneratorErr,
	})
	if err != nil {
		h.logger.Error("failed to record turn", "error", err)
	}
}

// #endregion chat

// #region turns

// RecentTurns returns the newest audit-log entries.
func (h *Handler) RecentTurns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		JSON(w, http.StatusOK, []telemetry.TurnRecord{})
		return
	}
	turns, err := h.store.RecentTurns(20)
	if err != nil {
		h.logger.Error("failed to read turns", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read turns")
		return
	}
	if turns == nil {
		turns = []telemetry.TurnRecord{}
	}
	JSON(w, http.StatusOK, turns)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// #endregion turns

// #region json-helpers

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// #endregion json-helpers
