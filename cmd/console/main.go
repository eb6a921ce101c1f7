package main

// #region imports
import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/carelane/triage-controller/internal/config"
	"github.com/carelane/triage-controller/internal/llm"
	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/stage"
	"github.com/carelane/triage-controller/internal/telemetry"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region main
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := telemetry.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	var gen orchestrator.Generator
	var semantic triage.SemanticClassifier
	if cfg.LLMMode == config.ModeOpenAI {
		llmCfg := llm.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		}
		oa, err := llm.NewOpenAIGenerator(llmCfg)
		if err != nil {
			log.Fatalf("failed to create OpenAI generator: %v", err)
		}
		gen = oa
		st, err := llm.NewSemanticTriage(llmCfg)
		if err != nil {
			log.Fatalf("failed to create semantic triage: %v", err)
		}
		semantic = st
	} else {
		gen = llm.NewMock()
	}

	classifier := triage.NewClassifier(semantic)
	orch := orchestrator.New(gen, cfg.MaxAttempts)

	fmt.Println("Triage Controller console ready.")
	fmt.Printf("  DB: %s | LLM: %s\n", cfg.DBPath, cfg.LLMMode)
	fmt.Println("Type a message (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	current := stage.Greeting
	var history []orchestrator.Message

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}

		history = append(history, orchestrator.Message{Role: orchestrator.RoleUser, Content: text})
		userMessages := orchestrator.UserMessages(history)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		decision := classifier.Classify(ctx, userMessages)
		effective := stage.Effective(current, decision.Level, len(userMessages))
		next := stage.Next(current, decision.Level, len(userMessages))
		reply := orch.ProduceReply(ctx, effective, decision.Level, history)
		cancel()

		fmt.Printf("\n%s\n\n", reply.Text)

		history = append(history, orchestrator.Message{Role: orchestrator.RoleAssistant, Content: reply.Text})
		current = next

		_, err := store.RecordTurn(telemetry.TurnRecord{
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
			log.Printf("logging error: %v", err)
		}

		fmt.Printf("[%s -> %s] triage=%s ok=%v attempts=%d repaired=%v\n",
			effective, next, decision.Level, reply.Validation.OK, reply.Attempts, reply.Repaired)
	}
}

// #endregion main
