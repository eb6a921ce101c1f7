package main

// #region imports
import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/carelane/triage-controller/internal/llm"
	"github.com/carelane/triage-controller/internal/orchestrator"
	"github.com/carelane/triage-controller/internal/replay"
	"github.com/carelane/triage-controller/internal/triage"
)

// #endregion

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *jsonOut))
}

// #endregion main

// #region run

func run(fixturePath string, jsonOut bool) int {
	f, err := replay.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	classifier := triage.NewClassifier(nil)
	orch := orchestrator.New(llm.NewMock(), 0)

	results, summary := replay.Replay(context.Background(), f, classifier, orch)

	failures := 0
	for _, r := range results {
		exp, ok := f.Expected(r.TurnID)
		if ok && !exp.Matches(r) {
			failures++
		}
	}

	if jsonOut {
		out := struct {
			Description string          `json:"description"`
			Results     []replay.Result `json:"results"`
			Summary     replay.Summary  `json:"summary"`
			Failures    int             `json:"failures"`
		}{f.Description, results, summary, failures}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			return 2
		}
	} else {
		printText(f, results, summary, failures)
	}

	if failures > 0 {
		return 1
	}
	return 0
}

func printText(f *replay.Fixture, results []replay.Result, summary replay.Summary, failures int) {
	fmt.Printf("Fixture: %s (%d turns)\n\n", f.Description, len(f.Turns))
	for _, r := range results {
		status := "ok"
		if !r.Validation.OK {
			status = "invalid"
		}
		if r.Repaired {
			status += " (repaired)"
		}
		marker := "-"
		if exp, ok := f.Expected(r.TurnID); ok {
			if exp.Matches(r) {
				marker = "PASS"
			} else {
				marker = "FAIL"
			}
		}
		fmt.Printf("[%s] %-14s %s -> %s  triage=%-9s attempts=%d  %s\n",
			r.TurnID, status, r.Stage, r.NextStage, r.TriageLevel, r.Attempts, marker)
		for _, e := range r.Validation.Errors {
			fmt.Printf("         error: %s\n", e)
		}
	}
	fmt.Printf("\nturns=%d ok=%d repaired=%d escalations=%d final=%s failures=%d\n",
		summary.TotalTurns, summary.OKTurns, summary.Repaired, summary.Escalations, summary.FinalStage, failures)
}

// #endregion run
