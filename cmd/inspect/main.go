package main

// #region imports
import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/carelane/triage-controller/internal/telemetry"
)

// #endregion

// #region main

func main() {
	dbPath := flag.String("db", "", "path to triage.db")
	last := flag.Int("last", 20, "show N most recent turns")
	failedOnly := flag.Bool("failed", false, "show only turns with validation errors or repairs")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/triage.db [--last N] [--failed] [--json]")
		os.Exit(2)
	}

	store, err := telemetry.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := run(store, *last, *failedOnly, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(store *telemetry.Store, last int, failedOnly, jsonOut bool) error {
	turns, err := store.RecentTurns(last)
	if err != nil {
		return err
	}
	if failedOnly {
		filtered := turns[:0]
		for _, t := range turns {
			if !t.ValidationOK || t.Repaired || t.GeneratorErr != "" {
				filtered = append(filtered, t)
			}
		}
		turns = filtered
	}
	if len(turns) == 0 {
		fmt.Fprintln(os.Stderr, "no turns found")
		return nil
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(turns)
	}

	fmt.Printf("%-10s %-26s %-9s %-4s %-8s %-8s %s\n",
		"TURN", "STAGE", "TRIAGE", "OK", "ATTEMPTS", "REPAIRED", "CREATED")
	for _, t := range turns {
		fmt.Printf("%-10s %-26s %-9s %-4s %-8d %-8v %s\n",
			shortID(t.TurnID),
			t.Stage+" -> "+t.NextStage,
			t.TriageLevel,
			okMark(t.ValidationOK),
			t.Attempts,
			t.Repaired,
			t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		)
		if t.GeneratorErr != "" {
			fmt.Printf("           generator error: %s\n", t.GeneratorErr)
		}
		for _, e := range t.Errors {
			fmt.Printf("           error: %s\n", e)
		}
		if len(t.RedFlags) > 0 {
			fmt.Printf("           red flags: %s\n", strings.Join(t.RedFlags, ", "))
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func okMark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// #endregion run
