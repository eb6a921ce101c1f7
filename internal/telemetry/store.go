// Package telemetry persists a per-turn audit log to SQLite. The log is
// observability only: the pipeline writes to it after each turn and
// never reads it back on the request path.
package telemetry

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #endregion

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS turn_log (
	turn_id        TEXT PRIMARY KEY,
	stage          TEXT NOT NULL,
	next_stage     TEXT NOT NULL,
	triage_level   TEXT NOT NULL,
	triage_reason  TEXT,
	red_flags      TEXT,
	validation_ok  INTEGER NOT NULL,
	errors_json    TEXT,
	warnings_json  TEXT,
	attempts       INTEGER NOT NULL,
	repaired       INTEGER NOT NULL,
	generator_err  TEXT,
	created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turn_log_created ON turn_log(created_at);
`

// #endregion schema

// #region record

// TurnRecord is one pipeline turn as written to the audit log.
type TurnRecord struct {
	TurnID       string
	Stage        string
	NextStage    string
	TriageLevel  string
	TriageReason string
	RedFlags     []string
	ValidationOK bool
	Errors       []string
	Warnings     []string
	Attempts     int
	Repaired     bool
	GeneratorErr string
	CreatedAt    time.Time
}

// #endregion record

// #region store-struct
// Store manages the turn audit log in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region record-turn
// RecordTurn writes one turn to the audit log, assigning a turn ID and
// timestamp when the caller left them empty.
func (s *Store) RecordTurn(rec TurnRecord) (string, error) {
	if rec.TurnID == "" {
		rec.TurnID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	redFlags, err := marshalList(rec.RedFlags)
	if err != nil {
		return "", fmt.Errorf("marshal red flags: %w", err)
	}
	errsJSON, err := marshalList(rec.Errors)
	if err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	warnJSON, err := marshalList(rec.Warnings)
	if err != nil {
		return "", fmt.Errorf("marshal warnings: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO turn_log (turn_id, stage, next_stage, triage_level, triage_reason, red_flags, validation_ok, errors_json, warnings_json, attempts, repaired, generator_err, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TurnID,
		rec.Stage,
		rec.NextStage,
		rec.TriageLevel,
		nullIfEmpty(rec.TriageReason),
		redFlags,
		boolToInt(rec.ValidationOK),
		errsJSON,
		warnJSON,
		rec.Attempts,
		boolToInt(rec.Repaired),
		nullIfEmpty(rec.GeneratorErr),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("record turn: %w", err)
	}
	return rec.TurnID, nil
}

// #endregion record-turn

// #region recent-turns
// RecentTurns reads the newest records, most recent first.
func (s *Store) RecentTurns(limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT turn_id, stage, next_stage, triage_level, triage_reason, red_flags, validation_ok, errors_json, warnings_json, attempts, repaired, generator_err, created_at
		 FROM turn_log ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var rec TurnRecord
		var reason, redFlags, errsJSON, warnJSON, genErr sql.NullString
		var ok, repaired int
		var createdStr string

		err := rows.Scan(&rec.TurnID, &rec.Stage, &rec.NextStage, &rec.TriageLevel, &reason, &redFlags, &ok, &errsJSON, &warnJSON, &rec.Attempts, &repaired, &genErr, &createdStr)
		if err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}

		rec.TriageReason = reason.String
		rec.GeneratorErr = genErr.String
		rec.ValidationOK = ok != 0
		rec.Repaired = repaired != 0
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		if rec.RedFlags, err = unmarshalList(redFlags); err != nil {
			return nil, fmt.Errorf("unmarshal red flags: %w", err)
		}
		if rec.Errors, err = unmarshalList(errsJSON); err != nil {
			return nil, fmt.Errorf("unmarshal errors: %w", err)
		}
		if rec.Warnings, err = unmarshalList(warnJSON); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion recent-turns

// #region helpers
func marshalList(values []string) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalList(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
