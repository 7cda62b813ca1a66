// Package store handles SQLite persistence of round history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ceylinesp/quizlet/internal/logger"
	"github.com/ceylinesp/quizlet/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// timeLayout is fixed width so stored timestamps order correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written before the fixed-width layout.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

// Store wraps SQLite access for round data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000;`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			dataset_path TEXT NOT NULL,
			direction TEXT NOT NULL,
			terms INTEGER NOT NULL,
			questions INTEGER NOT NULL,
			correct INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS round_attempts (
			round_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			term TEXT NOT NULL,
			modality TEXT NOT NULL,
			correct INTEGER NOT NULL,
			answered_at TEXT NOT NULL,
			PRIMARY KEY (round_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_round_attempts_term ON round_attempts(term);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewRoundID returns a fresh identifier for a round.
func NewRoundID() string {
	return uuid.NewString()
}

// InsertRound stores a completed round and its attempts.
func (s *Store) InsertRound(ctx context.Context, summary model.RoundSummary) (err error) {
	log := logger.FromContext(ctx).WithPrefix("store")
	if summary.ID == "" {
		summary.ID = NewRoundID()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rounds (id, started_at, ended_at, dataset_path, direction, terms, questions, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		formatTime(summary.StartedAt),
		formatTime(summary.EndedAt),
		summary.DatasetPath,
		summary.Direction.String(),
		len(summary.Terms),
		len(summary.Attempts),
		summary.CorrectCount(),
	)
	if err != nil {
		return err
	}

	if len(summary.Attempts) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO round_attempts (round_id, seq, term, modality, correct, answered_at)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, a := range summary.Attempts {
			correct := 0
			if a.Correct {
				correct = 1
			}
			if _, err = stmt.ExecContext(ctx, summary.ID, i, a.Term, a.Modality.String(), correct, formatTime(a.AnsweredAt)); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	log.Debug("round stored: id=%s attempts=%d", summary.ID, len(summary.Attempts))
	return nil
}

// ListRounds returns stored rounds oldest first, filtered by filter.
func (s *Store) ListRounds(ctx context.Context, filter model.RoundFilter) ([]model.RoundAggregate, error) {
	query := sqlBuilder.Select("id", "ended_at", "dataset_path", "terms", "questions", "correct").From("rounds")
	if filter.DatasetPath != "" {
		query = query.Where(sq.Eq{"dataset_path": filter.DatasetPath})
	}
	if filter.Since != nil {
		query = query.Where(sq.GtOrEq{"ended_at": formatTime(*filter.Since)})
	}
	query = query.OrderBy("ended_at DESC")
	if filter.Last > 0 {
		query = query.Limit(uint64(filter.Last))
	}
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rounds query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var endedAt string
		if err := rows.Scan(&agg.ID, &endedAt, &agg.DatasetPath, &agg.Terms, &agg.Questions, &agg.Correct); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(rounds)-1; i < j; i, j = i+1, j-1 {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	}
	return rounds, nil
}

// ListTermAggregates aggregates attempts per term across the given rounds.
func (s *Store) ListTermAggregates(ctx context.Context, roundIDs []string) ([]model.TermAggregate, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlBuilder.
		Select("term", "COUNT(*) AS attempted", "SUM(correct) AS correct").
		From("round_attempts").
		Where(sq.Eq{"round_id": roundIDs}).
		GroupBy("term").
		OrderBy("term").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build term aggregates query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TermAggregate
	for rows.Next() {
		var agg model.TermAggregate
		if err := rows.Scan(&agg.Term, &agg.Attempted, &agg.Correct); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
