package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	team TEXT NOT NULL,
	score_for INTEGER NOT NULL,
	score_against INTEGER NOT NULL,
	ticks INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_finished ON matches(finished_at);
`

// MatchResult is one finished match from this controller's point of view.
type MatchResult struct {
	Team         string
	ScoreFor     int
	ScoreAgainst int
	Ticks        int
	Outcome      string
	FinishedAt   time.Time
}

// Outcome labels derived from the final score.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// Outcome classifies a final score pair.
func Outcome(scoreFor, scoreAgainst int) string {
	switch {
	case scoreFor > scoreAgainst:
		return OutcomeWin
	case scoreFor < scoreAgainst:
		return OutcomeLoss
	}
	return OutcomeDraw
}

// Store keeps finished match results in a sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the results database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init results schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordMatch inserts one finished match.
func (s *Store) RecordMatch(ctx context.Context, r MatchResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (team, score_for, score_against, ticks, outcome, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Team, r.ScoreFor, r.ScoreAgainst, r.Ticks, r.Outcome,
		r.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// RecentMatches returns up to limit matches, most recent first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team, score_for, score_against, ticks, outcome, finished_at
		 FROM matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []MatchResult
	for rows.Next() {
		var r MatchResult
		var finished string
		if err := rows.Scan(&r.Team, &r.ScoreFor, &r.ScoreAgainst, &r.Ticks, &r.Outcome, &finished); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, finished); perr == nil {
			r.FinishedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
