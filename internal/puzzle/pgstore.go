package puzzle

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

// PostgresStore persists the corpus in Postgres. The draw is a single
// statement so pick + increment of times_presented happen in one
// transactional step.
type PostgresStore struct {
	db *sql.DB
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS puzzles (
			id              TEXT PRIMARY KEY,
			emojis          TEXT NOT NULL,
			answer          TEXT NOT NULL,
			category        TEXT NOT NULL,
			difficulty      TEXT NOT NULL,
			hints           JSONB NOT NULL DEFAULT '[]'::jsonb,
			times_presented INTEGER NOT NULL DEFAULT 0,
			times_solved    INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_puzzles_category ON puzzles (category);
		CREATE INDEX IF NOT EXISTS idx_puzzles_difficulty ON puzzles (difficulty);
		CREATE INDEX IF NOT EXISTS idx_puzzles_usage ON puzzles (times_presented)`
	_, err := s.db.ExecContext(ctx, q)
	if err != nil {
		return fmt.Errorf("ensure puzzles schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Draw(ctx context.Context, f Filter) (*domain.Puzzle, error) {
	// Candidates are narrowed by the optional filters, restricted to the
	// minimum-usage tier, and one row is picked at random. The locking clause
	// sits on the base table so the picked row is held until the UPDATE in the
	// same statement bumps times_presented; a concurrent draw skips it and
	// picks another candidate.
	const q = `
		UPDATE puzzles p
		SET times_presented = p.times_presented + 1
		WHERE p.id = (
			SELECT c.id
			FROM puzzles c
			WHERE ($1 = '' OR c.category = $1)
			  AND ($2 = '' OR c.difficulty = $2)
			  AND NOT (c.id = ANY($3::text[]))
			  AND c.times_presented = (
				SELECT MIN(m.times_presented)
				FROM puzzles m
				WHERE ($1 = '' OR m.category = $1)
				  AND ($2 = '' OR m.difficulty = $2)
				  AND NOT (m.id = ANY($3::text[]))
			  )
			ORDER BY random()
			LIMIT 1
			FOR UPDATE OF c SKIP LOCKED
		)
		RETURNING p.id, p.emojis, p.answer, p.category, p.difficulty, p.hints,
		          p.times_presented, p.times_solved`

	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}
	row := s.db.QueryRowContext(ctx, q, string(f.Category), string(f.Difficulty), pq.Array(exclude))
	p, err := scanPuzzle(row)
	if err == sql.ErrNoRows {
		return nil, ErrNoPuzzle
	}
	if err != nil {
		return nil, fmt.Errorf("draw puzzle: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.Puzzle, error) {
	const q = `
		SELECT id, emojis, answer, category, difficulty, hints,
		       times_presented, times_solved
		FROM puzzles
		WHERE id = $1`
	p, err := scanPuzzle(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select puzzle: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) MarkSolved(ctx context.Context, id string) error {
	const q = `UPDATE puzzles SET times_solved = times_solved + 1 WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("mark puzzle solved: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, p *domain.Puzzle) error {
	if p == nil {
		return fmt.Errorf("nil puzzle payload")
	}
	hints, err := json.Marshal(p.Hints)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}
	const q = `
		INSERT INTO puzzles (id, emojis, answer, category, difficulty, hints)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		ON CONFLICT (id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, q, p.ID, p.Emojis, p.Answer, string(p.Category), string(p.Difficulty), hints); err != nil {
		return fmt.Errorf("insert puzzle: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count puzzles: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPuzzle(row rowScanner) (*domain.Puzzle, error) {
	var (
		p         domain.Puzzle
		hintsJSON []byte
	)
	err := row.Scan(&p.ID, &p.Emojis, &p.Answer, &p.Category, &p.Difficulty,
		&hintsJSON, &p.TimesPresented, &p.TimesSolved)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hintsJSON, &p.Hints); err != nil {
		return nil, fmt.Errorf("unmarshal hints: %w", err)
	}
	return &p, nil
}
