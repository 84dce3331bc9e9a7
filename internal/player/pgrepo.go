package player

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/kapu/emoji-movie-bot-go/internal/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func (r *PostgresRepository) Close() error { return r.db.Close() }

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
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
	r := &PostgresRepository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS players (
			user_id         TEXT PRIMARY KEY,
			username        TEXT NOT NULL DEFAULT '',
			first_name      TEXT NOT NULL DEFAULT '',
			last_name       TEXT NOT NULL DEFAULT '',
			score           INTEGER NOT NULL DEFAULT 0,
			games_played    INTEGER NOT NULL DEFAULT 0,
			games_won       INTEGER NOT NULL DEFAULT 0,
			correct_guesses INTEGER NOT NULL DEFAULT 0,
			hints_used      INTEGER NOT NULL DEFAULT 0,
			joined_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_active_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_players_score ON players (score DESC)`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure players schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Ensure(ctx context.Context, id Identity) (*domain.Player, error) {
	if strings.TrimSpace(id.UserID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	const q = `
		INSERT INTO players (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE players.username END,
			first_name = CASE WHEN EXCLUDED.first_name <> '' THEN EXCLUDED.first_name ELSE players.first_name END,
			last_name = CASE WHEN EXCLUDED.last_name <> '' THEN EXCLUDED.last_name ELSE players.last_name END,
			last_active_at = NOW()
		RETURNING user_id, username, first_name, last_name, score, games_played,
		          games_won, correct_guesses, hints_used, joined_at, last_active_at`
	return scanPlayer(r.db.QueryRowContext(ctx, q, id.UserID, id.Username, id.FirstName, id.LastName))
}

// ApplyDelta increments the counters in place; the arithmetic happens inside
// the database so concurrent increments never lose updates.
func (r *PostgresRepository) ApplyDelta(ctx context.Context, userID string, d domain.StatsDelta) error {
	if d.IsZero() {
		return nil
	}
	const q = `
		UPDATE players SET
			score = score + $2,
			games_played = games_played + $3,
			games_won = games_won + $4,
			correct_guesses = correct_guesses + $5,
			hints_used = hints_used + $6,
			last_active_at = NOW()
		WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID, d.Score, d.GamesPlayed, d.GamesWon, d.CorrectGuesses, d.HintsUsed)
	if err != nil {
		return fmt.Errorf("apply stats delta: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player not found: %s", userID)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.Player, error) {
	const q = `
		SELECT user_id, username, first_name, last_name, score, games_played,
		       games_won, correct_guesses, hints_used, joined_at, last_active_at
		FROM players
		WHERE user_id = $1`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *PostgresRepository) Top(ctx context.Context, limit int) ([]*domain.Player, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
		SELECT user_id, username, first_name, last_name, score, games_played,
		       games_won, correct_guesses, hints_used, joined_at, last_active_at
		FROM players
		ORDER BY score DESC, games_won DESC, user_id ASC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	defer rows.Close()

	players := make([]*domain.Player, 0, limit)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PostgresRepository) Rank(ctx context.Context, userID string) (int, error) {
	const q = `
		SELECT COUNT(*) + 1
		FROM players
		WHERE score > (SELECT score FROM players WHERE user_id = $1)`
	var rank int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&rank)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select rank: %w", err)
	}
	return rank, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.UserID, &p.Username, &p.FirstName, &p.LastName, &p.Score,
		&p.GamesPlayed, &p.GamesWon, &p.CorrectGuesses, &p.HintsUsed,
		&p.JoinedAt, &p.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
