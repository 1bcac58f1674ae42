package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"triviabattle/internal/model"
)

const uniqueViolation = "23505"

// OpenPostgres opens and pings a Postgres pool
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("[Database] Connected to Postgres")
	return db, nil
}

type pgProfileRepo struct {
	db *sql.DB
}

func NewPGProfileRepo(db *sql.DB) ProfileRepo {
	return &pgProfileRepo{db: db}
}

// InitProfileSchema creates the profiles table if it does not exist
func InitProfileSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		level INTEGER NOT NULL DEFAULT 1,
		xp INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 0 CHECK (coins >= 0),
		streak INTEGER NOT NULL DEFAULT 0,
		games_played INTEGER NOT NULL DEFAULT 0,
		total_correct INTEGER NOT NULL DEFAULT 0,
		last_played_at TIMESTAMPTZ,
		settled_matches TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	ALTER TABLE profiles ADD COLUMN IF NOT EXISTS settled_matches TEXT[] NOT NULL DEFAULT '{}';
	CREATE INDEX IF NOT EXISTS idx_profiles_xp ON profiles(xp DESC);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Println("[Database] Profile schema initialized")
	return nil
}

const profileColumns = `id, username, avatar, password_hash, level, xp, coins, streak,
	games_played, total_correct, last_played_at, settled_matches, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var lastPlayed pq.NullTime
	err := row.Scan(&p.ID, &p.Username, &p.Avatar, &p.PasswordHash, &p.Level, &p.XP, &p.Coins,
		&p.Streak, &p.GamesPlayed, &p.TotalCorrect, &lastPlayed, pq.Array(&p.SettledMatches),
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastPlayed.Valid {
		t := lastPlayed.Time
		p.LastPlayedAt = &t
	}
	return &p, nil
}

func (r *pgProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if profile.Level == 0 {
		profile.Level = model.LevelFor(profile.XP)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		profile.ID, profile.Username, profile.Avatar, profile.PasswordHash, profile.Level,
		profile.XP, profile.Coins, profile.Streak, profile.GamesPlayed, profile.TotalCorrect,
		pq.NullTime{Time: derefTime(profile.LastPlayedAt), Valid: profile.LastPlayedAt != nil},
		pq.Array(settled(profile.SettledMatches)), profile.CreatedAt, profile.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *pgProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *pgProfileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE username = $1`, username)
	return scanProfile(row)
}

// ApplyDelta locks the row, folds the delta in and writes it back in one
// transaction. A match id already in settled_matches is a no-op.
func (r *pgProfileRepo) ApplyDelta(ctx context.Context, id string, delta model.ProfileDelta) (*model.Profile, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, id)
	profile, err := scanProfile(row)
	if err != nil {
		return nil, false, err
	}
	if !profile.Apply(delta, time.Now()) {
		return profile, false, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE profiles SET level = $2, xp = $3, coins = $4, streak = $5, games_played = $6,
			total_correct = $7, last_played_at = $8, settled_matches = $9, updated_at = $10
		WHERE id = $1`,
		profile.ID, profile.Level, profile.XP, profile.Coins, profile.Streak, profile.GamesPlayed,
		profile.TotalCorrect,
		pq.NullTime{Time: derefTime(profile.LastPlayedAt), Valid: profile.LastPlayedAt != nil},
		pq.Array(settled(profile.SettledMatches)), profile.UpdatedAt)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return profile, true, nil
}

// settled keeps the NOT NULL column satisfied for profiles with no history
func settled(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
