// internal/history/postgres.go
package history

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists match records to PostgreSQL for the historian service.
type Store struct {
	pool *pgxpool.Pool
}

// ConnectStore builds a pgx pool from the standard POSTGRES_* / PG_*
// environment variables and pings it.
func ConnectStore(ctx context.Context) (*Store, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the match_events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS match_events (
			id BIGSERIAL PRIMARY KEY,
			event TEXT NOT NULL,
			room_id UUID NOT NULL,
			mode TEXT NOT NULL,
			tier INT NOT NULL,
			host_id UUID NOT NULL,
			player_ids UUID[] NOT NULL,
			reason TEXT,
			occurred_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

// InsertRecords writes a batch of match records in one round trip.
func (s *Store) InsertRecords(ctx context.Context, recs []MatchRecord) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(`
			INSERT INTO match_events (event, room_id, mode, tier, host_id, player_ids, reason, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.Event, rec.RoomID, rec.Mode, rec.Tier, rec.HostID, rec.PlayerIDs,
			rec.Reason, time.UnixMilli(rec.Timestamp),
		)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range recs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert match record: %w", err)
		}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
