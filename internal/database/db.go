// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Connect opens a pool for connStr and pings it.
func Connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
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
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          UUID PRIMARY KEY,
	room_id     TEXT NOT NULL,
	winner_id   TEXT,
	winner_name TEXT,
	rounds      INT NOT NULL,
	started_at  TIMESTAMPTZ,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS game_results (
	game_id    UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	seat       INT NOT NULL,
	player_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	points     INT NOT NULL,
	eliminated BOOLEAN NOT NULL,
	did_win    BOOLEAN NOT NULL,
	PRIMARY KEY (game_id, seat)
);

CREATE TABLE IF NOT EXISTS room_events (
	id         UUID PRIMARY KEY,
	room_id    TEXT NOT NULL,
	seq        BIGINT NOT NULL,
	actor      TEXT,
	event      TEXT NOT NULL,
	payload    JSONB,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS room_events_room_seq ON room_events (room_id, seq);
`

// Migrate creates the tables used by the result store and the historian.
func Migrate(ctx context.Context, db TxBeginner) error {
	return pgx.BeginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, schema)
		return err
	})
}
