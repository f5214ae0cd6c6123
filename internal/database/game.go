// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/fodinha/internal/session"
)

// ResultStore writes finished games to Postgres.
type ResultStore struct {
	db TxBeginner
}

func NewResultStore(db TxBeginner) *ResultStore {
	return &ResultStore{db: db}
}

type resultRow struct {
	seat       int
	playerID   string
	name       string
	points     int
	eliminated bool
	didWin     bool
}

// resultRows flattens a result into one row per seat.
func resultRows(res session.GameResult) []resultRow {
	rows := make([]resultRow, len(res.Players))
	for i, p := range res.Players {
		rows[i] = resultRow{
			seat:       i,
			playerID:   p.ID,
			name:       p.Name,
			points:     p.Points,
			eliminated: p.Eliminated,
			didWin:     res.Winner != nil && res.Winner.ID == p.ID,
		}
	}
	return rows
}

// SaveResult records the game row and every seat in one transaction.
func (s *ResultStore) SaveResult(ctx context.Context, res session.GameResult) error {
	gameID := uuid.New()

	var winnerID, winnerName *string
	if res.Winner != nil {
		winnerID, winnerName = &res.Winner.ID, &res.Winner.Name
	}
	var startedAt any
	if !res.StartedAt.IsZero() {
		startedAt = res.StartedAt
	}

	err := pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insertGame := `
			INSERT INTO games (id, room_id, winner_id, winner_name, rounds, started_at, finished_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.Exec(ctx, insertGame, gameID, res.RoomID, winnerID, winnerName, res.Rounds, startedAt, res.FinishedAt); err != nil {
			return err
		}

		insertResult := `
			INSERT INTO game_results (game_id, seat, player_id, name, points, eliminated, did_win)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, row := range resultRows(res) {
			if _, err := tx.Exec(ctx, insertResult, gameID, row.seat, row.playerID, row.name, row.points, row.eliminated, row.didWin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert game result for room %s: %w", res.RoomID, err)
	}
	return nil
}
