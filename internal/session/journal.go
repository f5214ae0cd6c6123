// internal/session/journal.go
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jason-s-yu/fodinha/internal/models"
)

// JournalEntry is one applied mutation of a room.
type JournalEntry struct {
	ID        string          `json:"id"`
	RoomID    string          `json:"roomId"`
	Seq       int64           `json:"seq"`
	Actor     string          `json:"actor,omitempty"` // connection id; empty for timer tasks
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Journal receives room mutations off the gateway loop.
type Journal interface {
	Record(ctx context.Context, e JournalEntry) error
}

// GameResult summarises a finished game.
type GameResult struct {
	RoomID     string              `json:"roomId"`
	Winner     *models.GamePlayer  `json:"winner"`
	Rounds     int                 `json:"rounds"`
	Players    []models.GamePlayer `json:"players"`
	StartedAt  time.Time           `json:"startedAt"`
	FinishedAt time.Time           `json:"finishedAt"`
}

// ResultStore persists finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, res GameResult) error
}

// Journal actions.
const (
	ActionRoomCreated   = "room_created"
	ActionPlayerJoined  = "player_joined"
	ActionPlayerLeft    = "player_left"
	ActionRoomDestroyed = "room_destroyed"
	ActionGameStarted   = "game_started"
	ActionBetPlaced     = "bet_placed"
	ActionCardPlayed    = "card_played"
	ActionTrickResolved = "trick_resolved"
	ActionGameFinished  = "game_finished"
)
