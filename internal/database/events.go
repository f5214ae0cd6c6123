// internal/database/events.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/fodinha/internal/session"
)

// EventStore appends journal entries to room_events.
type EventStore struct {
	db TxBeginner
}

func NewEventStore(db TxBeginner) *EventStore {
	return &EventStore{db: db}
}

// SaveEvents inserts a batch in one transaction. Entries already stored
// (same id) are skipped, so a replayed batch is harmless.
func (s *EventStore) SaveEvents(ctx context.Context, entries []session.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return pgx.BeginTxFunc(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO room_events (id, room_id, seq, actor, event, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`
		for _, e := range entries {
			id, err := uuid.Parse(e.ID)
			if err != nil {
				return fmt.Errorf("event id %q: %w", e.ID, err)
			}
			var payload any
			if len(e.Payload) > 0 {
				payload = string(e.Payload)
			}
			if _, err := tx.Exec(ctx, q, id, e.RoomID, e.Seq, e.Actor, e.Event, payload, e.Timestamp); err != nil {
				return fmt.Errorf("insert event %s: %w", e.ID, err)
			}
		}
		return nil
	})
}
