// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/fodinha/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a reachable Redis; set REDIS_ADDR to run them.
func testQueue(t *testing.T) *Queue {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := ConnectRedis(context.Background(), addr, 0)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	q := NewQueue(rdb, "fodinha_test_"+uuid.NewString())
	t.Cleanup(func() { rdb.Del(context.Background(), q.name) })
	return q
}

func TestQueueRoundTrip(t *testing.T) {
	q := testQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	entry := session.JournalEntry{
		ID:        uuid.NewString(),
		RoomID:    "AB12",
		Seq:       1,
		Actor:     "c1",
		Event:     session.ActionRoomCreated,
		Payload:   json.RawMessage(`{"status":"waiting"}`),
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, q.Record(ctx, entry))

	data, err := q.Next(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, data)

	var got session.JournalEntry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.Seq, got.Seq)
	assert.JSONEq(t, string(entry.Payload), string(got.Payload))
	assert.True(t, entry.Timestamp.Equal(got.Timestamp))
}

func TestQueueNextTimesOut(t *testing.T) {
	q := testQueue(t)
	data, err := q.Next(context.Background(), time.Second)
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestNewQueueDefaultsName(t *testing.T) {
	assert.Equal(t, DefaultQueueName, NewQueue(nil, "").name)
	assert.Equal(t, "custom", NewQueue(nil, "custom").name)
}
