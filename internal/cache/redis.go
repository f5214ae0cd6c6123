// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jason-s-yu/fodinha/internal/session"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the journal pushes to and the historian pops from.
const DefaultQueueName = "fodinha_events"

// ConnectRedis opens a client and checks it with a PING.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Queue is a Redis list of journal entries. The server side appends with
// Record; the historian drains it with Next.
type Queue struct {
	rdb  *redis.Client
	name string
}

// NewQueue wraps rdb. An empty name selects DefaultQueueName.
func NewQueue(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{rdb: rdb, name: name}
}

// Record pushes one entry onto the tail of the list.
func (q *Queue) Record(ctx context.Context, e session.JournalEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal JournalEntry: %w", err)
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", q.name, err)
	}
	return nil
}

// Next blocks up to timeout for the head of the list. It returns nil, nil
// when the wait times out.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.rdb.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// res[0] is the list name, res[1] the payload
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}
