// internal/historian/historian.go
package historian

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jason-s-yu/fodinha/internal/session"
	"github.com/sirupsen/logrus"
)

// Source yields raw journal entries. Next returns nil, nil when nothing
// arrived within timeout.
type Source interface {
	Next(ctx context.Context, timeout time.Duration) ([]byte, error)
}

// Sink persists a batch of entries.
type Sink interface {
	SaveEvents(ctx context.Context, entries []session.JournalEntry) error
}

// Service moves journal entries from the queue into the database in
// batches, flushing when the batch fills or the flush interval passes.
type Service struct {
	src        Source
	sink       Sink
	log        *logrus.Logger
	batchSize  int
	flushEvery time.Duration
	popTimeout time.Duration

	batch []session.JournalEntry
}

// NewService builds a historian. Non-positive sizes fall back to 20 entries
// and 500ms.
func NewService(src Source, sink Sink, logger *logrus.Logger, batchSize int, flushEvery time.Duration) *Service {
	if batchSize <= 0 {
		batchSize = 20
	}
	if flushEvery <= 0 {
		flushEvery = 500 * time.Millisecond
	}
	return &Service{
		src:        src,
		sink:       sink,
		log:        logger,
		batchSize:  batchSize,
		flushEvery: flushEvery,
		popTimeout: time.Second,
		batch:      make([]session.JournalEntry, 0, batchSize),
	}
}

// Run consumes the queue until ctx is cancelled, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("fodinha-historian service started")
	defer s.log.Info("fodinha-historian shutting down")

	lastFlush := time.Now()
	for {
		if ctx.Err() != nil {
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.flush(fctx)
			cancel()
			return
		}
		if time.Since(lastFlush) >= s.flushEvery {
			s.flush(ctx)
			lastFlush = time.Now()
		}

		data, err := s.src.Next(ctx, s.popTimeout)
		if err != nil {
			if ctx.Err() == nil {
				s.log.WithError(err).Error("queue pop failed")
				time.Sleep(s.popTimeout)
			}
			continue
		}
		if data == nil {
			continue
		}

		var e session.JournalEntry
		if err := json.Unmarshal(data, &e); err != nil {
			s.log.WithError(err).Warn("invalid journal entry")
			continue
		}
		s.batch = append(s.batch, e)
		if len(s.batch) >= s.batchSize {
			s.flush(ctx)
			lastFlush = time.Now()
		}
	}
}

// flush writes the pending batch. A failed batch is logged and dropped.
func (s *Service) flush(ctx context.Context) {
	if len(s.batch) == 0 {
		return
	}
	n := len(s.batch)
	err := s.sink.SaveEvents(ctx, s.batch)
	s.batch = make([]session.JournalEntry, 0, s.batchSize)
	if err != nil {
		s.log.WithError(err).WithField("count", n).Error("failed to flush journal batch")
		return
	}
	s.log.WithField("count", n).Debug("flushed journal batch")
}
