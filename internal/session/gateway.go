// internal/session/gateway.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/fodinha/internal/models"
	"github.com/jason-s-yu/fodinha/internal/room"
	"github.com/sirupsen/logrus"
)

// DefaultTrickDelay is how long a completed trick stays on the table.
const DefaultTrickDelay = 1500 * time.Millisecond

const (
	commandBuffer = 256
	journalBuffer = 1024
	sinkTimeout   = 5 * time.Second
)

// ErrGatewayStopped is returned once Run has exited.
var ErrGatewayStopped = errors.New("gateway stopped")

// Gateway owns every room and connection. All state is touched only by the
// goroutine running Run; other goroutines submit closures to it.
type Gateway struct {
	log        *logrus.Logger
	rooms      *room.Registry
	conns      map[string]*Connection
	started    map[string]time.Time // room id -> game start
	seq        map[string]int64     // room id -> last journal seq
	rng        *rand.Rand
	trickDelay time.Duration
	sched      Scheduler
	journal    Journal
	results    ResultStore
	now        func() time.Time

	cmds      chan func()
	journalCh chan JournalEntry
	done      chan struct{}
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithTrickDelay(d time.Duration) Option {
	return func(g *Gateway) { g.trickDelay = d }
}

func WithJournal(j Journal) Option {
	return func(g *Gateway) { g.journal = j }
}

func WithResultStore(s ResultStore) Option {
	return func(g *Gateway) { g.results = s }
}

// WithRand fixes the source used for room codes and shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(g *Gateway) { g.rng = rng }
}

// WithScheduler replaces the timer-backed scheduler. The scheduler must run
// tasks through the gateway loop.
func WithScheduler(s Scheduler) Option {
	return func(g *Gateway) { g.sched = s }
}

// New builds a gateway. Call Run to start processing.
func New(logger *logrus.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		log:        logger,
		conns:      make(map[string]*Connection),
		started:    make(map[string]time.Time),
		seq:        make(map[string]int64),
		trickDelay: DefaultTrickDelay,
		now:        time.Now,
		cmds:       make(chan func(), commandBuffer),
		journalCh:  make(chan JournalEntry, journalBuffer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.sched == nil {
		g.sched = newTimerScheduler(g.enqueue)
	}
	g.rooms = room.NewRegistry(g.rng)
	return g
}

// Run processes commands until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	if g.journal != nil {
		go g.drainJournal(ctx)
	}
	defer close(g.done)
	defer g.sched.Stop()

	g.log.Info("session gateway started")
	for {
		select {
		case fn := <-g.cmds:
			fn()
		case <-ctx.Done():
			g.log.Info("session gateway stopping")
			return ctx.Err()
		}
	}
}

// enqueue posts fn to the loop without waiting. Used by timers.
func (g *Gateway) enqueue(fn func()) bool {
	select {
	case g.cmds <- fn:
		return true
	case <-g.done:
		return false
	}
}

// do runs fn on the loop and waits for it to finish.
func (g *Gateway) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case g.cmds <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return ErrGatewayStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-g.done:
		return ErrGatewayStopped
	}
}

// Connect registers c and tells the client its id.
func (g *Gateway) Connect(ctx context.Context, c *Connection) error {
	return g.do(ctx, func() {
		g.conns[c.ID] = c
		g.log.WithFields(logrus.Fields{"conn": c.ID, "remote": c.Remote}).Info("client connected")
		g.send(c.ID, EventConnected, ConnectedPayload{ConnectionID: c.ID})
	})
}

// Disconnect removes connID from every room it is in.
func (g *Gateway) Disconnect(ctx context.Context, connID string) error {
	return g.do(ctx, func() {
		delete(g.conns, connID)
		updated, destroyed := g.rooms.RemoveConnection(connID)
		for _, r := range updated {
			g.record(r.ID, connID, ActionPlayerLeft, nil)
			g.broadcast(r, EventRoomUpdated, r.View())
		}
		for _, id := range destroyed {
			g.sched.Cancel(id)
			g.record(id, connID, ActionRoomDestroyed, nil)
			delete(g.started, id)
			delete(g.seq, id)
			g.log.WithField("room", id).Info("room destroyed")
		}
		g.log.WithField("conn", connID).Info("client disconnected")
	})
}

// Dispatch decodes one inbound frame from connID and applies it. Invalid
// frames are logged and dropped.
func (g *Gateway) Dispatch(ctx context.Context, connID string, raw []byte) error {
	req, err := DecodeRequest(raw)
	if err != nil {
		g.log.WithField("conn", connID).WithError(err).Warn("dropping inbound message")
		return nil
	}
	return g.do(ctx, func() { g.handle(connID, req) })
}

// Rooms lists every live room.
func (g *Gateway) Rooms(ctx context.Context) ([]room.Summary, error) {
	var out []room.Summary
	err := g.do(ctx, func() { out = g.rooms.Summaries() })
	return out, err
}

func (g *Gateway) handle(connID string, req Request) {
	if _, ok := g.conns[connID]; !ok {
		g.log.WithFields(logrus.Fields{"conn": connID, "event": req.Type()}).Warn("message from unknown connection")
		return
	}

	switch r := req.(type) {
	case *CreateRoomRequest:
		g.createRoom(connID, r)
	case *JoinRoomRequest:
		g.joinRoom(connID, r)
	case *StartGameRequest:
		g.startGame(connID, r)
	case *PlaceBetRequest:
		g.placeBet(connID, r)
	case *PlayCardRequest:
		g.playCard(connID, r)
	}
}

func (g *Gateway) createRoom(connID string, req *CreateRoomRequest) {
	r := g.rooms.CreateRoom(req.PlayerName, connID)
	g.log.WithFields(logrus.Fields{"room": r.ID, "conn": connID}).Info("room created")
	g.record(r.ID, connID, ActionRoomCreated, r.View())
	g.send(connID, EventRoomCreated, r.ID)
	g.broadcast(r, EventRoomUpdated, r.View())
}

func (g *Gateway) joinRoom(connID string, req *JoinRoomRequest) {
	r, err := g.rooms.JoinRoom(req.RoomID, req.PlayerName, connID)
	if err != nil {
		g.log.WithFields(logrus.Fields{"room": req.RoomID, "conn": connID}).WithError(err).Debug("join rejected")
		g.send(connID, EventError, err.Error())
		return
	}
	g.record(r.ID, connID, ActionPlayerJoined, r.View())
	g.broadcast(r, EventRoomUpdated, r.View())
}

func (g *Gateway) startGame(connID string, req *StartGameRequest) {
	r, ok := g.rooms.GetRoom(req.RoomID)
	if !ok {
		g.reject(connID, req, room.ErrRoomNotFound)
		return
	}
	if err := r.StartGame(connID, g.rng); err != nil {
		g.reject(connID, req, err)
		return
	}
	g.started[r.ID] = g.now()
	g.log.WithFields(logrus.Fields{"room": r.ID, "players": len(r.Players)}).Info("game started")
	g.record(r.ID, connID, ActionGameStarted, r.Game)
	g.broadcast(r, EventGameStarted, r.Game)
	g.broadcast(r, EventRoomUpdated, r.View())
}

func (g *Gateway) placeBet(connID string, req *PlaceBetRequest) {
	r, ok := g.rooms.GetRoom(req.RoomID)
	if !ok {
		g.reject(connID, req, room.ErrRoomNotFound)
		return
	}
	if err := r.PlaceBet(req.PlayerID, *req.Bet); err != nil {
		g.reject(connID, req, err)
		return
	}
	g.record(r.ID, connID, ActionBetPlaced, map[string]any{"playerId": req.PlayerID, "bet": *req.Bet})
	g.broadcast(r, EventGameStateUpdated, r.Game)
}

func (g *Gateway) playCard(connID string, req *PlayCardRequest) {
	r, ok := g.rooms.GetRoom(req.RoomID)
	if !ok {
		g.reject(connID, req, room.ErrRoomNotFound)
		return
	}
	complete, err := r.PlayCard(req.PlayerID, *req.CardIndex)
	if err != nil {
		g.reject(connID, req, err)
		return
	}
	played := r.Game.CurrentTrick[len(r.Game.CurrentTrick)-1]
	g.record(r.ID, connID, ActionCardPlayed, played)
	g.broadcast(r, EventGameStateUpdated, r.Game)

	if complete {
		id := r.ID
		g.sched.Schedule(id, g.trickDelay, func() { g.resolveTrick(id) })
	}
}

// resolveTrick is the deferred task scheduled when a trick completes. The
// room may be gone by the time it runs.
func (g *Gateway) resolveTrick(roomID string) {
	entry := g.log.WithField("room", roomID)
	r, ok := g.rooms.GetRoom(roomID)
	if !ok {
		entry.Debug("trick resolution for a destroyed room")
		return
	}
	out, err := r.ResolveTrick()
	if err != nil {
		entry.WithError(err).Debug("trick resolution skipped")
		return
	}
	g.record(r.ID, "", ActionTrickResolved, out)
	g.broadcast(r, EventGameStateUpdated, r.Game)

	if out.Round == nil || !out.Round.GameOver {
		return
	}

	winner := out.Round.Winner
	if winner != nil {
		entry = entry.WithField("winner", winner.ID)
	}
	entry.Info("game finished")
	g.record(r.ID, "", ActionGameFinished, GameFinishedPayload{Winner: winner})
	g.broadcast(r, EventGameFinished, GameFinishedPayload{Winner: winner})
	g.broadcast(r, EventRoomUpdated, r.View())
	g.saveResult(r, winner)
}

// reject drops a request that failed validation. Only join failures are
// reported to the client.
func (g *Gateway) reject(connID string, req Request, err error) {
	g.log.WithFields(logrus.Fields{"conn": connID, "event": req.Type()}).WithError(err).Debug("request ignored")
}

func (g *Gateway) saveResult(r *room.Room, winner *models.GamePlayer) {
	if g.results == nil {
		return
	}
	res := GameResult{
		RoomID:     r.ID,
		Rounds:     r.Game.CurrentRound,
		Players:    make([]models.GamePlayer, len(r.Game.Players)),
		StartedAt:  g.started[r.ID],
		FinishedAt: g.now(),
	}
	for i, p := range r.Game.Players {
		res.Players[i] = *p
	}
	if winner != nil {
		w := *winner
		res.Winner = &w
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := g.results.SaveResult(ctx, res); err != nil {
			g.log.WithField("room", res.RoomID).WithError(err).Error("failed to save game result")
		}
	}()
}

// record hands a journal entry to the journal goroutine without blocking.
func (g *Gateway) record(roomID, actor, action string, payload any) {
	if g.journal == nil {
		return
	}
	g.seq[roomID]++
	e := JournalEntry{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Seq:       g.seq[roomID],
		Actor:     actor,
		Event:     action,
		Timestamp: g.now(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			g.log.WithField("room", roomID).WithError(err).Warn("failed to encode journal payload")
		} else {
			e.Payload = data
		}
	}
	select {
	case g.journalCh <- e:
	default:
		g.log.WithFields(logrus.Fields{"room": roomID, "event": action}).Warn("journal buffer full, entry dropped")
	}
}

func (g *Gateway) drainJournal(ctx context.Context) {
	for {
		select {
		case e := <-g.journalCh:
			wctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := g.journal.Record(wctx, e); err != nil {
				g.log.WithFields(logrus.Fields{"room": e.RoomID, "event": e.Event}).WithError(err).Warn("journal write failed")
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) encode(eventType string, data any) []byte {
	msg, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		g.log.WithField("event", eventType).WithError(err).Error("failed to encode event")
		return nil
	}
	return msg
}

func (g *Gateway) send(connID, eventType string, data any) {
	msg := g.encode(eventType, data)
	if msg == nil {
		return
	}
	g.deliver(connID, eventType, msg)
}

func (g *Gateway) broadcast(r *room.Room, eventType string, data any) {
	msg := g.encode(eventType, data)
	if msg == nil {
		return
	}
	for _, id := range r.ConnectionIDs() {
		g.deliver(id, eventType, msg)
	}
}

func (g *Gateway) deliver(connID, eventType string, msg []byte) {
	c, ok := g.conns[connID]
	if !ok {
		return
	}
	if !c.Write(msg) {
		g.log.WithFields(logrus.Fields{"conn": connID, "event": eventType}).Warn("outbound buffer full, message dropped")
	}
}
