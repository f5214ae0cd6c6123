// internal/room/registry.go
package room

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/jason-s-yu/fodinha/internal/models"
)

var (
	ErrRoomNotFound = errors.New("Room not found")
	ErrRoomFull     = errors.New("Room is full (maximum 5 players)")
)

// Registry holds every live room keyed by code. It is not safe for concurrent
// use; the session gateway owns it.
type Registry struct {
	rooms map[string]*Room
	rng   *rand.Rand
	now   func() time.Time
}

// NewRegistry creates an empty registry drawing room codes from rng.
func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		rng:   rng,
		now:   time.Now,
	}
}

// CreateRoom opens a waiting room with connID as host.
func (reg *Registry) CreateRoom(hostName, connID string) *Room {
	code := randomCode(reg.rng)
	for reg.rooms[code] != nil {
		code = randomCode(reg.rng)
	}

	r := &Room{
		ID: code,
		Players: []*models.LobbyPlayer{
			{ID: connID, Name: hostName, IsHost: true},
		},
		Status:    StatusWaiting,
		CreatedAt: reg.now(),
	}
	reg.rooms[code] = r
	return r
}

// JoinRoom adds connID to the room as a regular player. Joining is allowed in
// any status as long as a seat is free.
func (reg *Registry) JoinRoom(roomID, name, connID string) (*Room, error) {
	r, ok := reg.GetRoom(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if len(r.Players) >= MaxPlayers {
		return nil, ErrRoomFull
	}
	r.Players = append(r.Players, &models.LobbyPlayer{ID: connID, Name: name})
	return r, nil
}

// GetRoom looks a room up by code, ignoring case and surrounding spaces.
func (reg *Registry) GetRoom(roomID string) (*Room, bool) {
	r, ok := reg.rooms[NormalizeCode(roomID)]
	return r, ok
}

// RemoveConnection drops connID from every room it belongs to. Rooms left
// empty are deleted and reported in destroyed; the rest are returned in
// updated, with the first remaining player promoted if the host left. A
// running game is left as it is.
func (reg *Registry) RemoveConnection(connID string) (updated []*Room, destroyed []string) {
	for _, id := range reg.sortedIDs() {
		r := reg.rooms[id]
		if !r.has(connID) {
			continue
		}

		kept := r.Players[:0]
		for _, p := range r.Players {
			if p.ID != connID {
				kept = append(kept, p)
			}
		}
		r.Players = kept

		if len(r.Players) == 0 {
			delete(reg.rooms, id)
			destroyed = append(destroyed, id)
			continue
		}
		if r.Host() == nil {
			r.Players[0].IsHost = true
		}
		updated = append(updated, r)
	}
	return updated, destroyed
}

// Summaries lists every room sorted by code.
func (reg *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(reg.rooms))
	for _, id := range reg.sortedIDs() {
		out = append(out, reg.rooms[id].Summary())
	}
	return out
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}

func (reg *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
