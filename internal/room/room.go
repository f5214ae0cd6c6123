// internal/room/room.go
package room

import (
	"math/rand"
	"time"

	"github.com/jason-s-yu/fodinha/internal/game"
	"github.com/jason-s-yu/fodinha/internal/models"
)

// Status is the lifecycle stage of a room.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// MaxPlayers is the seat limit of a room.
const MaxPlayers = 5

// Room is a named group of connections and, once started, their game.
type Room struct {
	ID        string                // 4-char uppercase code
	Players   []*models.LobbyPlayer // join order; seat order once started
	Status    Status
	Game      *game.GameState // nil while waiting
	CreatedAt time.Time
}

// View is the payload of a roomUpdated event.
type View struct {
	Players []models.LobbyPlayer `json:"players"`
	Status  Status               `json:"status"`
}

// Summary is a room as listed by GET /rooms.
type Summary struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"playerCount"`
	Status      Status `json:"status"`
	Round       int    `json:"round,omitempty"`
}

// View snapshots the membership list.
func (r *Room) View() View {
	players := make([]models.LobbyPlayer, len(r.Players))
	for i, p := range r.Players {
		players[i] = *p
	}
	return View{Players: players, Status: r.Status}
}

func (r *Room) Summary() Summary {
	s := Summary{ID: r.ID, PlayerCount: len(r.Players), Status: r.Status}
	if r.Game != nil {
		s.Round = r.Game.CurrentRound
	}
	return s
}

// Host returns the host player, or nil.
func (r *Room) Host() *models.LobbyPlayer {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// ConnectionIDs lists the connections that receive this room's broadcasts.
func (r *Room) ConnectionIDs() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

func (r *Room) has(connID string) bool {
	for _, p := range r.Players {
		if p.ID == connID {
			return true
		}
	}
	return false
}

func (r *Room) checkStart(requester string) error {
	if r.Status != StatusWaiting {
		return game.ErrIllegalTransition
	}
	host := r.Host()
	if host == nil || host.ID != requester {
		return game.ErrNotAuthorized
	}
	return nil
}

// StartGame seats the current players and deals the first round. Only the
// host of a waiting room may start it.
func (r *Room) StartGame(requester string, rng *rand.Rand) error {
	if err := r.checkStart(requester); err != nil {
		return err
	}
	players := make([]models.LobbyPlayer, len(r.Players))
	for i, p := range r.Players {
		players[i] = *p
	}
	r.Game = game.NewGameState(players, rng)
	r.Status = StatusPlaying
	return nil
}

func (r *Room) checkPlaying() error {
	if r.Status != StatusPlaying || r.Game == nil {
		return game.ErrIllegalTransition
	}
	return nil
}

func (r *Room) PlaceBet(playerID string, bet int) error {
	if err := r.checkPlaying(); err != nil {
		return err
	}
	return r.Game.PlaceBet(playerID, bet)
}

// PlayCard reports whether the play completed the trick.
func (r *Room) PlayCard(playerID string, cardIndex int) (bool, error) {
	if err := r.checkPlaying(); err != nil {
		return false, err
	}
	return r.Game.PlayCard(playerID, cardIndex)
}

// ResolveTrick resolves the pending trick and marks the room finished when
// the game ends.
func (r *Room) ResolveTrick() (game.TrickOutcome, error) {
	if err := r.checkPlaying(); err != nil {
		return game.TrickOutcome{}, err
	}
	out, err := r.Game.ResolveTrick()
	if err != nil {
		return out, err
	}
	if r.Game.GameOver {
		r.Status = StatusFinished
	}
	return out, nil
}
