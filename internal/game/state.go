// internal/game/state.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/fodinha/internal/models"
)

// EliminationPoints is the penalty total at which a player is knocked out.
const EliminationPoints = 5

// TrickPlay is one card laid on the table, with the seat that played it.
type TrickPlay struct {
	PlayerIndex int         `json:"playerIndex"`
	Card        models.Card `json:"card"`
}

// GameState is the per-room card game. It is not safe for concurrent use;
// the session gateway serialises every access.
type GameState struct {
	Players            []*models.GamePlayer `json:"players"`
	CurrentRound       int                  `json:"currentRound"`
	CardsPerPlayer     int                  `json:"cardsPerPlayer"`
	Direction          int                  `json:"direction"`
	MaxCardsPerPlayer  int                  `json:"maxCardsPerPlayer"`
	DealerIndex        int                  `json:"dealerIndex"`
	CurrentPlayerIndex int                  `json:"currentPlayerIndex"`
	CurrentTurn        int                  `json:"currentTurn"`
	CurrentTrick       []TrickPlay          `json:"currentTrick"`
	FirstCardPlayed    *models.Card         `json:"firstCardPlayed"`
	BettingPhase       bool                 `json:"bettingPhase"`
	PlayingPhase       bool                 `json:"playingPhase"`
	BlindRound         bool                 `json:"blindRound"`
	SelectedCardIndex  *int                 `json:"selectedCardIndex"`

	// TrickPending is set between the last card of a trick and its resolution.
	TrickPending bool `json:"trickPending"`
	GameOver     bool `json:"gameOver"`

	rng *rand.Rand
}

// SeatOf returns the seat index of playerID, or -1.
func (gs *GameState) SeatOf(playerID string) int {
	for i, p := range gs.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// ActivePlayers counts seats that are not eliminated.
func (gs *GameState) ActivePlayers() int {
	n := 0
	for _, p := range gs.Players {
		if p.Active() {
			n++
		}
	}
	return n
}

// nextActiveSeat walks clockwise from seat and returns the first active seat
// after it. Returns seat itself when nobody else is active.
func (gs *GameState) nextActiveSeat(seat int) int {
	n := len(gs.Players)
	for k := 1; k <= n; k++ {
		i := (seat + k) % n
		if gs.Players[i].Active() {
			return i
		}
	}
	return seat
}

// allBetsPlaced reports whether every active seat has a bet.
func (gs *GameState) allBetsPlaced() bool {
	for _, p := range gs.Players {
		if p.Active() && p.Bet == nil {
			return false
		}
	}
	return true
}

// winner returns the first active player, or nil.
func (gs *GameState) winner() *models.GamePlayer {
	for _, p := range gs.Players {
		if p.Active() {
			return p
		}
	}
	return nil
}
