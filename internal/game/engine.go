// internal/game/engine.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/fodinha/internal/models"
)

// RoundOutcome describes the scoring at the end of a round.
type RoundOutcome struct {
	Round      int            `json:"round"`
	Penalties  map[string]int `json:"penalties"`  // player id -> points added this round
	Eliminated []string       `json:"eliminated"` // ids eliminated this round
	GameOver   bool           `json:"gameOver"`

	// Winner is the sole survivor when GameOver; nil if nobody survived.
	Winner *models.GamePlayer `json:"winner"`
}

// TrickOutcome describes a resolved trick.
type TrickOutcome struct {
	Tie        bool          `json:"tie"`
	WinnerSeat int           `json:"winnerSeat"` // -1 on a tie
	Round      *RoundOutcome `json:"round,omitempty"`
}

// NewGameState seats the lobby players in order and deals the first round.
func NewGameState(players []models.LobbyPlayer, rng *rand.Rand) *GameState {
	seats := make([]*models.GamePlayer, len(players))
	for i, lp := range players {
		seats[i] = &models.GamePlayer{
			ID:      lp.ID,
			Name:    lp.Name,
			Cards:   []models.Card{},
			IsHuman: i == 0,
		}
	}

	maxCards := 0
	if len(seats) > 0 {
		maxCards = DeckSize / len(seats)
	}

	gs := &GameState{
		Players:            seats,
		CurrentRound:       1,
		CardsPerPlayer:     1,
		Direction:          1,
		MaxCardsPerPlayer:  maxCards,
		DealerIndex:        0,
		CurrentPlayerIndex: 0,
		CurrentTrick:       []TrickPlay{},
		BettingPhase:       true,
		BlindRound:         true,
		rng:                rng,
	}
	gs.deal()
	return gs
}

// deal hands out CardsPerPlayer cards to each active seat, one card per pass,
// starting with the seat after the dealer. Unused cards are discarded.
func (gs *GameState) deal() {
	deck := NewDeck()
	Shuffle(deck, gs.rng)

	n := len(gs.Players)
	next := 0
	for pass := 0; pass < gs.CardsPerPlayer; pass++ {
		for k := 1; k <= n; k++ {
			p := gs.Players[(gs.DealerIndex+k)%n]
			if !p.Active() {
				continue
			}
			if next >= len(deck) {
				return
			}
			p.Cards = append(p.Cards, deck[next])
			next++
		}
	}
}

// PlaceBet records a bet for playerID. Neither the caller's identity nor the
// betting order is checked. Once every active seat has bet, play begins.
func (gs *GameState) PlaceBet(playerID string, bet int) error {
	seat, err := gs.checkBet(playerID, bet)
	if err != nil {
		return err
	}

	b := bet
	gs.Players[seat].Bet = &b

	if gs.allBetsPlaced() {
		gs.startPlayingPhase()
	} else {
		gs.CurrentPlayerIndex = gs.nextActiveSeat(gs.CurrentPlayerIndex)
	}
	return nil
}

func (gs *GameState) startPlayingPhase() {
	gs.BettingPhase = false
	gs.PlayingPhase = true
	gs.CurrentTurn = 0
	gs.CurrentTrick = []TrickPlay{}
	gs.FirstCardPlayed = nil
	gs.SelectedCardIndex = nil
	gs.CurrentPlayerIndex = gs.nextActiveSeat(gs.DealerIndex)
}

// PlayCard plays the card at cardIndex from playerID's hand. It reports true
// when the trick is complete; the caller must then schedule ResolveTrick.
func (gs *GameState) PlayCard(playerID string, cardIndex int) (bool, error) {
	seat, err := gs.checkPlay(playerID, cardIndex)
	if err != nil {
		return false, err
	}

	p := gs.Players[seat]
	card := p.Cards[cardIndex]
	p.Cards = append(p.Cards[:cardIndex:cardIndex], p.Cards[cardIndex+1:]...)

	gs.CurrentTrick = append(gs.CurrentTrick, TrickPlay{PlayerIndex: seat, Card: card})
	if len(gs.CurrentTrick) == 1 {
		c := card
		gs.FirstCardPlayed = &c
	}
	gs.CurrentPlayerIndex = gs.nextActiveSeat(seat)

	if len(gs.CurrentTrick) == gs.ActivePlayers() {
		gs.TrickPending = true
		return true, nil
	}
	return false, nil
}

// DetermineTrickWinner returns the index into plays of the strongest card and
// whether that top strength is shared. A tie below the final maximum does not
// count. Returns -1 for an empty trick.
func DetermineTrickWinner(plays []TrickPlay) (int, bool) {
	if len(plays) == 0 {
		return -1, false
	}
	winning, maxStrength, tie := 0, 0, false
	for i, play := range plays {
		s := Strength(play.Card)
		if s == maxStrength {
			tie = true
		} else if s > maxStrength {
			winning, maxStrength, tie = i, s, false
		}
	}
	return winning, tie
}

// ResolveTrick scores the pending trick. On a tie nobody wins and the same
// seat leads again; otherwise the winner leads. The round ends once
// CardsPerPlayer tricks have been played.
func (gs *GameState) ResolveTrick() (TrickOutcome, error) {
	if err := gs.checkResolve(); err != nil {
		return TrickOutcome{}, err
	}

	idx, tie := DetermineTrickWinner(gs.CurrentTrick)
	out := TrickOutcome{Tie: tie, WinnerSeat: -1}
	if !tie {
		out.WinnerSeat = gs.CurrentTrick[idx].PlayerIndex
		gs.Players[out.WinnerSeat].Wins++
	}

	gs.CurrentTurn++
	gs.CurrentTrick = []TrickPlay{}
	gs.FirstCardPlayed = nil
	gs.TrickPending = false

	if gs.CurrentTurn == gs.CardsPerPlayer {
		round := gs.endRound()
		out.Round = &round
		return out, nil
	}
	if !tie {
		gs.CurrentPlayerIndex = out.WinnerSeat
	}
	return out, nil
}

// penalty is the points a player takes for missing their bet.
func penalty(bet, wins int) int {
	if bet == 0 {
		return wins
	}
	if bet > wins {
		return bet - wins
	}
	return wins - bet
}

// NextHandSize steps the hand size along the 1..max..1 wave.
func NextHandSize(cards, direction, maxCards int) (int, int) {
	cards += direction
	if cards == 1 {
		direction = 1
	} else if cards == maxCards {
		direction = -1
	}
	return cards, direction
}

func (gs *GameState) endRound() RoundOutcome {
	out := RoundOutcome{
		Round:      gs.CurrentRound,
		Penalties:  make(map[string]int),
		Eliminated: []string{},
	}

	for _, p := range gs.Players {
		if !p.Active() {
			continue
		}
		bet := 0
		if p.Bet != nil {
			bet = *p.Bet
		}
		d := penalty(bet, p.Wins)
		p.Points += d
		out.Penalties[p.ID] = d
		if p.Points >= EliminationPoints {
			p.Eliminated = true
			out.Eliminated = append(out.Eliminated, p.ID)
		}
	}

	if gs.ActivePlayers() <= 1 {
		gs.GameOver = true
		gs.BettingPhase = false
		gs.PlayingPhase = false
		out.GameOver = true
		out.Winner = gs.winner()
		return out
	}

	gs.DealerIndex = gs.nextActiveSeat(gs.DealerIndex)
	gs.CardsPerPlayer, gs.Direction = NextHandSize(gs.CardsPerPlayer, gs.Direction, gs.MaxCardsPerPlayer)

	gs.CurrentRound++
	gs.BettingPhase = true
	gs.PlayingPhase = false
	gs.BlindRound = gs.CardsPerPlayer == 1
	gs.CurrentTurn = 0
	gs.SelectedCardIndex = nil

	for _, p := range gs.Players {
		if p.Active() {
			p.Cards = []models.Card{}
			p.Bet = nil
			p.Wins = 0
		}
	}
	gs.deal()
	gs.CurrentPlayerIndex = gs.nextActiveSeat(gs.DealerIndex)
	return out
}
