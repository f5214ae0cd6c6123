package models

// LobbyPlayer is a connection's membership in a room. ID is the connection id.
type LobbyPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	Ready  bool   `json:"ready"` // tracked, does not gate game start
}

// GamePlayer is a seat in a running game.
type GamePlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Cards      []Card `json:"cards"`
	Bet        *int   `json:"bet"` // nil until placed
	Wins       int    `json:"wins"`
	Points     int    `json:"points"`
	Eliminated bool   `json:"eliminated"`
	IsHuman    bool   `json:"isHuman"`
}

// Active reports whether the seat still takes part in rounds.
func (p *GamePlayer) Active() bool {
	return !p.Eliminated
}
