package models

// Suit is one of the four suits of the 40-card deck.
type Suit string

const (
	Clubs    Suit = "clubs"
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
	Diamonds Suit = "diamonds"
)

// Value is a card rank. The deck has no 8, 9 or 10.
type Value string

const (
	Ace   Value = "A"
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
)

// Card is a single playing card as sent over the wire.
type Card struct {
	Value Value `json:"value"`
	Suit  Suit  `json:"suit"`
}

// String renders the card as "value-suit", e.g. "7-hearts".
func (c Card) String() string {
	return string(c.Value) + "-" + string(c.Suit)
}
