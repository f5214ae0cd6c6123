// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/fodinha/internal/models"
)

// DeckSize is the number of cards in a full deck: 4 suits x 10 values.
const DeckSize = 40

// Suits lists the suits in deck order.
var Suits = []models.Suit{models.Clubs, models.Hearts, models.Spades, models.Diamonds}

// Values lists the ranks in deck order.
var Values = []models.Value{
	models.Ace, models.Two, models.Three, models.Four, models.Five,
	models.Six, models.Seven, models.Jack, models.Queen, models.King,
}

// strengths is the manilha table. The four power cards sit alone at the top,
// every other rank is a suit-wide tier, so equal strengths are possible.
var strengths = map[models.Card]int{
	{Value: models.Four, Suit: models.Clubs}:     17,
	{Value: models.Seven, Suit: models.Hearts}:   16,
	{Value: models.Ace, Suit: models.Spades}:     15,
	{Value: models.Seven, Suit: models.Diamonds}: 14,

	{Value: models.Three, Suit: models.Clubs}:    13,
	{Value: models.Three, Suit: models.Hearts}:   13,
	{Value: models.Three, Suit: models.Spades}:   13,
	{Value: models.Three, Suit: models.Diamonds}: 13,

	{Value: models.Two, Suit: models.Clubs}:    12,
	{Value: models.Two, Suit: models.Hearts}:   12,
	{Value: models.Two, Suit: models.Spades}:   12,
	{Value: models.Two, Suit: models.Diamonds}: 12,

	{Value: models.Ace, Suit: models.Clubs}:    11,
	{Value: models.Ace, Suit: models.Hearts}:   11,
	{Value: models.Ace, Suit: models.Diamonds}: 11,

	{Value: models.King, Suit: models.Clubs}:    10,
	{Value: models.King, Suit: models.Hearts}:   10,
	{Value: models.King, Suit: models.Spades}:   10,
	{Value: models.King, Suit: models.Diamonds}: 10,

	{Value: models.Jack, Suit: models.Clubs}:    9,
	{Value: models.Jack, Suit: models.Hearts}:   9,
	{Value: models.Jack, Suit: models.Spades}:   9,
	{Value: models.Jack, Suit: models.Diamonds}: 9,

	{Value: models.Queen, Suit: models.Clubs}:    8,
	{Value: models.Queen, Suit: models.Hearts}:   8,
	{Value: models.Queen, Suit: models.Spades}:   8,
	{Value: models.Queen, Suit: models.Diamonds}: 8,

	{Value: models.Seven, Suit: models.Clubs}:  7,
	{Value: models.Seven, Suit: models.Spades}: 7,

	{Value: models.Six, Suit: models.Clubs}:    6,
	{Value: models.Six, Suit: models.Hearts}:   6,
	{Value: models.Six, Suit: models.Spades}:   6,
	{Value: models.Six, Suit: models.Diamonds}: 6,

	{Value: models.Five, Suit: models.Clubs}:    5,
	{Value: models.Five, Suit: models.Hearts}:   5,
	{Value: models.Five, Suit: models.Spades}:   5,
	{Value: models.Five, Suit: models.Diamonds}: 5,

	{Value: models.Four, Suit: models.Hearts}:   4,
	{Value: models.Four, Suit: models.Spades}:   4,
	{Value: models.Four, Suit: models.Diamonds}: 4,
}

// Strength returns the trick strength of a card, or 0 for a card outside the deck.
func Strength(c models.Card) int {
	return strengths[c]
}

// NewDeck returns the 40 distinct cards in suit-major order.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, value := range Values {
			deck = append(deck, models.Card{Value: value, Suit: suit})
		}
	}
	return deck
}

// Shuffle permutes the deck in place (Fisher-Yates via rand.Shuffle).
func Shuffle(deck []models.Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
