package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrExhausted is returned when drawing from an empty deck. With at most
// six seats a hand can never consume all 52 cards, so hitting this is a
// programming defect rather than a recoverable game condition.
var ErrExhausted = errors.New("deck exhausted")

// Deck is a shuffled sequence of the 52 distinct cards. Drawing pops from
// the end.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard 52-card deck shuffled with the provided RNG.
// A nil rng falls back to the global math/rand source.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}

	d.Shuffle()
	return d
}

// Shuffle randomizes the order of the remaining cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// MustDraw removes and returns the top card, panicking if the deck is
// empty. Used by the hand lifecycle, where exhaustion is unreachable.
func (d *Deck) MustDraw() Card {
	card, err := d.Draw()
	if err != nil {
		panic(err)
	}
	return card
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
