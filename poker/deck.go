package poker

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted indicates a deal was attempted with too few cards left.
// With 52 cards this is unreachable for table sizes up to 6 seats and is
// treated as a programming-invariant violation, not a recoverable condition.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// Deck is a standard 52-card deck dealt front to back. A deck is built and
// shuffled once per hand and never reused within it.
//
// Burn convention: the dealer burns one card before the flop, the turn and
// the river. Burned cards count against CardsRemaining like any other deal.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck using the provided RNG. The RNG is
// explicit so tests can make shuffles deterministic.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle rewinds the deck and performs a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// NewRiggedDeck returns a deck dealing the given cards first, in order,
// with the rest of the deck behind them. Test-only determinism hook.
func NewRiggedDeck(rng *rand.Rand, first ...Card) *Deck {
	d := NewDeck(rng)
	for i, want := range first {
		for j := i; j < len(d.cards); j++ {
			if d.cards[j] == want {
				d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
				break
			}
		}
	}
	return d
}

// Deal removes and returns the next n cards
func (d *Deck) Deal(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// Burn discards the next card
func (d *Deck) Burn() error {
	_, err := d.Deal(1)
	return err
}

// CardsRemaining returns the number of undealt cards
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
