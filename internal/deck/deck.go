package deck

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/pokerhall/holdem/internal/randutil"
)

// Size is the number of cards in a full deck.
const Size = 52

// ErrInsufficientCards is returned when a deal asks for more cards than
// remain. Dealing never silently truncates; a short deck mid-round means
// game state has already gone wrong somewhere upstream.
var ErrInsufficientCards = fmt.Errorf("deck: insufficient cards remaining")

// Deck is an ordered sequence of the 52 distinct cards. Dealing removes
// cards from the front and transfers ownership to the caller; removed
// cards only come back via Reset.
type Deck struct {
	cards   []Card
	rng     *rand.Rand
	stacked []Card // non-nil for fixed-order test decks
}

// New creates a full 52-card deck shuffled with rng. A nil rng gets a
// time-derived seed.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.New(time.Now().UnixNano())
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStacked creates a deck that deals the given cards in order and
// restores exactly that order on Reset. Intended for deterministic tests.
func NewStacked(cards ...Card) *Deck {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	d := &Deck{stacked: stacked}
	d.Reset()
	return d
}

// Reset restores the deck to its full starting sequence: a fresh
// shuffle of all 52 cards, or the stacked order for test decks.
func (d *Deck) Reset() {
	if d.stacked != nil {
		d.cards = append(d.cards[:0], d.stacked...)
		return
	}

	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.shuffle()
}

// shuffle applies an unbiased Fisher-Yates permutation.
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the first n cards. It fails with
// ErrInsufficientCards when fewer than n remain, leaving the deck
// untouched.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
