package deck

import (
	"errors"
	"testing"

	"github.com/pokerhall/holdem/internal/randutil"
)

func TestNewDeckHasAllFiftyTwoCards(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(1))
	if d.Remaining() != Size {
		t.Fatalf("expected %d cards, got %d", Size, d.Remaining())
	}

	seen := make(map[Card]bool)
	cards, err := d.Deal(Size)
	if err != nil {
		t.Fatalf("dealing full deck: %v", err)
	}
	for _, c := range cards {
		if seen[c] {
			t.Errorf("duplicate card dealt: %s", c)
		}
		seen[c] = true
		if c.Rank < Two || c.Rank > Ace {
			t.Errorf("card outside universe: %s", c)
		}
	}
	if len(seen) != Size {
		t.Errorf("expected %d distinct cards, got %d", Size, len(seen))
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := New(randutil.New(42))
	b := New(randutil.New(42))
	c := New(randutil.New(43))

	ca, _ := a.Deal(Size)
	cb, _ := b.Deal(Size)
	cc, _ := c.Deal(Size)

	same := true
	differs := false
	for i := range ca {
		if ca[i] != cb[i] {
			same = false
		}
		if ca[i] != cc[i] {
			differs = true
		}
	}
	if !same {
		t.Error("same seed should produce the same permutation")
	}
	if !differs {
		t.Error("different seeds should produce different permutations")
	}
}

func TestDealFailsFastWhenShort(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(7))
	if _, err := d.Deal(50); err != nil {
		t.Fatalf("dealing 50: %v", err)
	}

	_, err := d.Deal(3)
	if !errors.Is(err, ErrInsufficientCards) {
		t.Fatalf("expected ErrInsufficientCards, got %v", err)
	}
	if d.Remaining() != 2 {
		t.Errorf("failed deal should not consume cards, remaining %d", d.Remaining())
	}
}

func TestResetRestoresFullDeck(t *testing.T) {
	t.Parallel()

	d := New(randutil.New(9))
	if _, err := d.Deal(30); err != nil {
		t.Fatal(err)
	}
	d.Reset()
	if d.Remaining() != Size {
		t.Errorf("reset deck should hold %d cards, got %d", Size, d.Remaining())
	}
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	t.Parallel()

	want := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, Two),
		NewCard(Clubs, King),
	}
	d := NewStacked(want...)

	got, err := d.Deal(3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("card %d: got %s, want %s", i, got[i], want[i])
		}
	}

	d.Reset()
	if d.Remaining() != len(want) {
		t.Errorf("reset stacked deck should restore %d cards, got %d", len(want), d.Remaining())
	}
}
