package game

import (
	"testing"

	"github.com/pokerhall/holdem/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

// threeWayTieDeck stacks a deck so the board makes a royal flush and
// every hole card is dead weight: all three seats tie at showdown.
//
// Dealing order with dealer 0 is seats 1,2,0,1,2,0, then the flop,
// turn and river.
func threeWayTieDeck() *deck.Deck {
	return deck.NewStacked(
		card(deck.Hearts, deck.Two),     // seat 1
		card(deck.Diamonds, deck.Two),   // seat 2
		card(deck.Clubs, deck.Two),      // seat 0
		card(deck.Hearts, deck.Three),   // seat 1
		card(deck.Diamonds, deck.Three), // seat 2
		card(deck.Clubs, deck.Three),    // seat 0
		card(deck.Spades, deck.Ace),     // flop
		card(deck.Spades, deck.King),
		card(deck.Spades, deck.Queen),
		card(deck.Spades, deck.Jack), // turn
		card(deck.Spades, deck.Ten),  // river
	)
}

func TestThreeWayTieSplitsDeterministically(t *testing.T) {
	t.Parallel()

	sink := &collectorSink{}
	s := NewSession("test", DefaultRules(), WithDeck(threeWayTieDeck()), WithSink(sink))
	if _, err := s.AddPlayer("p0", "alice", 40); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPlayer("p1", "bob", 30); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPlayer("p2", "carol", 30); err != nil {
		t.Fatal(err)
	}
	if err := s.StartRound(); err != nil {
		t.Fatal(err)
	}

	// Blinds: seat 1 posts 5, seat 2 posts 10. Seat 0 shoves for 40,
	// both others call all-in short: the pot is exactly 100.
	if err := s.HandleAction("p0", Raise, 40); err != nil {
		t.Fatal(err)
	}
	if err := s.HandleAction("p1", Call, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.HandleAction("p2", Call, 0); err != nil {
		t.Fatal(err)
	}

	// Everyone all-in: the board runs out and the round settles.
	if s.Phase() != Waiting {
		t.Fatalf("phase = %s, want waiting", s.Phase())
	}

	ended := sink.ofType(EventRoundEnded)
	if len(ended) != 1 {
		t.Fatalf("expected one RoundEnded, got %d", len(ended))
	}
	re := ended[0].(RoundEnded)
	if !re.Showdown {
		t.Error("expected a showdown settlement")
	}
	if re.Pot != 100 {
		t.Errorf("pot = %d, want 100", re.Pot)
	}
	if len(re.Winners) != 3 {
		t.Fatalf("expected a three-way tie, got %d winners", len(re.Winners))
	}

	// 100/3: the remainder goes one chip at a time in seating order.
	wantAmounts := []int{34, 33, 33}
	wantIDs := []string{"p0", "p1", "p2"}
	for i, w := range re.Winners {
		if w.PlayerID != wantIDs[i] {
			t.Errorf("winner %d = %s, want %s", i, w.PlayerID, wantIDs[i])
		}
		if w.Amount != wantAmounts[i] {
			t.Errorf("winner %d amount = %d, want %d", i, w.Amount, wantAmounts[i])
		}
		if w.Category != "Royal Flush" {
			t.Errorf("winner %d category = %q, want Royal Flush", i, w.Category)
		}
		if len(w.HoleCards) != 2 {
			t.Errorf("showdown winners reveal their hole cards, got %d", len(w.HoleCards))
		}
	}

	for i, want := range []int{34, 33, 33} {
		if got := s.Players()[i].Chips; got != want {
			t.Errorf("seat %d chips = %d, want %d", i, got, want)
		}
	}
}

func TestShowdownPicksStrongestHand(t *testing.T) {
	t.Parallel()

	// Seat 0 holds pocket aces for a set; seat 1 has nothing. Dealer 0,
	// heads-up deal order is seats 1,0,1,0.
	d := deck.NewStacked(
		card(deck.Hearts, deck.Seven), // seat 1
		card(deck.Spades, deck.Ace),   // seat 0
		card(deck.Diamonds, deck.Two), // seat 1
		card(deck.Hearts, deck.Ace),   // seat 0
		card(deck.Diamonds, deck.Ace), // flop
		card(deck.Clubs, deck.King),
		card(deck.Clubs, deck.Nine),
		card(deck.Diamonds, deck.Five), // turn
		card(deck.Hearts, deck.Jack),   // river
	)

	sink := &collectorSink{}
	s := NewSession("test", DefaultRules(), WithDeck(d), WithSink(sink))
	if _, err := s.AddPlayer("p0", "alice", 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPlayer("p1", "bob", 1000); err != nil {
		t.Fatal(err)
	}
	if err := s.StartRound(); err != nil {
		t.Fatal(err)
	}

	// Call down to showdown.
	if err := s.HandleAction("p1", Call, 0); err != nil {
		t.Fatal(err)
	}
	for s.Phase().IsBettingStreet() {
		actor := s.Players()[s.CurrentTurn()]
		if err := s.HandleAction(actor.ID, Check, 0); err != nil {
			t.Fatal(err)
		}
	}

	re := sink.ofType(EventRoundEnded)[0].(RoundEnded)
	if len(re.Winners) != 1 || re.Winners[0].PlayerID != "p0" {
		t.Fatalf("expected p0 to win, got %+v", re.Winners)
	}
	if re.Winners[0].Category != "Three of a Kind" {
		t.Errorf("category = %q, want Three of a Kind", re.Winners[0].Category)
	}
	p0, _ := s.Player("p0")
	if p0.Chips != 1010 {
		t.Errorf("winner chips = %d, want 1010", p0.Chips)
	}
}
