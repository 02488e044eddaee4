package game

import "testing"

func TestStreetTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from   Phase
		to     Phase
		reveal int
	}{
		{PreFlop, Flop, 3},
		{Flop, Turn, 1},
		{Turn, River, 1},
		{River, Showdown, 0},
		{Waiting, Waiting, 0},
		{Showdown, Showdown, 0},
	}

	for _, tc := range cases {
		next, reveal := nextStreet(tc.from)
		if next != tc.to || reveal != tc.reveal {
			t.Errorf("nextStreet(%s) = (%s, %d), want (%s, %d)", tc.from, next, reveal, tc.to, tc.reveal)
		}
	}
}

func TestIsBettingStreet(t *testing.T) {
	t.Parallel()

	betting := []Phase{PreFlop, Flop, Turn, River}
	for _, p := range betting {
		if !p.IsBettingStreet() {
			t.Errorf("%s should accept actions", p)
		}
	}
	for _, p := range []Phase{Waiting, Showdown} {
		if p.IsBettingStreet() {
			t.Errorf("%s should not accept actions", p)
		}
	}
}
