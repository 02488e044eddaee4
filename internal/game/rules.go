package game

import "fmt"

// Rules are the table parameters the engine receives as input. Nothing
// in here is hard-coded by the engine itself.
type Rules struct {
	SmallBlind int
	BigBlind   int
	MinPlayers int
	MaxPlayers int
}

// DefaultRules returns the stakes used when no configuration overrides
// them.
func DefaultRules() Rules {
	return Rules{
		SmallBlind: 5,
		BigBlind:   10,
		MinPlayers: 2,
		MaxPlayers: 8,
	}
}

// Validate checks the rule set for internal consistency.
func (r Rules) Validate() error {
	if r.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", r.SmallBlind)
	}
	if r.BigBlind <= r.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d", r.BigBlind, r.SmallBlind)
	}
	if r.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2, got %d", r.MinPlayers)
	}
	if r.MaxPlayers < r.MinPlayers {
		return fmt.Errorf("max players %d below min players %d", r.MaxPlayers, r.MinPlayers)
	}
	// 8 seats x 2 hole cards + 5 board cards still leaves deck headroom;
	// beyond 23 seats the deck cannot cover a round.
	if r.MaxPlayers > 10 {
		return fmt.Errorf("max players capped at 10, got %d", r.MaxPlayers)
	}
	return nil
}

// minRaise is the required raise increment above the table bet.
func (r Rules) minRaise() int {
	return r.BigBlind
}
