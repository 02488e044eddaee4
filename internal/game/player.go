package game

import "github.com/pokerhall/holdem/internal/deck"

// Player is the per-seat mutable state. The stack carries over between
// rounds; hand state is reset at every StartRound.
type Player struct {
	ID         string
	Name       string
	Chips      int
	HoleCards  []deck.Card
	Active     bool // false once folded
	CurrentBet int  // chips committed during the current street
}

// NewPlayer creates a seated player with a starting stack.
func NewPlayer(id, name string, chips int) *Player {
	return &Player{ID: id, Name: name, Chips: chips}
}

// resetForRound clears hand state at the start of a round.
func (p *Player) resetForRound() {
	p.HoleCards = nil
	p.Active = true
	p.CurrentBet = 0
}

// HasCards reports whether the player currently holds hole cards.
func (p *Player) HasCards() bool {
	return len(p.HoleCards) > 0
}

// canAct reports whether the seat is eligible to hold the turn: not
// folded and not fully committed. Skipping all-in seats keeps the turn
// from stalling on a player with no decision left to make.
func (p *Player) canAct() bool {
	return p.Active && p.Chips > 0
}

// pay moves up to amount chips from the stack, clamped to what the
// player has, and records the street contribution. It returns the
// amount actually moved.
func (p *Player) pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.CurrentBet += amount
	return amount
}
