package game

import "github.com/pokerhall/holdem/internal/deck"

// SeatSnapshot is the sanitized public view of one seat. HoleCards is
// populated only at showdown; before that observers learn whether a
// seat holds cards, never which.
type SeatSnapshot struct {
	PlayerID   string      `json:"playerId"`
	Name       string      `json:"name"`
	Seat       int         `json:"seat"`
	Chips      int         `json:"chips"`
	Active     bool        `json:"active"`
	HasCards   bool        `json:"hasCards"`
	CurrentBet int         `json:"currentBet"`
	HoleCards  []deck.Card `json:"holeCards,omitempty"`
}

// Snapshot is a sanitized read-only projection of a session for the
// inspection API. It never exposes the deck.
type Snapshot struct {
	SessionID   string         `json:"sessionId"`
	Phase       string         `json:"phase"`
	Pot         int            `json:"pot"`
	CurrentBet  int            `json:"currentBet"`
	Dealer      int            `json:"dealer"`
	CurrentTurn int            `json:"currentTurn"`
	Community   []deck.Card    `json:"community"`
	Seats       []SeatSnapshot `json:"seats"`
}

// Snapshot renders the sanitized projection of the session's current
// state. Settlement returns the phase to Waiting before control leaves
// the session, so outside callers never observe the showdown reveal;
// winners' cards travel in the RoundEnded event. The reveal branch
// covers direct in-phase inspection only.
func (s *Session) Snapshot() Snapshot {
	reveal := s.phase == Showdown

	seats := make([]SeatSnapshot, len(s.players))
	for i, p := range s.players {
		seats[i] = SeatSnapshot{
			PlayerID:   p.ID,
			Name:       p.Name,
			Seat:       i,
			Chips:      p.Chips,
			Active:     p.Active,
			HasCards:   p.HasCards(),
			CurrentBet: p.CurrentBet,
		}
		if reveal {
			seats[i].HoleCards = append([]deck.Card(nil), p.HoleCards...)
		}
	}

	return Snapshot{
		SessionID:   s.id,
		Phase:       s.phase.String(),
		Pot:         s.pot,
		CurrentBet:  s.currentBet,
		Dealer:      s.dealer,
		CurrentTurn: s.currentTurn,
		Community:   s.Community(),
		Seats:       seats,
	}
}
