package game

import "github.com/pokerhall/holdem/internal/deck"

// EventType identifies an outbound engine event.
type EventType string

const (
	EventSessionCreated    EventType = "session_created"
	EventPlayerJoined      EventType = "player_joined"
	EventPlayerLeft        EventType = "player_left"
	EventRoundStarted      EventType = "round_started"
	EventCardsDealt        EventType = "cards_dealt"
	EventCommunityRevealed EventType = "community_cards_revealed"
	EventTurnChanged       EventType = "turn_changed"
	EventPlayerFolded      EventType = "player_folded"
	EventPlayerChecked     EventType = "player_checked"
	EventPlayerCalled      EventType = "player_called"
	EventPlayerRaised      EventType = "player_raised"
	EventRoundEnded        EventType = "round_ended"
	EventReadyForNextRound EventType = "ready_for_next_round"
)

// Event is anything the engine reports to the transport layer.
type Event interface {
	Type() EventType
}

// PrivateEvent is addressed to a single player instead of the table.
type PrivateEvent interface {
	Event
	Recipient() string
}

// Sink receives engine events. The engine publishes synchronously from
// within command execution; sinks must not call back into the session.
type Sink interface {
	Publish(ev Event)
}

// discardSink swallows events for sessions without a transport.
type discardSink struct{}

func (discardSink) Publish(Event) {}

// SeatState is the public view of one seat carried inside events.
type SeatState struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Chips      int    `json:"chips"`
	Active     bool   `json:"active"`
	CurrentBet int    `json:"currentBet"`
}

type SessionCreated struct {
	SessionID string `json:"sessionId"`
}

func (SessionCreated) Type() EventType { return EventSessionCreated }

type PlayerJoined struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
	Chips    int    `json:"chips"`
}

func (PlayerJoined) Type() EventType { return EventPlayerJoined }

type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

func (PlayerLeft) Type() EventType { return EventPlayerLeft }

// RoundStarted carries dealer/blind positions, the opening turn and the
// public stacks. Hole cards never appear here; they travel in the
// private CardsDealt events.
type RoundStarted struct {
	Dealer         int         `json:"dealer"`
	SmallBlindSeat int         `json:"smallBlindSeat"`
	BigBlindSeat   int         `json:"bigBlindSeat"`
	CurrentTurn    int         `json:"currentTurn"`
	Pot            int         `json:"pot"`
	CurrentBet     int         `json:"currentBet"`
	Seats          []SeatState `json:"seats"`
}

func (RoundStarted) Type() EventType { return EventRoundStarted }

// CardsDealt is private: it is addressed to exactly one player and
// contains only that player's hole cards.
type CardsDealt struct {
	PlayerID string      `json:"playerId"`
	Cards    []deck.Card `json:"cards"`
}

func (CardsDealt) Type() EventType { return EventCardsDealt }

func (e CardsDealt) Recipient() string { return e.PlayerID }

type CommunityRevealed struct {
	Phase     string      `json:"phase"`
	New       []deck.Card `json:"newCards"`
	Community []deck.Card `json:"community"`
}

func (CommunityRevealed) Type() EventType { return EventCommunityRevealed }

type TurnChanged struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
}

func (TurnChanged) Type() EventType { return EventTurnChanged }

type PlayerFolded struct {
	PlayerID string `json:"playerId"`
}

func (PlayerFolded) Type() EventType { return EventPlayerFolded }

type PlayerChecked struct {
	PlayerID string `json:"playerId"`
}

func (PlayerChecked) Type() EventType { return EventPlayerChecked }

type PlayerCalled struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
	Pot      int    `json:"pot"`
}

func (PlayerCalled) Type() EventType { return EventPlayerCalled }

type PlayerRaised struct {
	PlayerID   string `json:"playerId"`
	Amount     int    `json:"amount"`
	CurrentBet int    `json:"currentBet"`
	Pot        int    `json:"pot"`
}

func (PlayerRaised) Type() EventType { return EventPlayerRaised }

// Winner describes one settlement payout. Category and HoleCards are
// populated only at showdown; a fold-to-one win reveals nothing.
type Winner struct {
	PlayerID  string      `json:"playerId"`
	Name      string      `json:"name"`
	Amount    int         `json:"amount"`
	Category  string      `json:"category,omitempty"`
	HoleCards []deck.Card `json:"holeCards,omitempty"`
}

type RoundEnded struct {
	Winners  []Winner `json:"winners"`
	Pot      int      `json:"pot"`
	Showdown bool     `json:"showdown"`
}

func (RoundEnded) Type() EventType { return EventRoundEnded }

type ReadyForNextRound struct {
	Players int `json:"players"`
}

func (ReadyForNextRound) Type() EventType { return EventReadyForNextRound }
