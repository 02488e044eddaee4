package server

import (
	"encoding/json"
	"time"

	"github.com/pokerhall/holdem/internal/game"
)

// MessageType identifies the type of a websocket message.
type MessageType string

const (
	// Client -> Server
	TypeJoin       MessageType = "join"
	TypeLeave      MessageType = "leave"
	TypeStartRound MessageType = "start_round"
	TypeAction     MessageType = "action"
	TypeListTables MessageType = "list_tables"

	// Server -> Client
	TypeJoined MessageType = "joined"
	TypeTables MessageType = "tables"
	TypeState  MessageType = "state"
	TypeError  MessageType = "error"
)

// Message is the envelope for all websocket traffic.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope. Marshal failures are
// programming errors and surface to the caller.
func NewMessage(msgType MessageType, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now(),
	}, nil
}

// EventMessage wraps an engine event, using the event's own type as
// the envelope type so clients can switch on it directly.
func EventMessage(ev game.Event) (*Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      MessageType(ev.Type()),
		Data:      data,
		Timestamp: time.Now(),
	}, nil
}

// Client -> Server payloads.

// JoinRequest seats a player at a table.
type JoinRequest struct {
	TableID    string `json:"table_id,omitempty"`
	PlayerName string `json:"player_name"`
	Chips      int    `json:"chips"`
}

// ActionRequest submits a betting action for the connected player.
type ActionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server -> Client payloads.

// JoinedResponse confirms a seat and carries the assigned player ID.
type JoinedResponse struct {
	TableID  string `json:"table_id"`
	PlayerID string `json:"player_id"`
	Chips    int    `json:"chips"`
}

// TableSummary is one entry in a list_tables response.
type TableSummary struct {
	TableID string `json:"table_id"`
	Phase   string `json:"phase"`
	Players int    `json:"players"`
	Pot     int    `json:"pot"`
}

// TablesResponse lists the tables known to the server.
type TablesResponse struct {
	Tables []TableSummary `json:"tables"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	Message string `json:"message"`
}
