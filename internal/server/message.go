package server

import (
	"encoding/json"

	"github.com/cardroom/holdem/internal/game"
)

// MessageType identifies a websocket frame.
type MessageType string

const (
	// Client to server
	MessageTypeJoin   MessageType = "join"
	MessageTypeLeave  MessageType = "leave"
	MessageTypeStart  MessageType = "start"
	MessageTypeAction MessageType = "action"

	// Server to client
	MessageTypeJoined MessageType = "joined"
	MessageTypeState  MessageType = "state"
	MessageTypeError  MessageType = "error"
)

// Message is the websocket envelope. Payloads are raw JSON decoded per
// type so unknown fields from newer clients are ignored.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinRequest seats a player at a table.
type JoinRequest struct {
	Table string `json:"table"`
	Name  string `json:"name"`
}

// ActionRequest submits a betting action for the connection's player.
type ActionRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// JoinedData confirms a seat assignment.
type JoinedData struct {
	PlayerID string `json:"playerId"`
	Table    string `json:"table"`
	Chips    int    `json:"chips"`
}

// ErrorData reports a rejected request. Recoverable action errors carry
// the reason; the client decides whether to resubmit.
type ErrorData struct {
	Error string `json:"error"`
}

// NewMessage builds an envelope with a JSON-encoded payload.
func NewMessage(t MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Data: raw}, nil
}

// NewStateMessage wraps a per-viewer state snapshot.
func NewStateMessage(view game.PublicView) (*Message, error) {
	return NewMessage(MessageTypeState, view)
}

// NewErrorMessage wraps an error reply.
func NewErrorMessage(err error) *Message {
	msg, marshalErr := NewMessage(MessageTypeError, ErrorData{Error: err.Error()})
	if marshalErr != nil {
		return &Message{Type: MessageTypeError}
	}
	return msg
}
