package server

import (
	"encoding/json"
	"time"

	"github.com/pokerroom/holdem/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

type JoinSuccessData struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Chips    int    `json:"chips"`
}

type JoinFailedData struct {
	Reason string `json:"reason"`
}

type ActionFailedData struct {
	Reason string `json:"reason"`
}

// GameUpdateData wraps the per-recipient table snapshot
type GameUpdateData struct {
	Table game.Snapshot `json:"table"`
}

type GameResultData struct {
	HandID      string         `json:"hand_id"`
	Winners     []string       `json:"winners"`
	Payouts     map[string]int `json:"payouts"`
	WinningHand string         `json:"winning_hand,omitempty"`
	Message     string         `json:"message"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
