package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants used for the client-server protocol
const (
	// Client to server messages
	MessageTypeJoin      MessageType = "join"
	MessageTypeStartGame MessageType = "start_game"
	MessageTypeAction    MessageType = "action"

	// Server to client messages
	MessageTypeJoinSuccess  MessageType = "join_success"
	MessageTypeJoinFailed   MessageType = "join_failed"
	MessageTypeGameUpdate   MessageType = "game_update"
	MessageTypeActionFailed MessageType = "action_failed"
	MessageTypeGameResult   MessageType = "game_result"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
