package game

import "fmt"

// Street represents the table's lifecycle phase
type Street int

const (
	Waiting Street = iota
	Dealing
	PreFlop
	Flop
	Turn
	River
	Showdown
	GameOver
)

// String returns the wire representation of a street
func (s Street) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Dealing:
		return "dealing"
	case PreFlop:
		return "pre_flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// IsBetting returns true for streets where player actions are accepted
func (s Street) IsBetting() bool {
	return s >= PreFlop && s <= River
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

// String returns the wire representation of an action
func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "all_in"}[a]
}

// ParseAction converts a wire action name to an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	case "all_in":
		return AllIn, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// LogEntry records one accepted action for the hand's action log
type LogEntry struct {
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}
