package server

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/pokerroom/holdem/internal/game"
)

const (
	// tickInterval paces the recovery recheck for rounds that complete
	// without a new action (all remaining players all-in)
	tickInterval = 200 * time.Millisecond

	// interHandDelay is the showdown pause before the next hand deals
	interHandDelay = 5 * time.Second
)

// Sender delivers outbound messages to connected players
type Sender interface {
	SendToPlayer(playerID string, msg *Message) error
	Broadcast(msg *Message)
}

// outbound is a message staged under the table lock and sent after it
// is released, keeping network I/O off the mutation path. An empty
// playerID marks a broadcast.
type outbound struct {
	playerID string
	msg      *Message
}

// TableService owns the single table and serializes every mutation
// behind one mutex. Connection goroutines call into it concurrently;
// snapshots are staged under the lock and delivered outside it.
type TableService struct {
	mu     sync.Mutex
	table  *game.Table
	sender Sender
	logger *log.Logger
	clock  quartz.Clock
	handID string
	ctx    context.Context // run context, set once by Run
}

// NewTableService creates the coordinator for a single table
func NewTableService(cfg game.Config, sender Sender, logger *log.Logger, clock quartz.Clock, rng *rand.Rand) *TableService {
	return &TableService{
		table:  game.NewTable(cfg, rng, logger),
		sender: sender,
		logger: logger.WithPrefix("service"),
		clock:  clock,
	}
}

// Run drives the periodic round-completion recheck until the context
// is cancelled
func (s *TableService) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	waiter := s.clock.TickerFunc(ctx, tickInterval, func() error {
		s.Tick()
		return nil
	}, "round-recheck")
	err := waiter.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// Tick re-checks round completion; it recovers cases where completion
// became true without a fresh action
func (s *TableService) Tick() {
	s.mu.Lock()
	var out []outbound
	if s.table.Street().IsBetting() && s.table.IsRoundComplete() {
		out = s.progressLocked()
	}
	s.mu.Unlock()
	s.deliver(out)
}

// Join seats a new player and reports the seat back
func (s *TableService) Join(playerID, name string) (JoinSuccessData, error) {
	if name == "" {
		return JoinSuccessData{}, fmt.Errorf("name is required")
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}

	s.mu.Lock()
	err := s.table.AddPlayer(playerID, name)
	var res JoinSuccessData
	var out []outbound
	if err == nil {
		p := s.table.PlayerByID(playerID)
		res = JoinSuccessData{PlayerID: playerID, Name: name, Chips: p.Chips}
		out = s.snapshotAllLocked()
	}
	s.mu.Unlock()

	if err != nil {
		return JoinSuccessData{}, err
	}
	s.deliver(out)
	return res, nil
}

// StartGame begins the first hand on behalf of a seated player
func (s *TableService) StartGame(playerID string) error {
	s.mu.Lock()
	var out []outbound
	err := func() error {
		if s.table.PlayerByID(playerID) == nil {
			return fmt.Errorf("you are not seated at this table")
		}
		if !s.table.CanStart() {
			return fmt.Errorf("game cannot start: need 2+ funded players at an idle table")
		}
		if err := s.table.StartHand(); err != nil {
			return err
		}
		s.handID = uuid.NewString()
		out = s.snapshotAllLocked()
		return nil
	}()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.deliver(out)
	return nil
}

// HandleAction validates and applies one player action, then drives the
// hand forward as far as it can go without further input
func (s *TableService) HandleAction(playerID, actionName string, amount int) error {
	action, err := game.ParseAction(actionName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	var out []outbound
	err = s.table.Apply(playerID, action, amount)
	if err == nil {
		out = s.progressLocked()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.deliver(out)
	return nil
}

// Disconnect removes a player as an abrupt-fold lifecycle event
func (s *TableService) Disconnect(playerID string) {
	s.mu.Lock()
	var out []outbound
	if s.table.PlayerByID(playerID) != nil {
		s.table.RemovePlayer(playerID)
		out = s.progressLocked()
	}
	s.mu.Unlock()
	s.deliver(out)
}

// progressLocked advances completed betting rounds toward showdown and
// settles finished hands. Caller holds the mutex.
func (s *TableService) progressLocked() []outbound {
	for s.table.Street().IsBetting() && !s.table.HandDone() && s.table.IsRoundComplete() {
		s.table.AdvanceStreet()
	}

	if s.table.HandDone() {
		return s.settleLocked()
	}
	return s.snapshotAllLocked()
}

// settleLocked distributes the pot, stages the result broadcast and
// schedules the next hand after the showdown pause. Caller holds the
// mutex.
func (s *TableService) settleLocked() []outbound {
	res := s.table.Settle()

	result := GameResultData{
		HandID:      s.handID,
		Winners:     res.Winners,
		Payouts:     res.Payouts,
		WinningHand: res.WinningHand,
		Message:     res.Message,
	}

	out := s.snapshotAllLocked()
	if msg, err := NewMessage(MessageTypeGameResult, result); err == nil {
		out = append(out, outbound{msg: msg})
	}

	s.clock.AfterFunc(interHandDelay, func() {
		s.startNextHand()
	})
	return out
}

// startNextHand deals the following hand once the showdown pause ends,
// provided enough funded players remain
func (s *TableService) startNextHand() {
	s.mu.Lock()
	if s.ctx != nil && s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	var out []outbound
	if s.table.CanStart() {
		if err := s.table.StartHand(); err == nil {
			s.handID = uuid.NewString()
			out = s.snapshotAllLocked()
		}
	} else {
		s.logger.Info("Waiting for players before next hand",
			"seated", s.table.SeatedCount())
	}
	s.mu.Unlock()
	s.deliver(out)
}

// snapshotAllLocked renders one game_update per seated player. Caller
// holds the mutex; the messages are sent after it is released.
func (s *TableService) snapshotAllLocked() []outbound {
	players := s.table.Players()
	out := make([]outbound, 0, len(players))
	for _, p := range players {
		snap := s.table.Snapshot(p.ID)
		msg, err := NewMessage(MessageTypeGameUpdate, GameUpdateData{Table: snap})
		if err != nil {
			s.logger.Error("Failed to encode snapshot", "error", err)
			continue
		}
		out = append(out, outbound{playerID: p.ID, msg: msg})
	}
	return out
}

// deliver sends staged messages outside the table lock
func (s *TableService) deliver(out []outbound) {
	for _, o := range out {
		if o.playerID == "" {
			s.sender.Broadcast(o.msg)
			continue
		}
		if err := s.sender.SendToPlayer(o.playerID, o.msg); err != nil {
			s.logger.Debug("Failed to deliver message", "player", o.playerID, "error", err)
		}
	}
}
