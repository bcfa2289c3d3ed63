package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerroom/holdem/internal/game"
	"github.com/pokerroom/holdem/internal/randutil"
)

// recordingSender captures outbound messages per player for assertions
type recordingSender struct {
	mu       sync.Mutex
	messages map[string][]*Message
}

func newRecordingSender() *recordingSender {
	return &recordingSender{messages: make(map[string][]*Message)}
}

func (r *recordingSender) SendToPlayer(playerID string, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[playerID] = append(r.messages[playerID], msg)
	return nil
}

func (r *recordingSender) Broadcast(msg *Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.messages {
		r.messages[id] = append(r.messages[id], msg)
	}
}

func (r *recordingSender) lastOfType(playerID string, mt MessageType) *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[playerID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == mt {
			return msgs[i]
		}
	}
	return nil
}

func (r *recordingSender) countOfType(playerID string, mt MessageType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages[playerID] {
		if m.Type == mt {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*TableService, *recordingSender, *quartz.Mock) {
	t.Helper()
	sender := newRecordingSender()
	clock := quartz.NewMock(t)
	svc := NewTableService(game.DefaultConfig(), sender, log.New(io.Discard), clock, randutil.New(7))
	return svc, sender, clock
}

func joinTwo(t *testing.T, svc *TableService) (string, string) {
	t.Helper()
	a, err := svc.Join("", "alice")
	require.NoError(t, err)
	b, err := svc.Join("", "bob")
	require.NoError(t, err)
	return a.PlayerID, b.PlayerID
}

func TestJoinAssignsIDAndStack(t *testing.T) {
	svc, sender, _ := newTestService(t)

	res, err := svc.Join("", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, res.PlayerID)
	assert.Equal(t, "alice", res.Name)
	assert.Equal(t, 1000, res.Chips)

	update := sender.lastOfType(res.PlayerID, MessageTypeGameUpdate)
	require.NotNil(t, update, "joining broadcasts a snapshot")
}

func TestJoinKeepsSuppliedID(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Join("custom-id", "alice")
	require.NoError(t, err)
	assert.Equal(t, "custom-id", res.PlayerID)
}

func TestJoinRejectedWhenTableFull(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		_, err := svc.Join("", name)
		require.NoError(t, err)
	}

	_, err := svc.Join("", "p7")
	require.Error(t, err)
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	svc, _, _ := newTestService(t)
	a, err := svc.Join("", "alice")
	require.NoError(t, err)

	require.Error(t, svc.StartGame(a.PlayerID))
	require.Error(t, svc.StartGame("stranger"), "only seated players may start")
}

func TestStartGameDealsAndHidesOpponentCards(t *testing.T) {
	svc, sender, _ := newTestService(t)
	aliceID, bobID := joinTwo(t, svc)

	require.NoError(t, svc.StartGame(aliceID))
	require.Error(t, svc.StartGame(aliceID), "cannot start while a hand runs")

	update := sender.lastOfType(aliceID, MessageTypeGameUpdate)
	require.NotNil(t, update)

	var data GameUpdateData
	require.NoError(t, json.Unmarshal(update.Data, &data))
	assert.Equal(t, "pre_flop", data.Table.Street)
	assert.Equal(t, 20, data.Table.CurrentBet)

	for _, pv := range data.Table.Players {
		require.Len(t, pv.Cards, 2)
		if pv.ID == bobID {
			assert.Equal(t, "back", pv.Cards[0].Suit)
			assert.Equal(t, "back", pv.Cards[0].Rank)
		} else {
			assert.NotEqual(t, "back", pv.Cards[0].Suit)
		}
	}
}

func TestActionRejectionsDoNotMutate(t *testing.T) {
	svc, sender, _ := newTestService(t)
	aliceID, _ := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	updates := sender.countOfType(aliceID, MessageTypeGameUpdate)

	require.Error(t, svc.HandleAction(aliceID, "dance", 0), "unknown action name")
	notTurn := svc.table.CurrentPlayer().ID
	for _, p := range svc.table.Players() {
		if p.ID != notTurn {
			require.Error(t, svc.HandleAction(p.ID, "fold", 0), "out-of-turn action")
		}
	}

	assert.Equal(t, updates, sender.countOfType(aliceID, MessageTypeGameUpdate),
		"rejected actions broadcast nothing")
}

func TestFoldEndsHandAndBroadcastsResult(t *testing.T) {
	svc, sender, _ := newTestService(t)
	aliceID, bobID := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	actor := svc.table.CurrentPlayer()
	require.NoError(t, svc.HandleAction(actor.ID, "fold", 0))

	for _, id := range []string{aliceID, bobID} {
		result := sender.lastOfType(id, MessageTypeGameResult)
		require.NotNil(t, result, "both players receive the hand result")

		var data GameResultData
		require.NoError(t, json.Unmarshal(result.Data, &data))
		assert.NotEmpty(t, data.HandID)
		assert.Len(t, data.Winners, 1)
		assert.NotEqual(t, actor.ID, data.Winners[0])
	}
}

func TestNextHandStartsAfterShowdownPause(t *testing.T) {
	svc, sender, clock := newTestService(t)
	aliceID, _ := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	firstHandID := svc.handID
	actor := svc.table.CurrentPlayer()
	require.NoError(t, svc.HandleAction(actor.ID, "fold", 0))
	require.Equal(t, game.GameOver, svc.table.Street())

	clock.Advance(interHandDelay).MustWait(context.Background())

	assert.Equal(t, game.PreFlop, svc.table.Street(), "next hand deals automatically")
	assert.NotEqual(t, firstHandID, svc.handID)
	assert.NotNil(t, sender.lastOfType(aliceID, MessageTypeGameUpdate))
}

func TestAllInCascadeRunsToShowdown(t *testing.T) {
	svc, sender, _ := newTestService(t)
	aliceID, bobID := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	first := svc.table.CurrentPlayer()
	require.NoError(t, svc.HandleAction(first.ID, "all_in", 0))
	second := svc.table.CurrentPlayer()
	require.NotNil(t, second)
	require.NoError(t, svc.HandleAction(second.ID, "all_in", 0))

	// With nobody left to act the hand runs out to showdown and settles
	require.Equal(t, game.GameOver, svc.table.Street())
	require.NotNil(t, sender.lastOfType(aliceID, MessageTypeGameResult))
	require.NotNil(t, sender.lastOfType(bobID, MessageTypeGameResult))

	total := 0
	for _, p := range svc.table.Players() {
		total += p.Chips
	}
	assert.Equal(t, 2000, total, "all chips return to stacks after settlement")
}

func TestDisconnectMidHandFoldsPlayer(t *testing.T) {
	svc, sender, _ := newTestService(t)
	aliceID, bobID := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	actor := svc.table.CurrentPlayer()
	other := bobID
	if actor.ID == bobID {
		other = aliceID
	}

	svc.Disconnect(actor.ID)

	assert.Nil(t, svc.table.PlayerByID(actor.ID))
	result := sender.lastOfType(other, MessageTypeGameResult)
	require.NotNil(t, result, "remaining player wins by fold")
	assert.Equal(t, game.GameOver, svc.table.Street())
}

func TestDisconnectUnknownPlayerIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Disconnect("ghost")
	assert.Equal(t, 0, svc.table.SeatedCount())
}

func TestTickRecoversCompletedRound(t *testing.T) {
	svc, _, _ := newTestService(t)
	aliceID, _ := joinTwo(t, svc)
	require.NoError(t, svc.StartGame(aliceID))

	// A tick with an unfinished round must not advance anything
	street := svc.table.Street()
	svc.Tick()
	assert.Equal(t, street, svc.table.Street())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
