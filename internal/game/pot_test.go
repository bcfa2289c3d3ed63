package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerroom/holdem/internal/deck"
	"github.com/pokerroom/holdem/internal/randutil"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

// showdownTable builds a table frozen at showdown with the given board,
// ready for Settle
func showdownTable(t *testing.T, community []deck.Card, players ...*Player) *Table {
	t.Helper()
	tbl := NewTable(DefaultConfig(), randutil.New(1), log.New(io.Discard))
	tbl.players = players
	tbl.community = community
	tbl.street = Showdown
	tbl.dealer = 0
	tbl.current = -1
	for _, p := range players {
		tbl.pot += p.TotalBet
	}
	return tbl
}

func TestSidePotsShortAllInWinner(t *testing.T) {
	board := []deck.Card{
		card(deck.Clubs, deck.Two),
		card(deck.Diamonds, deck.Five),
		card(deck.Hearts, deck.Seven),
		card(deck.Spades, deck.Nine),
		card(deck.Diamonds, deck.Jack),
	}
	a := &Player{ID: "a", Name: "A", TotalBet: 100, AllIn: true,
		HoleCards: []deck.Card{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace)}}
	b := &Player{ID: "b", Name: "B", TotalBet: 300,
		HoleCards: []deck.Card{card(deck.Clubs, deck.King), card(deck.Hearts, deck.King)}}
	c := &Player{ID: "c", Name: "C", TotalBet: 300,
		HoleCards: []deck.Card{card(deck.Spades, deck.Queen), card(deck.Hearts, deck.Queen)}}

	tbl := showdownTable(t, board, a, b, c)
	res := tbl.Settle()

	// Main pot 300 (100 from each) goes to A's aces; side pot 400
	// (200 from B and C) goes to B's kings
	assert.Equal(t, 300, res.Payouts["a"])
	assert.Equal(t, 400, res.Payouts["b"])
	assert.Zero(t, res.Payouts["c"])
	assert.Equal(t, []string{"a", "b"}, res.Winners)
	assert.Equal(t, "One Pair", res.WinningHand)
	assert.Equal(t, 0, tbl.Pot())
	assert.Equal(t, 300, a.Chips)
	assert.Equal(t, 400, b.Chips)
}

func TestSidePotsFoldedExcessStillFundsPot(t *testing.T) {
	board := []deck.Card{
		card(deck.Clubs, deck.Two),
		card(deck.Diamonds, deck.Five),
		card(deck.Hearts, deck.Seven),
		card(deck.Spades, deck.Nine),
		card(deck.Diamonds, deck.Jack),
	}
	a := &Player{ID: "a", Name: "A", TotalBet: 100, AllIn: true,
		HoleCards: []deck.Card{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace)}}
	b := &Player{ID: "b", Name: "B", TotalBet: 300,
		HoleCards: []deck.Card{card(deck.Clubs, deck.King), card(deck.Hearts, deck.King)}}
	c := &Player{ID: "c", Name: "C", TotalBet: 300,
		HoleCards: []deck.Card{card(deck.Spades, deck.Queen), card(deck.Hearts, deck.Queen)}}
	d := &Player{ID: "d", Name: "D", TotalBet: 150, Folded: true}

	tbl := showdownTable(t, board, a, b, c, d)
	res := tbl.Settle()

	// D's 150 is dead money: 100 swells the main pot, 50 the side pot
	assert.Equal(t, 400, res.Payouts["a"])
	assert.Equal(t, 450, res.Payouts["b"])
	assert.Zero(t, res.Payouts["d"])
	assert.Equal(t, 0, tbl.Pot())
}

func TestSplitPotDistributesOddChipDeterministically(t *testing.T) {
	// Both survivors play the board; their hole cards are dead
	board := []deck.Card{
		card(deck.Clubs, deck.Ace),
		card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.Queen),
		card(deck.Spades, deck.Jack),
		card(deck.Diamonds, deck.Ten),
	}
	a := &Player{ID: "a", Name: "A", TotalBet: 101, AllIn: true,
		HoleCards: []deck.Card{card(deck.Clubs, deck.Three), card(deck.Diamonds, deck.Four)}}
	b := &Player{ID: "b", Name: "B", TotalBet: 101, AllIn: true,
		HoleCards: []deck.Card{card(deck.Hearts, deck.Three), card(deck.Spades, deck.Four)}}
	c := &Player{ID: "c", Name: "C", TotalBet: 1, Folded: true}

	tbl := showdownTable(t, board, a, b, c)
	res := tbl.Settle()

	// 203 chips split two ways: the odd chip lands on the earliest seat
	assert.Equal(t, 102, res.Payouts["a"])
	assert.Equal(t, 101, res.Payouts["b"])
	assert.ElementsMatch(t, []string{"a", "b"}, res.Winners)
	assert.Equal(t, "Straight", res.WinningHand)
}

func TestSettleSingleSurvivorSkipsEvaluation(t *testing.T) {
	a := &Player{ID: "a", Name: "A", TotalBet: 40}
	b := &Player{ID: "b", Name: "B", TotalBet: 20, Folded: true}

	tbl := showdownTable(t, nil, a, b)
	tbl.street = PreFlop // hand ended by folds, no board needed

	res := tbl.Settle()
	assert.Equal(t, []string{"a"}, res.Winners)
	assert.Equal(t, 60, res.Payouts["a"])
	assert.Empty(t, res.WinningHand)
	assert.Equal(t, 60, a.Chips)
	assert.Equal(t, GameOver, tbl.Street())
}

func TestSettlePanicsBeforeHandIsDone(t *testing.T) {
	tbl := newTestTable(t, "alice", "bob", "carol")
	require.NoError(t, tbl.StartHand())

	assert.Panics(t, func() { tbl.Settle() })
}

func TestSettleNoSurvivors(t *testing.T) {
	a := &Player{ID: "a", Name: "A", TotalBet: 20, Folded: true, Chips: 100}
	b := &Player{ID: "b", Name: "B", TotalBet: 20, Folded: true, Chips: 100}

	tbl := showdownTable(t, nil, a, b)
	res := tbl.Settle()

	assert.Empty(t, res.Winners)
	assert.Equal(t, 0, tbl.Pot())
	assert.Equal(t, 100, a.Chips, "dead pot is not awarded to folded players")
}
