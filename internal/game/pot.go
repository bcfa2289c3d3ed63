package game

import (
	"fmt"
	"sort"

	"github.com/pokerroom/holdem/internal/deck"
	"github.com/pokerroom/holdem/internal/evaluator"
)

// Result describes the outcome of a settled hand
type Result struct {
	// Winners lists every player who won any amount, in seat order
	Winners []string
	// Payouts maps player ID to the total amount won
	Payouts map[string]int
	// WinningHand names the category of the overall best winning hand,
	// empty for a win by fold
	WinningHand string
	// Message is a human-readable summary
	Message string
}

// Settle distributes the pot at hand end. With one survivor the whole
// pot goes to them uncontested; otherwise survivors' hands are evaluated
// and the pot is partitioned into side pots by total-bet thresholds.
// The hand must be over before calling.
func (t *Table) Settle() Result {
	if !t.HandDone() {
		panic("settle called before the hand is done")
	}
	t.sweepBets()

	before := t.TotalChips()
	survivors := t.survivors()

	var res Result
	switch len(survivors) {
	case 0:
		// Everyone in contention left mid-hand; the pot has no owner
		res = Result{Payouts: map[string]int{}, Message: "No players remaining"}
		t.pot = 0
		before = t.TotalChips()
	case 1:
		w := survivors[0]
		w.Chips += t.pot
		res = Result{
			Winners: []string{w.ID},
			Payouts: map[string]int{w.ID: t.pot},
			Message: fmt.Sprintf("%s wins %d (all others folded)", w.Name, t.pot),
		}
		t.pot = 0
	default:
		res = t.settleShowdown(survivors)
	}

	if after := t.TotalChips(); after != before {
		panic(fmt.Sprintf("pot distribution changed total chips: %d -> %d", before, after))
	}
	t.street = GameOver
	t.current = -1

	t.logger.Info("Hand settled", "winners", res.Winners, "hand", res.WinningHand)
	return res
}

// settleShowdown evaluates every survivor and splits the pot into side
// pots layered by the distinct survivor total-bet thresholds. Folded
// players' contributions up to each threshold still fund the layer they
// reach; only survivors are eligible to win it.
func (t *Table) settleShowdown(survivors []*Player) Result {
	strengths := make(map[string]evaluator.Strength, len(survivors))
	for _, p := range survivors {
		cards := make([]deck.Card, 0, len(p.HoleCards)+len(t.community))
		cards = append(cards, p.HoleCards...)
		cards = append(cards, t.community...)
		strengths[p.ID] = evaluator.Evaluate(cards)
	}

	thresholds := survivorThresholds(survivors)
	payouts := make(map[string]int)
	distributed := 0
	prev := 0

	for li, threshold := range thresholds {
		layer := 0
		for _, p := range t.players {
			contrib := p.TotalBet
			if contrib > threshold {
				contrib = threshold
			}
			if contrib > prev {
				layer += contrib - prev
			}
		}
		if li == len(thresholds)-1 {
			// Residue from folded players' excess contributions lands in
			// the top layer so the whole pot is always paid out
			if residual := t.pot - distributed - layer; residual > 0 {
				layer += residual
			}
		}
		prev = threshold

		var eligible []*Player
		for _, p := range survivors {
			if p.TotalBet >= threshold {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 || layer == 0 {
			continue
		}

		winners := bestOf(eligible, strengths)
		share := layer / len(winners)
		remainder := layer % len(winners)
		for i, w := range winners {
			amount := share
			if i < remainder {
				amount++
			}
			w.Chips += amount
			payouts[w.ID] += amount
		}
		distributed += layer
	}

	if distributed > t.pot {
		panic(fmt.Sprintf("distributed %d exceeds pot %d", distributed, t.pot))
	}
	t.pot = 0

	var winnerIDs []string
	best := evaluator.Strength{}
	bestSet := false
	var bestName string
	for _, p := range t.players {
		amount, ok := payouts[p.ID]
		if !ok || amount == 0 {
			continue
		}
		winnerIDs = append(winnerIDs, p.ID)
		s := strengths[p.ID]
		if !bestSet || evaluator.Compare(s, best) > 0 {
			best = s
			bestSet = true
			bestName = p.Name
		}
	}

	return Result{
		Winners:     winnerIDs,
		Payouts:     payouts,
		WinningHand: best.Category.String(),
		Message:     fmt.Sprintf("%s wins with %s", bestName, best.Category),
	}
}

// survivorThresholds returns the distinct positive total bets of the
// non-folded players, ascending
func survivorThresholds(survivors []*Player) []int {
	seen := make(map[int]bool)
	var out []int
	for _, p := range survivors {
		if p.TotalBet > 0 && !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			out = append(out, p.TotalBet)
		}
	}
	sort.Ints(out)
	return out
}

// bestOf returns the players holding the strictly best hand, in the
// order given
func bestOf(players []*Player, strengths map[string]evaluator.Strength) []*Player {
	var winners []*Player
	for _, p := range players {
		if len(winners) == 0 {
			winners = []*Player{p}
			continue
		}
		switch evaluator.Compare(strengths[p.ID], strengths[winners[0].ID]) {
		case 1:
			winners = []*Player{p}
		case 0:
			winners = append(winners, p)
		}
	}
	return winners
}
