package game

import "github.com/pokerroom/holdem/internal/deck"

// Player represents a seated player. Players are owned by the Table and
// mutated only through its methods.
type Player struct {
	ID         string
	Name       string
	Chips      int
	HoleCards  []deck.Card
	CurrentBet int // chips committed this street
	TotalBet   int // chips committed this hand, drives side pots
	Folded     bool
	AllIn      bool
	Acted      bool // has acted since the last raise this street
}

// CanAct returns true if the player is eligible to make an action
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

// resetForHand clears the per-hand fields
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.Acted = false
}

// commit moves amount chips from the stack into the current street bet,
// marking the player all-in when the stack empties. The caller guarantees
// amount ≤ Chips.
func (p *Player) commit(amount int) {
	if amount > p.Chips {
		panic("player committing more chips than held")
	}
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
}
