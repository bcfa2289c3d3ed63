package game

import "fmt"

// Apply validates and applies one player action. On success the turn
// advances; the caller then checks IsRoundComplete and drives the street
// forward. Errors leave the table untouched.
func (t *Table) Apply(playerID string, action Action, amount int) error {
	if !t.street.IsBetting() {
		return fmt.Errorf("no betting round in progress")
	}
	p := t.PlayerByID(playerID)
	if p == nil {
		return fmt.Errorf("player %s is not seated", playerID)
	}
	cur := t.CurrentPlayer()
	if cur == nil || cur.ID != playerID {
		return fmt.Errorf("not your turn")
	}
	if !p.CanAct() {
		return fmt.Errorf("you cannot act")
	}

	seat := t.current
	logged := LogEntry{PlayerID: playerID, Action: action.String()}

	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if p.CurrentBet < t.currentBet {
			return fmt.Errorf("cannot check facing a bet of %d", t.currentBet)
		}

	case Call:
		required := t.currentBet - p.CurrentBet
		if required <= 0 {
			return fmt.Errorf("nothing to call")
		}
		add := required
		if add > p.Chips {
			add = p.Chips
		}
		p.commit(add)
		logged.Amount = add

	case Raise:
		if err := t.applyRaise(p, amount); err != nil {
			return err
		}
		logged.Amount = amount

	case AllIn:
		if p.Chips == 0 {
			return fmt.Errorf("no chips to push")
		}
		add := p.Chips
		p.commit(add)
		if p.CurrentBet > t.currentBet {
			// An all-in past the table bet is a raise and re-opens action
			t.currentBet = p.CurrentBet
			t.lastRaiser = p.ID
			t.reopenAction(p.ID)
		}
		logged.Amount = add

	default:
		return fmt.Errorf("unknown action")
	}

	p.Acted = true
	t.actionLog = append(t.actionLog, logged)
	t.logger.Debug("Action applied",
		"player", p.Name, "action", action, "amount", logged.Amount,
		"tableBet", t.currentBet)

	t.advanceTurn(seat)
	return nil
}

// applyRaise raises the table bet to the given target. The target must
// exceed the current bet by at least a big blind unless the raiser's
// whole stack cannot reach that, in which case it clamps to all-in.
func (t *Table) applyRaise(p *Player, target int) error {
	if target <= t.currentBet {
		return fmt.Errorf("raise to %d must exceed the current bet of %d", target, t.currentBet)
	}
	maxTo := p.CurrentBet + p.Chips
	if target > maxTo {
		target = maxTo
	}
	if target < t.currentBet+t.cfg.BigBlind && target < maxTo {
		return fmt.Errorf("minimum raise is to %d", t.currentBet+t.cfg.BigBlind)
	}

	p.commit(target - p.CurrentBet)
	if p.CurrentBet > t.currentBet {
		t.currentBet = p.CurrentBet
		t.lastRaiser = p.ID
		t.reopenAction(p.ID)
	}
	return nil
}

// reopenAction clears the acted flag of every other player still able to
// act who has not matched the new bet, so the raise comes back around
func (t *Table) reopenAction(raiserID string) {
	for _, other := range t.players {
		if other.ID == raiserID {
			continue
		}
		if other.CanAct() && other.CurrentBet < t.currentBet {
			other.Acted = false
		}
	}
}

// advanceTurn moves the current seat to the next player after from who
// still owes a decision; -1 when the round is settled
func (t *Table) advanceTurn(from int) {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		p := t.players[seat]
		if p.CanAct() && (p.CurrentBet < t.currentBet || !p.Acted) {
			t.current = seat
			return
		}
	}
	t.current = -1
}

// IsRoundComplete reports whether the current betting round is settled:
// at most one player can still act, or every player able to act has
// both acted and matched the table bet.
func (t *Table) IsRoundComplete() bool {
	if !t.street.IsBetting() {
		return true
	}
	actors := 0
	for _, p := range t.players {
		if p.CanAct() {
			actors++
		}
	}
	if actors <= 1 {
		return true
	}
	for _, p := range t.players {
		if !p.CanAct() {
			continue
		}
		if !p.Acted || p.CurrentBet < t.currentBet {
			return false
		}
	}
	return true
}
