package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/pokerroom/holdem/internal/deck"
)

// Config holds the fixed table parameters
type Config struct {
	MaxSeats      int
	SmallBlind    int
	BigBlind      int
	StartingChips int
}

// DefaultConfig returns the standard table parameters
func DefaultConfig() Config {
	return Config{
		MaxSeats:      6,
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
	}
}

// Table is the authoritative state of one poker table. It is not safe for
// concurrent use; the coordinator serializes all access.
type Table struct {
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger

	players   []*Player // seat order = join order = turn order base
	dealer    int       // seat index of the dealer button, -1 before first hand
	current   int       // seat index of the current actor, -1 when none
	community []deck.Card
	deck      *deck.Deck
	pot        int    // chips swept from completed streets
	currentBet int    // highest current-street bet
	lastRaiser string // player ID of the last raiser, "" when none
	street     Street
	actionLog  []LogEntry
}

// NewTable creates an empty table in the waiting state
func NewTable(cfg Config, rng *rand.Rand, logger *log.Logger) *Table {
	return &Table{
		cfg:    cfg,
		rng:    rng,
		logger: logger.WithPrefix("table"),
		dealer: -1,
		current: -1,
		street: Waiting,
	}
}

// Street returns the current lifecycle phase
func (t *Table) Street() Street {
	return t.street
}

// Pot returns the chips swept from completed streets
func (t *Table) Pot() int {
	return t.pot
}

// CurrentBet returns the highest current-street bet
func (t *Table) CurrentBet() int {
	return t.currentBet
}

// SeatedCount returns the number of seated players
func (t *Table) SeatedCount() int {
	return len(t.players)
}

// Players returns the seated players in seat order
func (t *Table) Players() []*Player {
	return t.players
}

// PlayerByID returns the seated player with the given ID, or nil
func (t *Table) PlayerByID(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil
func (t *Table) CurrentPlayer() *Player {
	if t.current < 0 || t.current >= len(t.players) {
		return nil
	}
	return t.players[t.current]
}

// DealerPlayer returns the player holding the dealer button, or nil
func (t *Table) DealerPlayer() *Player {
	if t.dealer < 0 || t.dealer >= len(t.players) {
		return nil
	}
	return t.players[t.dealer]
}

// seatOf returns the seat index for a player ID, or -1
func (t *Table) seatOf(id string) int {
	for i, p := range t.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AddPlayer seats a new player with the starting stack. Rejected when the
// table is full or the ID is already seated. A player joining during a
// live hand is dealt out, the same as a broke seat: folded with no cards
// until the next hand starts.
func (t *Table) AddPlayer(id, name string) error {
	if len(t.players) >= t.cfg.MaxSeats {
		return fmt.Errorf("table is full")
	}
	if t.PlayerByID(id) != nil {
		return fmt.Errorf("player %s already seated", id)
	}

	t.players = append(t.players, &Player{
		ID:     id,
		Name:   name,
		Chips:  t.cfg.StartingChips,
		Folded: t.street != Waiting && t.street != GameOver,
	})
	t.logger.Info("Player joined", "player", name, "seated", len(t.players))
	return nil
}

// RemovePlayer unseats a player, treating a mid-hand departure as an
// abrupt fold: their street bet is swept into the pot so the chips they
// committed stay in play. Seat indexes for the dealer and current actor
// are fixed up to account for the removed seat.
func (t *Table) RemovePlayer(id string) {
	seat := t.seatOf(id)
	if seat < 0 {
		return
	}
	p := t.players[seat]

	if t.street.IsBetting() || t.street == Showdown {
		p.Folded = true
		t.pot += p.CurrentBet
		p.CurrentBet = 0
		if t.lastRaiser == id {
			t.lastRaiser = ""
		}
		if seat == t.current {
			t.advanceTurn(seat)
		}
	}

	t.players = append(t.players[:seat], t.players[seat+1:]...)
	if t.current > seat {
		t.current--
	} else if t.current == seat {
		t.current = -1
	}
	if t.dealer >= seat {
		t.dealer--
	}

	t.logger.Info("Player removed", "player", p.Name, "seated", len(t.players))
}

// fundedCount returns the number of players still holding chips
func (t *Table) fundedCount() int {
	n := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

// CanStart reports whether a new hand may begin
func (t *Table) CanStart() bool {
	return (t.street == Waiting || t.street == GameOver) && t.fundedCount() >= 2
}

// StartHand begins a new hand: advances the button, resets per-hand
// state, shuffles a fresh deck, deals hole cards, posts blinds and sets
// the first actor, entering pre_flop.
func (t *Table) StartHand() error {
	if t.fundedCount() < 2 {
		return fmt.Errorf("need at least 2 funded players to start")
	}

	t.street = Dealing
	t.community = nil
	t.pot = 0
	t.currentBet = 0
	t.lastRaiser = ""
	t.actionLog = nil

	// Button moves to the next funded seat, skipping broke players
	t.dealer = t.nextFundedFrom(t.dealer + 1)

	// Broke players sit the hand out; everyone else is dealt in
	for _, p := range t.players {
		p.resetForHand()
		if p.Chips == 0 {
			p.Folded = true
		}
	}

	t.deck = deck.New(t.rng)
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(t.players); i++ {
			p := t.players[(t.dealer+i)%len(t.players)]
			if !p.Folded {
				p.HoleCards = append(p.HoleCards, t.deck.MustDraw())
			}
		}
	}

	t.postBlinds()
	t.street = PreFlop

	// First actor pre-flop sits three seats past the button; with few
	// seats the scan wraps to the seat after the button
	t.current = t.nextEligibleFrom(t.dealer + 3)
	if t.current == -1 {
		t.current = t.nextEligibleFrom(t.dealer + 1)
	}

	t.logger.Info("Hand started",
		"dealer", t.players[t.dealer].Name,
		"firstToAct", t.currentPlayerName())
	return nil
}

// postBlinds posts the forced bets. Heads-up the dealer posts the small
// blind; otherwise the two seats after the button do.
func (t *Table) postBlinds() {
	var sbSeat int
	if t.dealtInCount() == 2 {
		sbSeat = t.nextDealtFrom(t.dealer)
	} else {
		sbSeat = t.nextDealtFrom(t.dealer + 1)
	}
	bbSeat := t.nextDealtFrom(sbSeat + 1)

	sb := t.players[sbSeat]
	bb := t.players[bbSeat]

	sb.commit(min(t.cfg.SmallBlind, sb.Chips))
	bb.commit(min(t.cfg.BigBlind, bb.Chips))

	// Blinds count as actions
	sb.Acted = true
	bb.Acted = true

	t.currentBet = t.cfg.BigBlind
	t.lastRaiser = bb.ID

	t.logger.Debug("Blinds posted",
		"smallBlind", sb.Name, "sbAmount", sb.CurrentBet,
		"bigBlind", bb.Name, "bbAmount", bb.CurrentBet)
}

// dealtInCount returns the number of players dealt into the current hand
func (t *Table) dealtInCount() int {
	n := 0
	for _, p := range t.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// nextFundedFrom scans seats cyclically from start for a player with chips
func (t *Table) nextFundedFrom(start int) int {
	n := len(t.players)
	for i := 0; i < n; i++ {
		seat := ((start + i) % n + n) % n
		if t.players[seat].Chips > 0 {
			return seat
		}
	}
	return -1
}

// nextDealtFrom scans seats cyclically from start for a non-folded player
func (t *Table) nextDealtFrom(start int) int {
	n := len(t.players)
	for i := 0; i < n; i++ {
		seat := ((start + i) % n + n) % n
		if !t.players[seat].Folded {
			return seat
		}
	}
	return -1
}

// nextEligibleFrom scans seats cyclically from start for a player that
// can act
func (t *Table) nextEligibleFrom(start int) int {
	n := len(t.players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		seat := ((start + i) % n + n) % n
		if t.players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

// AdvanceStreet sweeps street bets into the pot, resets per-street state
// and deals the next street's cards. Callers invoke it only once the
// betting round is complete; when no seat can act on the new street the
// caller keeps advancing toward showdown.
func (t *Table) AdvanceStreet() {
	t.sweepBets()

	t.current = t.nextEligibleFrom(t.dealer + 1)

	switch t.street {
	case PreFlop:
		t.deck.MustDraw() // burn
		for i := 0; i < 3; i++ {
			t.community = append(t.community, t.deck.MustDraw())
		}
		t.street = Flop
	case Flop:
		t.deck.MustDraw() // burn
		t.community = append(t.community, t.deck.MustDraw())
		t.street = Turn
	case Turn:
		t.deck.MustDraw() // burn
		t.community = append(t.community, t.deck.MustDraw())
		t.street = River
	case River:
		t.street = Showdown
		t.current = -1
	default:
		panic(fmt.Sprintf("advance from non-betting street %s", t.street))
	}

	t.logger.Debug("Street advanced", "street", t.street, "pot", t.pot)
}

// sweepBets collects every player's street bet into the pot and clears
// the per-street betting state
func (t *Table) sweepBets() {
	for _, p := range t.players {
		t.pot += p.CurrentBet
		p.CurrentBet = 0
		p.Acted = false
	}
	t.currentBet = 0
	t.lastRaiser = ""
}

// survivors returns the non-folded players in seat order
func (t *Table) survivors() []*Player {
	var out []*Player
	for _, p := range t.players {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// HandDone reports whether the hand has reached its terminal condition:
// showdown, or at most one non-folded player remaining.
func (t *Table) HandDone() bool {
	if !t.street.IsBetting() && t.street != Showdown {
		return false
	}
	return t.street == Showdown || len(t.survivors()) <= 1
}

// TotalChips returns all chips on the table: stacks, street bets and the
// pot. Constant across a hand; used to assert conservation.
func (t *Table) TotalChips() int {
	total := t.pot
	for _, p := range t.players {
		total += p.Chips + p.CurrentBet
	}
	return total
}

func (t *Table) currentPlayerName() string {
	if p := t.CurrentPlayer(); p != nil {
		return p.Name
	}
	return "none"
}
