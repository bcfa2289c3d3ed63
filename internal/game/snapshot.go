package game

// CardView is the wire form of one card. Hidden cards carry the
// face-down placeholder in both fields.
type CardView struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// PlayerView is the wire form of one seated player as seen by a
// particular recipient
type PlayerView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Chips      int        `json:"chips"`
	Cards      []CardView `json:"cards"`
	CurrentBet int        `json:"current_bet"`
	TotalBet   int        `json:"total_bet"`
	Folded     bool       `json:"folded"`
	AllIn      bool       `json:"all_in"`
}

// Snapshot is a read-only view of the table rendered for one recipient.
// It carries everything a client needs to draw the table and compute
// legal raise bounds.
type Snapshot struct {
	Street        string       `json:"street"`
	Pot           int          `json:"pot"`
	CurrentBet    int          `json:"current_bet"`
	SmallBlind    int          `json:"small_blind"`
	BigBlind      int          `json:"big_blind"`
	Community     []CardView   `json:"community_cards"`
	Players       []PlayerView `json:"players"`
	DealerID      string       `json:"dealer_id,omitempty"`
	CurrentTurnID string       `json:"current_turn_id,omitempty"`
	ActionLog     []LogEntry   `json:"action_log,omitempty"`
}

const hiddenCard = "back"

// Snapshot renders the table for the given recipient. The recipient sees
// their own hole cards; everyone else's are face-down placeholders of
// matching length until showdown, when all survivors' cards are open.
func (t *Table) Snapshot(forID string) Snapshot {
	s := Snapshot{
		Street:     t.street.String(),
		Pot:        t.pot,
		CurrentBet: t.currentBet,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		Community:  make([]CardView, 0, len(t.community)),
		Players:    make([]PlayerView, 0, len(t.players)),
		ActionLog:  t.actionLog,
	}
	for _, c := range t.community {
		s.Community = append(s.Community, CardView{Suit: c.Suit.Name(), Rank: c.Rank.Name()})
	}
	if p := t.DealerPlayer(); p != nil {
		s.DealerID = p.ID
	}
	if p := t.CurrentPlayer(); p != nil {
		s.CurrentTurnID = p.ID
	}

	reveal := t.street == Showdown || t.street == GameOver
	for _, p := range t.players {
		pv := PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Chips:      p.Chips,
			Cards:      make([]CardView, 0, len(p.HoleCards)),
			CurrentBet: p.CurrentBet,
			TotalBet:   p.TotalBet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
		}
		visible := p.ID == forID || (reveal && !p.Folded)
		for _, c := range p.HoleCards {
			if visible {
				pv.Cards = append(pv.Cards, CardView{Suit: c.Suit.Name(), Rank: c.Rank.Name()})
			} else {
				pv.Cards = append(pv.Cards, CardView{Suit: hiddenCard, Rank: hiddenCard})
			}
		}
		s.Players = append(s.Players, pv)
	}
	return s
}
