package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/holdem/potmanager"
)

// PlayerState is the snapshot of a single seat
type PlayerState struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Seat       int          `json:"seat"`
	Chips      int          `json:"chips"`
	HoleCards  []*deck.Card `json:"holeCards"`
	CurrentBet int          `json:"currentBet"`
	TotalBet   int          `json:"totalBet"`
	IsActive   bool         `json:"isActive"`
	IsFolded   bool         `json:"isFolded"`
	IsAllIn    bool         `json:"isAllIn"`
	LastAction string       `json:"lastAction,omitempty"`
	Hand       string       `json:"hand,omitempty"`
	Winnings   int          `json:"winnings,omitempty"`
}

// State is a full-information snapshot of the hand. Every call builds a fresh
// copy, so callers may hold or modify one freely. Hole cards of other players
// must be redacted by the transport layer before it broadcasts a snapshot
type State struct {
	ID                 string          `json:"id"`
	Phase              Phase           `json:"phase"`
	Players            []*PlayerState  `json:"players"`
	CommunityCards     []*deck.Card    `json:"communityCards"`
	Pots               potmanager.Pots `json:"pots"`
	CurrentBet         int             `json:"currentBet"`
	MinRaise           int             `json:"minRaise"`
	DealerPosition     int             `json:"dealerPosition"`
	CurrentPlayerIndex int             `json:"currentPlayerIndex"`
	SmallBlind         int             `json:"smallBlind"`
	BigBlind           int             `json:"bigBlind"`
	HandNumber         int             `json:"handNumber"`

	// ShowedDown reports whether the hand ended in a showdown; the transport
	// layer uses it to decide whether hole cards are revealed
	ShowedDown bool `json:"-"`
}

// State returns an immutable snapshot of the game
func (g *Game) State() *State {
	players := make([]*PlayerState, len(g.players))
	for i, p := range g.players {
		ps := &PlayerState{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.chips,
			HoleCards:  p.holeCards.Clone(),
			CurrentBet: p.currentBet,
			TotalBet:   p.totalBet,
			IsActive:   i == g.currentIndex,
			IsFolded:   p.folded,
			IsAllIn:    p.allIn,
			LastAction: string(p.lastAction),
			Winnings:   p.winnings,
		}

		if g.showedDown && !p.folded {
			if analyzer := p.getAnalyzer(g.community); analyzer != nil {
				ps.Hand = analyzer.GetHand().String()
			}
		}

		players[i] = ps
	}

	dealerSeat := 0
	if len(g.players) > 0 {
		dealerSeat = g.players[g.dealerIndex].Seat
	}

	return &State{
		ID:                 g.id,
		Phase:              g.phase,
		Players:            players,
		CommunityCards:     g.community.Clone(),
		Pots:               g.buildPots(),
		CurrentBet:         g.currentBet,
		MinRaise:           g.minRaise,
		DealerPosition:     dealerSeat,
		CurrentPlayerIndex: g.currentIndex,
		SmallBlind:         g.opts.SmallBlind,
		BigBlind:           g.opts.BigBlind,
		HandNumber:         g.handNumber,
		ShowedDown:         g.showedDown,
	}
}

func (g *Game) buildPots() potmanager.Pots {
	contributions := make([]potmanager.Contribution, len(g.players))
	for i, p := range g.players {
		contributions[i] = potmanager.Contribution{
			PlayerID: p.ID,
			Amount:   p.totalBet,
			Folded:   p.folded,
		}
	}

	return potmanager.Build(contributions)
}
