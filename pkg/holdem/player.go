package holdem

import (
	"holdem-server/pkg/deck"
	"holdem-server/pkg/holdem/action"
	"holdem-server/pkg/holdem/handrank"
)

// Player is a seat occupant participating in the current hand
type Player struct {
	ID   string
	Name string
	Seat int

	chips     int
	holeCards deck.Hand

	// currentBet is the chips committed this street; totalBet this hand.
	// chips+totalBet stays constant for the player until pots are paid
	currentBet int
	totalBet   int

	folded     bool
	allIn      bool
	lastAction action.Action

	// actedThisStreet resets at the start of each street
	actedThisStreet bool
	// hasRaiseRights resets at the start of each street and on every full
	// raise; a short all-in leaves it cleared only for players yet to act
	hasRaiseRights bool

	winnings int

	analyzer         *handrank.Analyzer
	analyzerCacheKey string
}

func newPlayer(id, name string, seat, chips int) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		Seat:           seat,
		chips:          chips,
		holeCards:      make(deck.Hand, 0, 2),
		hasRaiseRights: true,
	}
}

// Chips returns the player's behind-the-line stack
func (p *Player) Chips() int {
	return p.chips
}

// canAct returns true if the player may still check, call, bet, raise, or fold
func (p *Player) canAct() bool {
	return !p.folded && !p.allIn
}

// commit moves chips into the player's street and hand bets
// Committing the entire stack marks the player all-in
func (p *Player) commit(amount int) int {
	if amount >= p.chips {
		amount = p.chips
		p.allIn = true
	}

	p.chips -= amount
	p.currentBet += amount
	p.totalBet += amount

	return amount
}

// newStreet resets the player's per-street state
func (p *Player) newStreet() {
	p.currentBet = 0
	p.actedThisStreet = false
	p.hasRaiseRights = true
}

func (p *Player) getAnalyzer(community deck.Hand) *handrank.Analyzer {
	if len(p.holeCards) == 0 {
		return nil
	}

	hand := append(p.holeCards.Clone(), community...)
	key := hand.String()
	if p.analyzerCacheKey != key {
		p.analyzer = handrank.New(hand)
		p.analyzerCacheKey = key
	}

	return p.analyzer
}
