package holdem

import (
	"fmt"

	"holdem-server/pkg/holdem/action"

	"github.com/sirupsen/logrus"
)

// LegalActions computes the legal action set for the player on the clock.
// It is a pure read: calling it any number of times returns the same set
// until an action is applied. The set is empty when no one is to act
func (g *Game) LegalActions() []action.Action {
	if !g.phase.IsBettingRound() || g.currentIndex < 0 {
		return nil
	}

	p := g.players[g.currentIndex]
	actions := make([]action.Action, 0, 4)

	if p.currentBet == g.currentBet {
		actions = append(actions, action.Check)
	} else if p.chips > 0 {
		actions = append(actions, action.Call)
	}

	if g.canRaise(p) {
		actions = append(actions, action.Raise)
	}

	if p.chips > 0 {
		actions = append(actions, action.AllIn)
	}

	return append(actions, action.Fold)
}

// canRaise returns true if the player may raise to at least a full minimum
// raise. A stack that can only shove short of the minimum uses all_in instead
func (g *Game) canRaise(p *Player) bool {
	if !p.hasRaiseRights {
		return false
	}

	return p.chips+p.currentBet >= g.currentBet+g.minRaise
}

// CallAmount returns the chips the player on the clock must add to call
// A call for less than the full difference is an implicit all-in
func (g *Game) CallAmount() int {
	if g.currentIndex < 0 {
		return 0
	}

	p := g.players[g.currentIndex]
	amount := g.currentBet - p.currentBet
	if amount > p.chips {
		amount = p.chips
	}

	return amount
}

// MinRaiseTo returns the smallest legal raise-to amount
func (g *Game) MinRaiseTo() int {
	return g.currentBet + g.minRaise
}

// Apply validates and performs an action for the given player. Validation
// errors leave the game state unchanged; an error from dealing or settlement
// means the hand was voided and every stake refunded. amount is the raise-to
// total for raise and is ignored for every other action
func (g *Game) Apply(playerID string, a action.Action, amount int) error {
	if !g.phase.IsBettingRound() {
		return fmt.Errorf("%w: no betting round in progress", ErrIllegalAction)
	}

	p := g.playerByID(playerID)
	if p == nil || !p.canAct() {
		return ErrInvalidActor
	}

	if g.currentIndex < 0 || g.players[g.currentIndex] != p {
		return ErrNotYourTurn
	}

	legal := false
	for _, la := range g.LegalActions() {
		if la == a {
			legal = true
			break
		}
	}

	if !legal {
		return fmt.Errorf("%w: you cannot %s", ErrIllegalAction, a)
	}

	logAmount := 0
	switch a {
	case action.Fold:
		p.folded = true
	case action.Check:
		// nothing to commit
	case action.Call:
		logAmount = p.commit(g.currentBet - p.currentBet)
	case action.Raise:
		if err := g.applyRaise(p, amount); err != nil {
			return err
		}
		logAmount = amount
	case action.AllIn:
		logAmount = g.applyAllIn(p)
	}

	p.lastAction = a
	p.actedThisStreet = true
	p.hasRaiseRights = false

	g.log.WithFields(logrus.Fields{
		"hand":   g.handNumber,
		"player": playerID,
		"phase":  g.phase,
	}).Debug(a.LogMessage(logAmount))

	if g.activeCount() == 1 {
		return g.finishUncontested()
	}

	return g.advanceAction()
}

// applyRaise handles a raise to the given street total
func (g *Game) applyRaise(p *Player, raiseTo int) error {
	allInTotal := p.chips + p.currentBet
	if raiseTo > allInTotal {
		return fmt.Errorf("%w: raise of %d exceeds your stack", ErrIllegalAction, raiseTo)
	}

	// a raise-to of the entire stack is an all-in even when it falls short
	// of a full minimum raise
	if raiseTo < g.currentBet+g.minRaise && raiseTo != allInTotal {
		return fmt.Errorf("%w: raise must be to at least %d", ErrIllegalAction, g.currentBet+g.minRaise)
	}

	if raiseTo <= g.currentBet {
		return fmt.Errorf("%w: raise must exceed the current bet of %d", ErrIllegalAction, g.currentBet)
	}

	g.applyBetIncrease(p, raiseTo)
	return nil
}

// applyAllIn commits the player's entire stack
func (g *Game) applyAllIn(p *Player) int {
	total := p.chips + p.currentBet
	committed := p.commit(p.chips)

	if total > g.currentBet {
		g.reopenBetting(p, total)
	}

	return committed
}

func (g *Game) applyBetIncrease(p *Player, raiseTo int) {
	p.commit(raiseTo - p.currentBet)
	g.reopenBetting(p, raiseTo)
}

// reopenBetting raises the current bet. A full raise restores raise rights to
// every other player; a short all-in does not, so players who already called
// the previous full bet may only call or fold the difference
func (g *Game) reopenBetting(p *Player, raiseTo int) {
	raisedBy := raiseTo - g.currentBet
	fullRaise := raisedBy >= g.minRaise

	g.currentBet = raiseTo

	if !fullRaise {
		return
	}

	g.minRaise = raisedBy
	for _, other := range g.players {
		if other != p && other.canAct() {
			other.hasRaiseRights = true
		}
	}
}
