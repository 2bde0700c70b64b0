package holdem

import (
	"testing"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/holdem/action"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeats(chips ...int) []Seat {
	seats := make([]Seat, len(chips))
	for i, c := range chips {
		seats[i] = Seat{
			ID:    string(rune('a' + i)),
			Name:  "Player " + string(rune('A'+i)),
			Seat:  i,
			Chips: c,
		}
	}

	return seats
}

func testOptions() Options {
	return Options{
		SmallBlind: 10,
		BigBlind:   20,
		HandNumber: 1,
	}
}

// testGame builds a game with an optionally stacked deck. Cards are dealt in
// two passes starting left of the dealer, then 3/1/1 to the board
func testGame(t *testing.T, stacked string, seats []Seat, opts Options) *Game {
	t.Helper()

	g, err := newGame(logrus.StandardLogger(), seats, opts)
	require.NoError(t, err)

	if stacked != "" {
		g.deck.Cards = deck.CardsFromString(stacked)
	} else {
		g.deck.Shuffle()
	}

	require.NoError(t, g.begin())
	return g
}

func chipTotal(g *Game) int {
	total := 0
	for _, p := range g.players {
		total += p.chips + p.totalBet
	}

	return total
}

func TestNewGame_insufficientPlayers(t *testing.T) {
	a := assert.New(t)

	_, err := NewGame(logrus.StandardLogger(), testSeats(1000), testOptions())
	a.Equal(ErrInsufficientPlayers, err)

	// a seat without chips does not count
	_, err = NewGame(logrus.StandardLogger(), testSeats(1000, 0), testOptions())
	a.Equal(ErrInsufficientPlayers, err)

	_, err = NewGame(logrus.StandardLogger(), nil, testOptions())
	a.Equal(ErrInsufficientPlayers, err)
}

func TestNewGame_validation(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.SmallBlind = 0
	_, err := NewGame(logrus.StandardLogger(), testSeats(1000, 1000), opts)
	a.EqualError(err, "blinds must be greater than zero")

	opts = testOptions()
	opts.SmallBlind = 50
	_, err = NewGame(logrus.StandardLogger(), testSeats(1000, 1000), opts)
	a.EqualError(err, "small blind must not exceed big blind")

	opts = testOptions()
	opts.Dealer = 2
	_, err = NewGame(logrus.StandardLogger(), testSeats(1000, 1000), opts)
	a.EqualError(err, "dealer index 2 is out of range")

	_, err = NewGame(logrus.StandardLogger(), testSeats(1, 1, 1, 1, 1, 1, 1), testOptions())
	a.EqualError(err, "no more than six players may be seated")
}

func TestGame_blindsAndTurnOrder(t *testing.T) {
	a := assert.New(t)

	// four seats, dealer at seat 0: blinds at seats 1 and 2,
	// first to act pre-flop is seat 3
	g := testGame(t, "", testSeats(1000, 1000, 1000, 1000), testOptions())

	a.Equal(PhasePreFlop, g.phase)
	a.Equal(20, g.currentBet)
	a.Equal(20, g.minRaise)
	a.Equal(10, g.players[1].totalBet)
	a.Equal(20, g.players[2].totalBet)
	a.Equal("d", g.CurrentPlayerID())

	for _, p := range g.players {
		a.Len(p.holeCards, 2)
	}

	// call it around; big blind retains the option
	a.NoError(g.Apply("d", action.Call, 0))
	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Call, 0))
	a.Equal(PhasePreFlop, g.phase)
	a.Equal("c", g.CurrentPlayerID())
	a.Contains(g.LegalActions(), action.Check)
	a.Contains(g.LegalActions(), action.Raise)

	a.NoError(g.Apply("c", action.Check, 0))

	// post-flop first to act is seat 1
	a.Equal(PhaseFlop, g.phase)
	a.Len(g.community, 3)
	a.Equal("b", g.CurrentPlayerID())
	a.Equal(0, g.currentBet)
	a.Equal(20, g.minRaise)
}

func TestGame_headsUp(t *testing.T) {
	a := assert.New(t)

	// heads-up the dealer posts the small blind and acts first pre-flop
	g := testGame(t, "", testSeats(1000, 1000), testOptions())

	a.Equal(10, g.players[0].totalBet)
	a.Equal(20, g.players[1].totalBet)
	a.Equal("a", g.CurrentPlayerID())

	a.NoError(g.Apply("a", action.Call, 0))
	a.Equal("b", g.CurrentPlayerID())
	a.NoError(g.Apply("b", action.Check, 0))

	// the non-dealer acts first on later streets
	a.Equal(PhaseFlop, g.phase)
	a.Equal("b", g.CurrentPlayerID())
}

func TestGame_legalActionsSoundness(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())

	// facing the big blind: no check
	actions := g.LegalActions()
	a.Equal([]action.Action{action.Call, action.Raise, action.AllIn, action.Fold}, actions)

	// identical set on a repeated query
	a.Equal(actions, g.LegalActions())

	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Call, 0))

	// big blind has matched: check but no call
	actions = g.LegalActions()
	a.Contains(actions, action.Check)
	a.NotContains(actions, action.Call)
}

func TestGame_applyErrors(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())
	before := g.State()

	// seat a (left of the big blind) is first to act
	a.Equal(ErrNotYourTurn, g.Apply("b", action.Call, 0))
	a.Equal(ErrInvalidActor, g.Apply("zz", action.Call, 0))
	a.ErrorIs(g.Apply("a", action.Check, 0), ErrIllegalAction)
	a.ErrorIs(g.Apply("a", action.Raise, 25), ErrIllegalAction)
	a.ErrorIs(g.Apply("a", action.Raise, 5000), ErrIllegalAction)

	// failed actions leave the state untouched
	a.Equal(before, g.State())

	a.NoError(g.Apply("a", action.Fold, 0))
	a.Equal(ErrInvalidActor, g.Apply("a", action.Call, 0))
}

func TestGame_uncontestedWin(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())
	total := chipTotal(g)

	a.NoError(g.Apply("a", action.Fold, 0))
	a.NoError(g.Apply("b", action.Fold, 0))

	// big blind takes the pot without a showdown
	a.Equal(PhaseFinished, g.phase)
	a.False(g.showedDown)
	a.Equal(1010, g.players[2].chips)
	a.Equal(total, chipTotal(g))

	// no cards are revealed in the snapshot
	for _, ps := range g.State().Players {
		a.Empty(ps.Hand)
	}
}

func TestGame_minRaiseProgression(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())

	// raise to 60 sets the minimum raise to 40
	a.NoError(g.Apply("a", action.Raise, 60))
	a.Equal(60, g.currentBet)
	a.Equal(40, g.minRaise)
	a.Equal(100, g.MinRaiseTo())

	a.ErrorIs(g.Apply("b", action.Raise, 99), ErrIllegalAction)
	a.NoError(g.Apply("b", action.Raise, 150))
	a.Equal(90, g.minRaise)
}

func TestGame_shortAllInDoesNotReopen(t *testing.T) {
	a := assert.New(t)

	// seat b is the short stack
	g := testGame(t, "", testSeats(1000, 85, 1000), testOptions())

	a.NoError(g.Apply("a", action.Raise, 60))

	// b's shove to 85 is above the bet but short of a full raise to 100
	a.NoError(g.Apply("b", action.AllIn, 0))
	a.Equal(85, g.currentBet)
	a.Equal(40, g.minRaise)

	// c has not acted and may still raise
	a.Equal("c", g.CurrentPlayerID())
	a.Contains(g.LegalActions(), action.Raise)
	a.NoError(g.Apply("c", action.Fold, 0))

	// a already called the previous full bet: call or fold only
	a.Equal("a", g.CurrentPlayerID())
	actions := g.LegalActions()
	a.NotContains(actions, action.Raise)
	a.Contains(actions, action.Call)
	a.Equal(25, g.CallAmount())
}

func TestGame_callForLessIsAllIn(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 50), testOptions())
	total := chipTotal(g)

	a.NoError(g.Apply("a", action.Raise, 200))
	a.NoError(g.Apply("b", action.Fold, 0))

	// the big blind calls 30 for their last chips; with no one left to
	// act the board runs out and the hand settles
	a.Equal(30, g.CallAmount())
	a.NoError(g.Apply("c", action.Call, 0))

	p := g.playerByID("c")
	a.True(p.allIn)
	a.Equal(50, p.totalBet)
	a.Equal(PhaseFinished, g.phase)
	a.Equal(total, chipTotal(g))
}

func TestGame_fullHandWithShowdown(t *testing.T) {
	a := assert.New(t)

	// dealer at seat 0: deal order is b, c, a
	stacked := "2c,14s,7d,3c,14h,8d," + // hole cards: b=2c3c c=AA a=7d8d
		"14d,9c,5h," + // flop
		"10s," + // turn
		"2h" // river
	g := testGame(t, stacked, testSeats(1000, 1000, 1000), testOptions())
	total := chipTotal(g)

	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Call, 0))
	a.NoError(g.Apply("c", action.Check, 0))

	a.Equal(PhaseFlop, g.phase)
	a.NoError(g.Apply("b", action.Check, 0))
	a.NoError(g.Apply("c", action.Raise, 50))
	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Fold, 0))

	a.Equal(PhaseTurn, g.phase)
	a.NoError(g.Apply("c", action.Check, 0))
	a.NoError(g.Apply("a", action.Check, 0))

	a.Equal(PhaseRiver, g.phase)
	a.NoError(g.Apply("c", action.Check, 0))
	a.NoError(g.Apply("a", action.Check, 0))

	// c's trip aces take the pot
	a.Equal(PhaseFinished, g.phase)
	a.True(g.showedDown)
	a.Equal(1090, g.playerByID("c").chips)
	a.Equal(930, g.playerByID("a").chips)
	a.Equal(980, g.playerByID("b").chips)
	a.Equal(total, chipTotal(g))

	// the snapshot reveals the hands of the players who showed down
	state := g.State()
	for _, ps := range state.Players {
		switch ps.ID {
		case "c":
			a.Equal("Three of a kind", ps.Hand)
			a.Equal(160, ps.Winnings)
		case "a":
			a.NotEmpty(ps.Hand)
		case "b":
			a.Empty(ps.Hand)
		}
	}
}

func TestGame_sidePots(t *testing.T) {
	a := assert.New(t)

	// dealer at seat 0: deal order is b, c, a
	// b has aces, c kings, a queens; the board misses everyone
	stacked := "14s,13s,12s,14h,13h,12h," +
		"2c,7d,9h," +
		"3s," +
		"5c"
	g := testGame(t, stacked, testSeats(1000, 60, 150), testOptions())
	total := chipTotal(g)

	a.NoError(g.Apply("a", action.Raise, 200))
	a.NoError(g.Apply("b", action.AllIn, 0))
	a.NoError(g.Apply("c", action.AllIn, 0))

	// no more betting is possible: the board runs out to showdown
	a.Equal(PhaseFinished, g.phase)
	a.True(g.showedDown)

	// main pot 180 to b's aces, side pot 180 to c's kings, and the
	// uncalled 50 back to a
	a.Equal(180, g.playerByID("b").chips)
	a.Equal(180, g.playerByID("c").chips)
	a.Equal(850, g.playerByID("a").chips)
	a.Equal(total, chipTotal(g))
}

func TestGame_splitPot(t *testing.T) {
	a := assert.New(t)

	// both hole hands play the board's straight
	stacked := "2c,2d,3c,3d," +
		"10s,11s,12h," +
		"13d," +
		"14c"
	g := testGame(t, stacked, testSeats(1000, 1000), testOptions())

	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Check, 0))
	for i := 0; i < 3; i++ {
		a.NoError(g.Apply("b", action.Check, 0))
		a.NoError(g.Apply("a", action.Check, 0))
	}

	a.Equal(PhaseFinished, g.phase)
	a.Equal(1000, g.playerByID("a").chips)
	a.Equal(1000, g.playerByID("b").chips)
}

func TestGame_handleDeparture(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000, 1000), testOptions())

	// out-of-turn departure folds the player immediately
	g.HandleDeparture("b")
	a.True(g.playerByID("b").folded)
	a.Equal("d", g.CurrentPlayerID())

	// in-turn departure advances the action
	g.HandleDeparture("d")
	a.True(g.playerByID("d").folded)
	a.Equal("a", g.CurrentPlayerID())

	// the last remaining player wins uncontested
	g.HandleDeparture("a")
	a.Equal(PhaseFinished, g.phase)
	a.False(g.showedDown)
	a.Equal(1010, g.playerByID("c").chips)

	// departures after the hand ends are a no-op
	g.HandleDeparture("c")
	a.Equal(PhaseFinished, g.phase)
}

func TestGame_departuresAwardBlindsToIdlePlayer(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000, 1000), testOptions())
	total := chipTotal(g)

	// everyone who posted a chip departs before the dealer ever acts; the
	// dealer still collects the blinds
	g.HandleDeparture("d")
	g.HandleDeparture("b")
	g.HandleDeparture("c")

	a.Equal(PhaseFinished, g.phase)
	a.False(g.showedDown)
	a.Equal(1030, g.playerByID("a").chips)
	a.Equal(990, g.playerByID("b").chips)
	a.Equal(980, g.playerByID("c").chips)
	a.Equal(1000, g.playerByID("d").chips)
	a.Equal(total, chipTotal(g))
}

func TestGame_departureCompletesRound(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())

	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Call, 0))

	// the big blind is the only player left to act; their departure
	// completes the round
	g.HandleDeparture("c")
	a.Equal(PhaseFlop, g.phase)
	a.Equal("b", g.CurrentPlayerID())
}

func TestGame_deckExhaustionVoidsHand(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000, 1000), testOptions())

	// no cards left for the flop
	g.deck.Cards = nil

	a.NoError(g.Apply("a", action.Call, 0))
	a.NoError(g.Apply("b", action.Call, 0))

	// the check completes the round; the failed deal voids the hand and
	// the caller hears why
	err := g.Apply("c", action.Check, 0)
	a.Equal(deck.ErrEndOfDeck, err)

	a.Equal(PhaseWaiting, g.phase)
	for _, p := range g.players {
		a.Equal(1000, p.chips)
		a.Zero(p.totalBet)
	}
}

func TestGame_blindShortStack(t *testing.T) {
	a := assert.New(t)

	// the big blind cannot cover the blind and is all-in from the start
	g := testGame(t, "", testSeats(1000, 1000, 15), testOptions())

	p := g.playerByID("c")
	a.True(p.allIn)
	a.Equal(15, p.totalBet)

	// the table still owes the full big blind
	a.Equal(20, g.currentBet)
	a.Equal("a", g.CurrentPlayerID())
}

func TestGame_stateSnapshotIsolation(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, "", testSeats(1000, 1000), testOptions())

	state := g.State()
	state.Players[0].Chips = 1
	state.CommunityCards = append(state.CommunityCards, deck.CardFromString("2c"))
	hole := deck.CardsToString(state.Players[0].HoleCards)
	state.Players[0].HoleCards[0] = deck.CardFromString("3d")

	// mutating one snapshot never leaks into the next
	fresh := g.State()
	a.Equal(990, fresh.Players[0].Chips)
	a.Empty(fresh.CommunityCards)
	a.Equal(hole, deck.CardsToString(fresh.Players[0].HoleCards))
}
