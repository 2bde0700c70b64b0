package holdem

import (
	"errors"
	"fmt"
	"sort"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/holdem/action"
	"holdem-server/pkg/holdem/potmanager"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures a hand of No-Limit Texas Hold'em
type Options struct {
	SmallBlind int
	BigBlind   int
	// Dealer is the index of the dealer button within the seated players,
	// ordered by seat
	Dealer int
	// HandNumber identifies the hand within the room's session
	HandNumber int
}

// DefaultOptions returns the default options for a hand
func DefaultOptions() Options {
	return Options{
		SmallBlind: 10,
		BigBlind:   20,
		HandNumber: 1,
	}
}

// Seat describes a funded seat entering a hand
type Seat struct {
	ID    string
	Name  string
	Seat  int
	Chips int
}

// Game owns one room's authoritative hand state. It is not safe for
// concurrent use; the room session serializes all access
type Game struct {
	log  logrus.FieldLogger
	id   string
	opts Options

	deck      *deck.Deck
	players   []*Player
	community deck.Hand

	phase        Phase
	currentBet   int
	minRaise     int
	dealerIndex  int
	currentIndex int
	handNumber   int

	showedDown bool
}

// NewGame starts a new hand: it rotates nothing itself, but deals hole cards,
// posts the blinds, and leaves the first player to act on the clock
func NewGame(logger logrus.FieldLogger, seats []Seat, opts Options) (*Game, error) {
	g, err := newGame(logger, seats, opts)
	if err != nil {
		return nil, err
	}

	g.deck.Shuffle()
	if err := g.begin(); err != nil {
		// cannot happen with a fresh 52-card deck and at most six seats
		return nil, err
	}

	return g, nil
}

func newGame(logger logrus.FieldLogger, seats []Seat, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	funded := make([]Seat, 0, len(seats))
	for _, seat := range seats {
		if seat.Chips > 0 {
			funded = append(funded, seat)
		}
	}

	if len(funded) < 2 {
		return nil, ErrInsufficientPlayers
	}

	if len(funded) > 6 {
		return nil, errors.New("no more than six players may be seated")
	}

	sort.Slice(funded, func(i, j int) bool {
		return funded[i].Seat < funded[j].Seat
	})

	players := make([]*Player, len(funded))
	seen := make(map[int]bool)
	for i, seat := range funded {
		if seat.Seat < 0 || seat.Seat > 5 {
			return nil, fmt.Errorf("seat %d is out of range", seat.Seat)
		}

		if seen[seat.Seat] {
			return nil, fmt.Errorf("seat %d is occupied twice", seat.Seat)
		}

		seen[seat.Seat] = true
		players[i] = newPlayer(seat.ID, seat.Name, seat.Seat, seat.Chips)
	}

	if opts.Dealer < 0 || opts.Dealer >= len(players) {
		return nil, fmt.Errorf("dealer index %d is out of range", opts.Dealer)
	}

	return &Game{
		log:          logger.WithField("game", "texas-hold-em"),
		id:           uuid.New().String(),
		opts:         opts,
		deck:         deck.New(),
		players:      players,
		community:    make(deck.Hand, 0, 5),
		phase:        PhaseWaiting,
		dealerIndex:  opts.Dealer,
		currentIndex: -1,
		handNumber:   opts.HandNumber,
	}, nil
}

func validateOptions(opts Options) error {
	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be greater than zero")
	}

	if opts.SmallBlind > opts.BigBlind {
		return errors.New("small blind must not exceed big blind")
	}

	return nil
}

// begin posts the blinds, deals hole cards, and opens the pre-flop round
func (g *Game) begin() error {
	n := len(g.players)

	// heads-up, the dealer posts the small blind and acts first pre-flop
	sbIndex := (g.dealerIndex + 1) % n
	if n == 2 {
		sbIndex = g.dealerIndex
	}
	bbIndex := (sbIndex + 1) % n

	sb := g.players[sbIndex]
	bb := g.players[bbIndex]
	sb.commit(g.opts.SmallBlind)
	bb.commit(g.opts.BigBlind)

	g.currentBet = g.opts.BigBlind
	g.minRaise = g.opts.BigBlind
	g.phase = PhasePreFlop

	// two passes, starting left of the dealer
	for i := 0; i < 2; i++ {
		for j := 1; j <= n; j++ {
			p := g.players[(g.dealerIndex+j)%n]

			card, err := g.deck.Draw()
			if err != nil {
				g.abortHand(err)
				return err
			}

			p.holeCards.AddCard(card)
		}
	}

	g.log.WithFields(logrus.Fields{
		"hand":    g.handNumber,
		"players": n,
		"dealer":  g.players[g.dealerIndex].Seat,
	}).Debug("hand started")

	first := (bbIndex + 1) % n
	g.currentIndex = g.nextCanActFrom(first)
	if !g.bettingPossible() {
		// the blinds already put everyone all-in; run the board out
		return g.advancePhase()
	}

	return nil
}

// bettingPossible returns true while at least one decision remains this
// street: either two players can still act, or the lone remaining actor
// faces an unmatched bet
func (g *Game) bettingPossible() bool {
	if g.canActCount() >= 2 {
		return true
	}

	if g.currentIndex < 0 {
		return false
	}

	p := g.players[g.currentIndex]
	return p.canAct() && p.currentBet < g.currentBet
}

// nextCanActFrom returns the index of the first player at or after start who
// can still act, or -1 if no one can
func (g *Game) nextCanActFrom(start int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		index := (start + i) % n
		if g.players[index].canAct() {
			return index
		}
	}

	return -1
}

func (g *Game) canActCount() int {
	count := 0
	for _, p := range g.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

func (g *Game) activeCount() int {
	count := 0
	for _, p := range g.players {
		if !p.folded {
			count++
		}
	}

	return count
}

// roundComplete returns true when every player who can still act has acted
// this street and matched the current bet
func (g *Game) roundComplete() bool {
	for _, p := range g.players {
		if !p.canAct() {
			continue
		}

		if !p.actedThisStreet || p.currentBet != g.currentBet {
			return false
		}
	}

	return true
}

// advancePhase moves the hand to the next street, dealing community cards,
// and continues straight through to showdown when no betting is possible
func (g *Game) advancePhase() error {
	for {
		next := g.phase.nextStreet()
		if next == PhaseShowdown {
			return g.showdown()
		}

		for i := 0; i < next.communityCardCount(); i++ {
			card, err := g.deck.Draw()
			if err != nil {
				g.abortHand(err)
				return err
			}

			g.community.AddCard(card)
		}

		g.phase = next
		g.newStreet()

		if g.bettingPossible() {
			return nil
		}

		// everyone left is all-in; keep dealing
	}
}

func (g *Game) newStreet() {
	for _, p := range g.players {
		p.newStreet()
	}

	g.currentBet = 0
	g.minRaise = g.opts.BigBlind
	g.currentIndex = g.nextCanActFrom((g.dealerIndex + 1) % len(g.players))
}

// showdown reveals hands, settles every pot, and finishes the hand
func (g *Game) showdown() error {
	g.phase = PhaseShowdown
	g.showedDown = true
	g.currentIndex = -1

	strengths := make(map[string]int)
	for _, p := range g.players {
		if p.folded {
			continue
		}

		strengths[p.ID] = p.getAnalyzer(g.community).GetStrength()
	}

	return g.settle(strengths)
}

// finishUncontested awards the pots to the last player standing without
// revealing anyone's cards
func (g *Game) finishUncontested() error {
	g.currentIndex = -1
	return g.settle(nil)
}

func (g *Game) settle(strengths map[string]int) error {
	pots := g.buildPots()

	contributed := 0
	for _, p := range g.players {
		contributed += p.totalBet
	}

	if pots.Total() != contributed {
		err := fmt.Errorf("pot total %d does not match contributions %d", pots.Total(), contributed)
		g.abortHand(err)
		return err
	}

	payouts := potmanager.Distribute(pots, strengths, g.seatOrderFromDealer())

	paid := 0
	for _, p := range g.players {
		if amount, ok := payouts[p.ID]; ok {
			p.chips += amount
			p.winnings = amount
			paid += amount

			g.log.WithFields(logrus.Fields{
				"hand":   g.handNumber,
				"player": p.ID,
				"amount": amount,
			}).Debug("pot awarded")
		}
	}

	if paid != contributed {
		// chips were created or destroyed; the hand is void
		for _, p := range g.players {
			p.chips -= p.winnings
			p.winnings = 0
		}

		err := fmt.Errorf("distributed %d of %d contributed chips", paid, contributed)
		g.abortHand(err)
		return err
	}

	// the pots are paid; clear the table
	for _, p := range g.players {
		p.currentBet = 0
		p.totalBet = 0
	}

	g.phase = PhaseFinished
	return nil
}

// seatOrderFromDealer returns player ids in seat order starting left of the
// dealer, the order in which odd chips are awarded
func (g *Game) seatOrderFromDealer() []string {
	n := len(g.players)
	order := make([]string, n)
	for i := 0; i < n; i++ {
		order[i] = g.players[(g.dealerIndex+1+i)%n].ID
	}

	return order
}

// abortHand unwinds a hand after an internal invariant violation: every
// player's contribution is refunded and the room returns to waiting
func (g *Game) abortHand(reason error) {
	g.log.WithError(reason).WithField("hand", g.handNumber).Error("aborting hand")

	for _, p := range g.players {
		p.chips += p.totalBet
		p.totalBet = 0
		p.currentBet = 0
		p.winnings = 0
	}

	g.community = g.community[:0]
	g.currentBet = 0
	g.currentIndex = -1
	g.showedDown = false
	g.phase = PhaseWaiting
}

// HandleDeparture treats a player leaving mid-hand as an immediate fold.
// Chips already committed stay in the pot. Calling it for an unknown player
// or a completed hand is a no-op
func (g *Game) HandleDeparture(playerID string) {
	p := g.playerByID(playerID)
	if p == nil || p.folded || !g.phase.IsBettingRound() {
		return
	}

	p.folded = true
	p.lastAction = action.Fold

	g.log.WithFields(logrus.Fields{
		"hand":   g.handNumber,
		"player": playerID,
	}).Debug("player departed mid-hand, folding")

	if g.activeCount() == 1 {
		_ = g.finishUncontested()
		return
	}

	if g.currentIndex >= 0 && g.players[g.currentIndex] == p {
		_ = g.advanceAction()
		return
	}

	// an out-of-turn departure can complete the round if the departing
	// player was the only one left to act
	if g.roundComplete() {
		_ = g.advancePhase()
	}
}

// advanceAction moves the clock to the next player, or on to the next street
// when the round is complete. A non-nil error means the hand was voided
func (g *Game) advanceAction() error {
	if g.roundComplete() {
		return g.advancePhase()
	}

	g.currentIndex = g.nextCanActFrom((g.currentIndex + 1) % len(g.players))
	return nil
}

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// HandNumber returns the hand number within the session
func (g *Game) HandNumber() int {
	return g.handNumber
}

// CurrentPlayerID returns the id of the player on the clock, or "" if no one
func (g *Game) CurrentPlayerID() string {
	if g.currentIndex < 0 || g.currentIndex >= len(g.players) {
		return ""
	}

	return g.players[g.currentIndex].ID
}

// Players returns the hand's players in seat order
func (g *Game) Players() []*Player {
	players := make([]*Player, len(g.players))
	copy(players, g.players)
	return players
}
