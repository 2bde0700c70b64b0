package handrank

import (
	"math"
	"sort"

	"holdem-server/pkg/deck"
)

// Analyzer determines the best five-card hand from the cards provided
// It is a pure computation; the input cards are never modified
type Analyzer struct {
	cards deck.Hand

	flush         []int
	flushSuit     deck.Suit
	quads         []int
	trips         []int
	pairs         []int
	straight      int
	straightFlush int

	hand     Hand
	strength int
}

// New will return a new Analyzer instance
// In Texas Hold'em the input is the player's two hole cards plus the five
// community cards; any count from five to seven works
func New(cards []*deck.Card) *Analyzer {
	// clone to prevent modifying original
	sortedCards := make(deck.Hand, len(cards))
	copy(sortedCards, cards)
	sort.Sort(sort.Reverse(sortByRank(sortedCards)))

	h := &Analyzer{
		cards: sortedCards,
	}

	h.analyzeHand()
	h.calculateHand()
	return h
}

func (h *Analyzer) analyzeHand() {
	h.checkGroups()
	h.checkFlush()

	h.straight = bestStraight(distinctRanks(h.cards))

	if h.flush != nil {
		suited := make(deck.Hand, 0, len(h.cards))
		for _, card := range h.cards {
			if card.Suit == h.flushSuit {
				suited = append(suited, card)
			}
		}

		h.straightFlush = bestStraight(distinctRanks(suited))
	}
}

// checkGroups finds quads, trips, and pairs
// Because the cards are sorted descending, each list ends up ordered best first
func (h *Analyzer) checkGroups() {
	prevRank := math.MaxInt8
	numOfRank := 0

	closeGroup := func(rank, count int) {
		switch count {
		case 4:
			h.quads = append(h.quads, rank)
		case 3:
			h.trips = append(h.trips, rank)
		case 2:
			h.pairs = append(h.pairs, rank)
		}
	}

	for _, card := range h.cards {
		if card.Rank == prevRank {
			numOfRank++
			continue
		}

		closeGroup(prevRank, numOfRank)
		prevRank = card.Rank
		numOfRank = 1
	}

	closeGroup(prevRank, numOfRank)
}

func (h *Analyzer) checkFlush() {
	suitCounts := make(map[deck.Suit][]int)
	for _, card := range h.cards {
		suitCounts[card.Suit] = append(suitCounts[card.Suit], card.Rank)
	}

	for suit, ranks := range suitCounts {
		if len(ranks) >= 5 {
			h.flush = ranks[0:5]
			h.flushSuit = suit
			return
		}
	}
}

// distinctRanks returns the distinct ranks in descending order, with an ace
// counted both high and low
func distinctRanks(cards deck.Hand) []int {
	seen := make(map[int]bool)
	ranks := make([]int, 0, len(cards)+1)
	for _, card := range cards {
		if !seen[card.Rank] {
			seen[card.Rank] = true
			ranks = append(ranks, card.Rank)
		}
	}

	if seen[deck.Ace] {
		ranks = append(ranks, deck.LowAce)
	}

	return ranks
}

// bestStraight returns the high rank of the best five-card run, or 0
// The input ranks must be distinct and sorted descending
func bestStraight(ranks []int) int {
	streak := 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1]-1 {
			streak++
			if streak >= 5 {
				return ranks[i] + 4
			}
		} else {
			streak = 1
		}
	}

	return 0
}

// GetHand will return the best possible hand the cards can make
func (h *Analyzer) GetHand() Hand {
	return h.hand
}

// GetStraightFlush will return the high card of the straight flush, if possible
func (h *Analyzer) GetStraightFlush() (int, bool) {
	if h.straightFlush > 0 {
		return h.straightFlush, true
	}

	return 0, false
}

// GetFourOfAKind will return the best four of a kind, if possible
func (h *Analyzer) GetFourOfAKind() (int, bool) {
	if len(h.quads) > 0 {
		return h.quads[0], true
	}

	return 0, false
}

// GetFullHouse will return the best full house, if possible
func (h *Analyzer) GetFullHouse() ([]int, bool) {
	if len(h.trips) == 0 {
		return nil, false
	}

	trips := h.trips[0]

	// in a seven-card hand the pair may come from a second set of trips
	pair := 0
	if len(h.pairs) > 0 {
		pair = h.pairs[0]
	}
	if len(h.trips) >= 2 && h.trips[1] > pair {
		pair = h.trips[1]
	}

	if pair == 0 {
		return nil, false
	}

	return []int{trips, pair}, true
}

// GetFlush will return the best possible flush, if possible
func (h *Analyzer) GetFlush() ([]int, bool) {
	if h.flush != nil {
		return h.flush, true
	}

	return nil, false
}

// GetStraight will return the high card of the best straight, if possible
func (h *Analyzer) GetStraight() (int, bool) {
	if h.straight > 0 {
		return h.straight, true
	}

	return 0, false
}

// GetThreeOfAKind will return the best three of a kind, if possible
func (h *Analyzer) GetThreeOfAKind() (int, bool) {
	if len(h.trips) > 0 {
		return h.trips[0], true
	}

	return 0, false
}

// GetTwoPair will return the best two pairs, if possible
func (h *Analyzer) GetTwoPair() ([]int, bool) {
	if len(h.pairs) >= 2 {
		return h.pairs[0:2], true
	}

	return nil, false
}

// GetPair will return the best pair, if possible
func (h *Analyzer) GetPair() (int, bool) {
	if len(h.pairs) > 0 {
		return h.pairs[0], true
	}

	return 0, false
}

// GetHighCard will return the five highest cards
func (h *Analyzer) GetHighCard() []int {
	n := 5
	if len(h.cards) < n {
		n = len(h.cards)
	}

	cards := make([]int, n)
	for i := 0; i < n; i++ {
		cards[i] = h.cards[i].Rank
	}

	return cards
}

// kickers returns up to n ranks not present in the exclude set,
// best first
func (h *Analyzer) kickers(n int, exclude ...int) []int {
	skip := make(map[int]bool, len(exclude))
	for _, rank := range exclude {
		skip[rank] = true
	}

	kickers := make([]int, 0, n)
	for _, card := range h.cards {
		if skip[card.Rank] {
			continue
		}

		// don't count a paired kicker twice
		skip[card.Rank] = true
		kickers = append(kickers, card.Rank)
		if len(kickers) == n {
			break
		}
	}

	return kickers
}

func calculateStrength(hand Hand, cards []int) int {
	fiveCards := make([]int, 5)
	copy(fiveCards, cards)

	strength := math.Pow(15, 5) * float64(hand)
	for i := 0; i < 5; i++ {
		val := fiveCards[4-i]
		strength += math.Pow(15, float64(i)) * float64(val)
	}

	return int(strength)
}

// GetStrength returns the strength of the hand
// Strengths are totally ordered: a greater value always beats a lesser one,
// and equal values split
func (h *Analyzer) GetStrength() int {
	if h.strength > 0 {
		return h.strength
	}

	h.strength = h.getStrength()
	return h.strength
}

func (h *Analyzer) getStrength() int {
	hand := h.GetHand()

	switch hand {
	case HighCard:
		return calculateStrength(hand, h.GetHighCard())
	case OnePair:
		pair, _ := h.GetPair()
		return calculateStrength(hand, append([]int{pair}, h.kickers(3, pair)...))
	case TwoPair:
		twoPair, _ := h.GetTwoPair()
		ranks := append([]int{twoPair[0], twoPair[1]}, h.kickers(1, twoPair...)...)
		return calculateStrength(hand, ranks)
	case ThreeOfAKind:
		trips, _ := h.GetThreeOfAKind()
		return calculateStrength(hand, append([]int{trips}, h.kickers(2, trips)...))
	case Straight:
		s, _ := h.GetStraight()
		return calculateStrength(hand, []int{s})
	case Flush:
		f, _ := h.GetFlush()
		return calculateStrength(hand, f)
	case FullHouse:
		fh, _ := h.GetFullHouse()
		return calculateStrength(hand, fh)
	case FourOfAKind:
		fk, _ := h.GetFourOfAKind()
		return calculateStrength(hand, append([]int{fk}, h.kickers(1, fk)...))
	case StraightFlush:
		s, _ := h.GetStraightFlush()
		return calculateStrength(hand, []int{s})
	}

	panic("unknown hand")
}

// calculateHand will determine the best hand
// This must be called after analyzeHand() has been called
func (h *Analyzer) calculateHand() {
	if _, ok := h.GetStraightFlush(); ok {
		h.hand = StraightFlush
	} else if _, ok := h.GetFourOfAKind(); ok {
		h.hand = FourOfAKind
	} else if _, ok := h.GetFullHouse(); ok {
		h.hand = FullHouse
	} else if _, ok := h.GetFlush(); ok {
		h.hand = Flush
	} else if _, ok := h.GetStraight(); ok {
		h.hand = Straight
	} else if _, ok := h.GetThreeOfAKind(); ok {
		h.hand = ThreeOfAKind
	} else if _, ok := h.GetTwoPair(); ok {
		h.hand = TwoPair
	} else if _, ok := h.GetPair(); ok {
		h.hand = OnePair
	} else {
		h.hand = HighCard
	}
}

type sortByRank deck.Hand

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	return s[i].Rank < s[j].Rank
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
