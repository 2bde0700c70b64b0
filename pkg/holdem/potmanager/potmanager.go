package potmanager

import "sort"

// Contribution is one seat's total commitment to the current hand
type Contribution struct {
	PlayerID string
	Amount   int
	Folded   bool
}

// Pot is a single contribution tier. The lowest tier is the main pot; every
// higher tier is a side pot that excludes the players who could not match it
type Pot struct {
	Amount          int      `json:"amount"`
	EligiblePlayers []string `json:"eligiblePlayers"`
	IsMainPot       bool     `json:"isMainPot"`
}

// Pots is an ordered list of pots, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}

// Build partitions the hand's contributions into a main pot and side pots.
// Tier levels are the distinct contribution amounts of the non-folded players;
// every chip contributed (folded players included) lands in exactly one tier,
// so the pot total always equals the contribution total
func Build(contributions []Contribution) Pots {
	levels := make([]int, 0, len(contributions))
	seen := make(map[int]bool)
	maxContribution := 0
	for _, c := range contributions {
		if c.Amount > maxContribution {
			maxContribution = c.Amount
		}

		if c.Folded || c.Amount == 0 || seen[c.Amount] {
			continue
		}

		seen[c.Amount] = true
		levels = append(levels, c.Amount)
	}

	// no live player put in a chip, but folded players may have. Their
	// stakes still form a pot for the players left standing
	if len(levels) == 0 {
		pot := &Pot{IsMainPot: true}
		for _, c := range contributions {
			pot.Amount += c.Amount
			if !c.Folded {
				pot.EligiblePlayers = append(pot.EligiblePlayers, c.PlayerID)
			}
		}

		if pot.Amount == 0 || len(pot.EligiblePlayers) == 0 {
			return Pots{}
		}

		return Pots{pot}
	}

	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	prevLevel := 0
	for _, level := range levels {
		pot := &Pot{
			IsMainPot: len(pots) == 0,
		}

		for _, c := range contributions {
			amount := c.Amount
			if amount > level {
				amount = level
			}

			if amount > prevLevel {
				pot.Amount += amount - prevLevel
			}

			if !c.Folded && c.Amount >= level {
				pot.EligiblePlayers = append(pot.EligiblePlayers, c.PlayerID)
			}
		}

		pots = append(pots, pot)
		prevLevel = level
	}

	// chips from a folded player above the top live level still belong in the
	// top pot
	for _, c := range contributions {
		if c.Amount > prevLevel {
			pots[len(pots)-1].Amount += c.Amount - prevLevel
		}
	}

	return pots
}

// Distribute awards each pot to its strongest eligible player(s) and returns
// the payout per player. A pot with a single eligible player is awarded
// uncontested without consulting hand strength; this also returns an
// uncalled over-bet to its owner. Ties split the pot evenly with any odd
// chips going to the earliest eligible winner in seatOrder, which the caller
// provides starting left of the dealer
func Distribute(pots Pots, strengths map[string]int, seatOrder []string) map[string]int {
	payouts := make(map[string]int)

	for _, pot := range pots {
		if len(pot.EligiblePlayers) == 0 {
			continue
		}

		if len(pot.EligiblePlayers) == 1 {
			payouts[pot.EligiblePlayers[0]] += pot.Amount
			continue
		}

		best := 0
		for _, id := range pot.EligiblePlayers {
			if s := strengths[id]; s > best {
				best = s
			}
		}

		winners := make(map[string]bool)
		for _, id := range pot.EligiblePlayers {
			if strengths[id] == best {
				winners[id] = true
			}
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)

		for _, id := range seatOrder {
			if !winners[id] {
				continue
			}

			payouts[id] += share
			if remainder > 0 {
				payouts[id] += remainder
				remainder = 0
			}
		}
	}

	return payouts
}
