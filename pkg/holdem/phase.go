package holdem

// Phase is the stage of the hand's lifecycle
// The values are the wire strings the client displays
type Phase string

// phase constants
const (
	PhaseWaiting  Phase = "waiting"
	PhasePreFlop  Phase = "pre_flop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseFinished Phase = "finished"
)

// IsBettingRound returns true if players act during the phase
func (p Phase) IsBettingRound() bool {
	switch p {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}

	return false
}

// nextStreet returns the phase that follows a completed betting round
func (p Phase) nextStreet() Phase {
	switch p {
	case PhasePreFlop:
		return PhaseFlop
	case PhaseFlop:
		return PhaseTurn
	case PhaseTurn:
		return PhaseRiver
	case PhaseRiver:
		return PhaseShowdown
	}

	panic("no next street from " + string(p))
}

// communityCardCount is how many community cards are dealt entering the phase
func (p Phase) communityCardCount() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn, PhaseRiver:
		return 1
	}

	return 0
}
