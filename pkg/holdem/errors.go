package holdem

import "errors"

// ErrInsufficientPlayers is an error when a hand is started with fewer than two funded seats
var ErrInsufficientPlayers = errors.New("at least two players with chips are required")

// ErrNotYourTurn is an error when a seated, active player acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrInvalidActor is an error when the actor is not in the hand, or has folded or gone all-in
var ErrInvalidActor = errors.New("you cannot act in this hand")

// ErrIllegalAction is an error when the submitted action is not in the legal set
// Specific violations wrap this error
var ErrIllegalAction = errors.New("action is not allowed")
