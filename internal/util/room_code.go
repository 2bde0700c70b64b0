package util

import (
	"strings"

	"holdem-server/internal/rng"
)

// codeAlphabet omits 0, O, 1, I, and L so codes read unambiguously
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// RoomCodeLength is the number of characters in a room code
const RoomCodeLength = 6

var random rng.Generator = rng.Crypto{}

// RoomCode returns a new random room code
func RoomCode() string {
	var sb strings.Builder
	for i := 0; i < RoomCodeLength; i++ {
		sb.WriteByte(codeAlphabet[random.Intn(len(codeAlphabet))])
	}

	return sb.String()
}
