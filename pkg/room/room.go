package room

// Options configures the tables a PitBoss runs
type Options struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int
	MaxPlayers    int
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
		MaxPlayers:    6,
	}
}

// Seat is an occupied seat in a room
type Seat struct {
	PlayerID string
	Name     string
	Index    int
	Chips    int
}

// SeatState is the wire representation of an occupied seat
type SeatState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Chips int    `json:"chips"`
}

// RoomState is the wire representation of a room
type RoomState struct {
	Code           string       `json:"code"`
	MaxPlayers     int          `json:"maxPlayers"`
	Players        []*SeatState `json:"players"`
	GameInProgress bool         `json:"gameInProgress"`
}
