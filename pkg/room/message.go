package room

import (
	"time"

	"holdem-server/pkg/holdem"
	"holdem-server/pkg/holdem/action"
)

// Inbound event names. These are the events the JS client emits
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventChatMessage = "chat-message"
	EventStartGame   = "start-game"
	EventGameAction  = "game-action"
)

// Outbound event names
const (
	EventJoinRoomSuccess = "join-room-success"
	EventJoinRoomError   = "join-room-error"
	EventPlayerJoined    = "player-joined"
	EventPlayerLeft      = "player-left"
	EventGameStarted     = "game-started"
	EventGameState       = "gameState"
	EventError           = "error"
)

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Event      string `json:"event"`
	RoomCode   string `json:"roomCode,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Message    string `json:"message,omitempty"`
	Action     string `json:"action,omitempty"`
	Amount     int    `json:"amount,omitempty"`
	// Context will be passed back on any outgoing message
	Context string `json:"context,omitempty"`
}

// Response is an outbound message to one or more clients
type Response struct {
	Event   string      `json:"event"`
	Data    interface{} `json:"data,omitempty"`
	Context string      `json:"context,omitempty"`
}

func newErrorResponse(event, ctx string, err error) *Response {
	return &Response{
		Event:   event,
		Data:    map[string]string{"error": err.Error()},
		Context: ctx,
	}
}

type joinRoomSuccess struct {
	Room       *RoomState `json:"room"`
	PlayerID   string     `json:"playerId"`
	PlayerSeat int        `json:"playerSeat"`
}

type playerEvent struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Seat       int    `json:"seat"`
}

type chatMessage struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"playerName"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// gamePayload is sent with game-started and gameState events. ValidActions is
// non-empty only for the player on the clock
type gamePayload struct {
	GameState    *holdem.State   `json:"gameState"`
	ValidActions []action.Action `json:"validActions"`
}
