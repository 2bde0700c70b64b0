package room

import (
	"errors"
	"sync"
	"time"

	"holdem-server/pkg/holdem"
	"holdem-server/pkg/holdem/action"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// hand is the engine surface the session drives. *holdem.Game implements it
type hand interface {
	Phase() holdem.Phase
	State() *holdem.State
	Players() []*holdem.Player
	CurrentPlayerID() string
	LegalActions() []action.Action
	Apply(playerID string, a action.Action, amount int) error
	HandleDeparture(playerID string)
}

// Session runs a single room: it owns the seats and the active hand, and
// serializes every command through its run loop
type Session struct {
	pitBoss *PitBoss
	log     logrus.FieldLogger
	code    string
	opts    Options

	lock    sync.RWMutex
	clients map[*Client]bool

	// the fields below must only be touched from the run loop
	seats      []*Seat
	game       hand
	dealerSeat int
	handNumber int

	execInRunLoop chan func()
	close         chan bool
}

// NewSession creates a new room session
// This is called from a blocking state, so it needs to return quickly
func NewSession(pitBoss *PitBoss, code string, opts Options) *Session {
	return &Session{
		pitBoss:       pitBoss,
		log:           logrus.WithField("room", code),
		code:          code,
		opts:          opts,
		clients:       make(map[*Client]bool),
		seats:         make([]*Seat, opts.MaxPlayers),
		dealerSeat:    -1,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Code returns the room code
func (s *Session) Code() string {
	return s.code
}

// StartShift starts the run loop
func (s *Session) StartShift() {
	go s.runLoop()
}

// EndShift is called when the session is no longer needed. Any clients still
// attached are told to close
func (s *Session) EndShift() {
	for _, client := range s.Clients() {
		select {
		case client.Close <- "room closed":
		default:
		}
	}

	close(s.close)
}

func (s *Session) runLoop() {
	s.log.Debug("creating session run loop")
	for {
		select {
		case fn := <-s.execInRunLoop:
			fn()
		case <-s.close:
			s.log.Debug("terminating session run loop")
			return
		}
	}
}

// Clients will return a slice of connected (at the time) clients
func (s *Session) Clients() []*Client {
	s.lock.RLock()
	defer s.lock.RUnlock()

	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient adds a connected client. The client spectates until it sends
// join-room
// This method must return quickly
func (s *Session) AddClient(client *Client) {
	s.lock.Lock()
	client.session = s
	s.clients[client] = true
	s.lock.Unlock()

	s.execInRunLoop <- func() {
		if s.game != nil {
			client.Send(&Response{Event: EventGameState, Data: s.gamePayloadFor(client)})
		}
	}
}

// RemoveClient removes a disconnected client and frees its seat
// This method must return quickly
func (s *Session) RemoveClient(client *Client) (lastClient bool) {
	s.lock.Lock()
	delete(s.clients, client)
	nClients := len(s.clients)
	s.lock.Unlock()

	s.execInRunLoop <- func() {
		s.handleLeave(client)
	}

	return nClients == 0
}

// ReceivedMessage is called when a client sends a message to the server
func (s *Session) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Event {
	case EventJoinRoom:
		s.execInRunLoop <- func() {
			s.handleJoin(c, msg)
		}
	case EventLeaveRoom:
		s.execInRunLoop <- func() {
			s.handleLeave(c)
		}
	case EventChatMessage:
		s.execInRunLoop <- func() {
			s.handleChat(c, msg)
		}
	case EventStartGame:
		s.execInRunLoop <- func() {
			s.handleStartGame(c, msg)
		}
	case EventGameAction:
		s.execInRunLoop <- func() {
			s.handleGameAction(c, msg)
		}
	default:
		s.log.WithField("msg", msg).Warn("unknown message")
	}
}

func (s *Session) handleJoin(c *Client, msg *PayloadIn) {
	if c.name != "" {
		c.Send(newErrorResponse(EventJoinRoomError, msg.Context, errors.New("you already joined this room")))
		return
	}

	if msg.PlayerName == "" {
		c.Send(newErrorResponse(EventJoinRoomError, msg.Context, errors.New("playerName is required")))
		return
	}

	seat := s.firstFreeSeat()
	if seat < 0 {
		c.Send(newErrorResponse(EventJoinRoomError, msg.Context, errors.New("the room is full")))
		return
	}

	c.name = msg.PlayerName
	s.seats[seat] = &Seat{
		PlayerID: c.playerID,
		Name:     c.name,
		Index:    seat,
		Chips:    s.opts.StartingChips,
	}

	s.log.WithFields(logrus.Fields{
		"player": c.playerID,
		"name":   c.name,
		"seat":   seat,
	}).Debug("player joined")

	c.Send(&Response{
		Event: EventJoinRoomSuccess,
		Data: joinRoomSuccess{
			Room:       s.roomState(),
			PlayerID:   c.playerID,
			PlayerSeat: seat,
		},
		Context: msg.Context,
	})

	s.broadcast(&Response{
		Event: EventPlayerJoined,
		Data: playerEvent{
			PlayerID:   c.playerID,
			PlayerName: c.name,
			Seat:       seat,
		},
	}, c)
}

// handleLeave frees the player's seat. A mid-hand leave folds them first
func (s *Session) handleLeave(c *Client) {
	seat := s.seatByPlayerID(c.playerID)
	if seat == nil {
		return
	}

	gameChanged := s.game != nil && s.game.Phase().IsBettingRound()
	if gameChanged {
		s.game.HandleDeparture(c.playerID)
		s.afterGameMutation()
	}

	s.seats[seat.Index] = nil
	c.name = ""

	s.log.WithFields(logrus.Fields{
		"player": c.playerID,
		"seat":   seat.Index,
	}).Debug("player left")

	s.broadcast(&Response{
		Event: EventPlayerLeft,
		Data: playerEvent{
			PlayerID:   c.playerID,
			PlayerName: seat.Name,
			Seat:       seat.Index,
		},
	}, c)

	if gameChanged {
		s.broadcastGame(EventGameState)
	}
}

func (s *Session) handleChat(c *Client, msg *PayloadIn) {
	if c.name == "" {
		c.Send(newErrorResponse(EventError, msg.Context, errors.New("join the room before chatting")))
		return
	}

	s.broadcast(&Response{
		Event: EventChatMessage,
		Data: chatMessage{
			ID:         uuid.New().String(),
			PlayerName: c.name,
			Message:    msg.Message,
			Timestamp:  time.Now(),
		},
	}, nil)
}

func (s *Session) handleStartGame(c *Client, msg *PayloadIn) {
	if c.name == "" {
		c.Send(newErrorResponse(EventError, msg.Context, errors.New("join the room before starting a game")))
		return
	}

	if s.game != nil && s.game.Phase().IsBettingRound() {
		c.Send(newErrorResponse(EventError, msg.Context, errors.New("a hand is already in progress")))
		return
	}

	seats := s.fundedSeats()
	dealer := s.rotateDealer(seats)

	game, err := holdem.NewGame(s.log, seats, holdem.Options{
		SmallBlind: s.opts.SmallBlind,
		BigBlind:   s.opts.BigBlind,
		Dealer:     dealer,
		HandNumber: s.handNumber + 1,
	})
	if err != nil {
		c.Send(newErrorResponse(EventError, msg.Context, err))
		return
	}

	s.game = game
	s.handNumber++
	s.dealerSeat = seats[dealer].Seat

	s.log.WithFields(logrus.Fields{
		"hand":   s.handNumber,
		"dealer": s.dealerSeat,
	}).Debug("hand started")

	s.afterGameMutation()
	s.broadcastGame(EventGameStarted)
}

func (s *Session) handleGameAction(c *Client, msg *PayloadIn) {
	if s.game == nil || !s.game.Phase().IsBettingRound() {
		c.Send(newErrorResponse(EventError, msg.Context, errors.New("no hand in progress")))
		return
	}

	a, err := action.FromString(msg.Action)
	if err != nil {
		c.Send(newErrorResponse(EventError, msg.Context, err))
		return
	}

	if err := s.game.Apply(c.playerID, a, msg.Amount); err != nil {
		c.Send(newErrorResponse(EventError, msg.Context, err))

		// a dealing or settlement failure voids the hand mid-action;
		// everyone needs to see the table reset, not just the actor
		if !s.game.Phase().IsBettingRound() {
			s.afterGameMutation()
			s.broadcastGame(EventGameState)
		}
		return
	}

	s.afterGameMutation()
	s.broadcastGame(EventGameState)
}

// afterGameMutation carries finished-hand chip counts back into the seats
func (s *Session) afterGameMutation() {
	if s.game == nil || s.game.Phase().IsBettingRound() {
		return
	}

	for _, p := range s.game.Players() {
		if seat := s.seatByPlayerID(p.ID); seat != nil {
			seat.Chips = p.Chips()
		}
	}
}

// broadcast sends msg to every connected client except skip
func (s *Session) broadcast(msg *Response, skip *Client) {
	for _, client := range s.Clients() {
		if client == skip {
			continue
		}

		if !client.Send(msg) {
			s.log.WithField("client", client.String()).Warn("client send buffer full")
		}
	}
}

// broadcastGame sends each client its own redacted view of the hand
func (s *Session) broadcastGame(event string) {
	for _, client := range s.Clients() {
		client.Send(&Response{Event: event, Data: s.gamePayloadFor(client)})
	}
}

// gamePayloadFor builds the client's view of the hand. Other players' hole
// cards are hidden unless the hand went to showdown and they did not fold.
// Only the player on the clock sees a non-empty action list
func (s *Session) gamePayloadFor(c *Client) *gamePayload {
	state := s.game.State()
	for _, ps := range state.Players {
		if ps.ID == c.playerID {
			continue
		}

		if state.ShowedDown && !ps.IsFolded {
			continue
		}

		ps.HoleCards = nil
	}

	validActions := []action.Action{}
	if s.game.CurrentPlayerID() == c.playerID {
		validActions = s.game.LegalActions()
	}

	return &gamePayload{
		GameState:    state,
		ValidActions: validActions,
	}
}

func (s *Session) roomState() *RoomState {
	players := make([]*SeatState, 0, len(s.seats))
	for _, seat := range s.seats {
		if seat == nil {
			continue
		}

		players = append(players, &SeatState{
			ID:    seat.PlayerID,
			Name:  seat.Name,
			Seat:  seat.Index,
			Chips: seat.Chips,
		})
	}

	return &RoomState{
		Code:           s.code,
		MaxPlayers:     s.opts.MaxPlayers,
		Players:        players,
		GameInProgress: s.game != nil && s.game.Phase().IsBettingRound(),
	}
}

func (s *Session) firstFreeSeat() int {
	for i, seat := range s.seats {
		if seat == nil {
			return i
		}
	}

	return -1
}

func (s *Session) seatByPlayerID(playerID string) *Seat {
	for _, seat := range s.seats {
		if seat != nil && seat.PlayerID == playerID {
			return seat
		}
	}

	return nil
}

// fundedSeats returns the occupied seats holding chips, in seat order.
// Busted seats sit out until they hold chips again
func (s *Session) fundedSeats() []holdem.Seat {
	seats := make([]holdem.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		if seat == nil || seat.Chips <= 0 {
			continue
		}

		seats = append(seats, holdem.Seat{
			ID:    seat.PlayerID,
			Name:  seat.Name,
			Seat:  seat.Index,
			Chips: seat.Chips,
		})
	}

	return seats
}

// rotateDealer returns the index within seats of the first seat past the
// previous dealer's seat
func (s *Session) rotateDealer(seats []holdem.Seat) int {
	if len(seats) == 0 {
		return 0
	}

	for i, seat := range seats {
		if seat.Seat > s.dealerSeat {
			return i
		}
	}

	// wrapped around the table
	return 0
}
