package room

import (
	"errors"

	"holdem-server/internal/util"

	"github.com/sirupsen/logrus"
)

// PitBoss owns the room directory and dispatches connecting players to their
// room's session
type PitBoss struct {
	opts     Options
	sessions map[string]*Session

	create     chan chan string
	connect    chan connectRequest
	disconnect chan *Client
}

// connectRequest carries a connecting client and a channel the run loop
// closes once the client is attached to its session. Waiting for it keeps the
// client's first message from arriving before the session exists
type connectRequest struct {
	client *Client
	done   chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(opts Options) *PitBoss {
	return &PitBoss{
		opts:       opts,
		sessions:   make(map[string]*Session),
		create:     make(chan chan string),
		connect:    make(chan connectRequest, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case reply := <-p.create:
			code := p.newRoomCode()
			session := NewSession(p, code, p.opts)
			session.StartShift()
			p.sessions[code] = session

			logrus.WithField("room", code).Debug("room created")
			reply <- code
		case req := <-p.connect:
			client := req.client
			logrus.WithField("player", client.String()).Debug("client connected")

			if session, found := p.sessions[client.roomCode]; found {
				session.AddClient(client)
			} else {
				// the client is told and left to close its side
				client.Send(newErrorResponse(EventJoinRoomError, "", errors.New("room not found")))
			}

			close(req.done)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			session, found := p.sessions[client.roomCode]
			if !found {
				continue
			}

			if session.RemoveClient(client) {
				session.EndShift()
				delete(p.sessions, client.roomCode)
				logrus.WithField("room", client.roomCode).Debug("room closed")
			}
		}
	}
}

func (p *PitBoss) newRoomCode() string {
	for {
		code := util.RoomCode()
		if _, found := p.sessions[code]; !found {
			return code
		}
	}
}

// CreateRoom creates a new empty room and returns its code
func (p *PitBoss) CreateRoom() string {
	reply := make(chan string)
	p.create <- reply
	return <-reply
}

// ClientConnected is called when a client connects to the server. It returns
// once the client is attached to its session or rejected
func (p *PitBoss) ClientConnected(client *Client) {
	done := make(chan bool)
	p.connect <- connectRequest{client: client, done: done}
	<-done
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
