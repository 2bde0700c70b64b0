package room

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a player connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan *Response

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	session *Session

	playerID string
	name     string
	roomCode string
}

// NewClient returns a new client for the given room code. The player id is
// assigned here; the display name is set when the client joins the room
func NewClient(conn *websocket.Conn, roomCode string) *Client {
	return &Client{
		Conn:     conn,
		send:     make(chan *Response, 256),
		Close:    make(chan string),
		playerID: uuid.New().String(),
		roomCode: roomCode,
	}
}

// PlayerID returns the client's server-assigned player id
func (c *Client) PlayerID() string {
	return c.playerID
}

// Send queues a message for the web client. It returns false if the client's
// send buffer is full
func (c *Client) Send(msg *Response) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outbound messages
func (c *Client) SendChan() <-chan *Response {
	return c.send
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.playerID, c.roomCode)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.session == nil {
		logrus.WithField("msg", msg).Warn("received message, but session not found")
		return
	}

	c.session.ReceivedMessage(c, msg)
}
