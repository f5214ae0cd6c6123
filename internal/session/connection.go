// internal/session/connection.go
package session

import "github.com/google/uuid"

// DefaultOutboundBuffer is the OutChan capacity of a new connection.
const DefaultOutboundBuffer = 64

// Connection is one live client. Its ID doubles as the player id.
type Connection struct {
	ID      string
	Remote  string
	OutChan chan []byte // drained by the transport's write pump
}

// NewConnection allocates a connection with a fresh random id.
func NewConnection(remote string, buffer int) *Connection {
	if buffer <= 0 {
		buffer = DefaultOutboundBuffer
	}
	return &Connection{
		ID:      uuid.NewString(),
		Remote:  remote,
		OutChan: make(chan []byte, buffer),
	}
}

// Write queues msg without blocking. It reports false if the buffer is full
// and the message was dropped.
func (c *Connection) Write(msg []byte) bool {
	select {
	case c.OutChan <- msg:
		return true
	default:
		return false
	}
}
