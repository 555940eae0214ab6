// Package chatws adapts the chat core to a gorilla/websocket
// transport: one session per connection, a buffered send channel with
// read/write pumps, and an event loop for room broadcasts.
package chatws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chatter/internal/app"
)

var errConnClosed = errors.New("connection closed")

// wsConn wraps a websocket connection with a non-blocking send
// buffer. Close marks the channel closed; the write pump drains what
// is already buffered, sends a close frame and shuts the socket, so
// "send then close" payloads are flushed before teardown.
type wsConn struct {
	conn      *websocket.Conn
	send      chan []byte
	writeWait time.Duration

	mu     sync.RWMutex
	closed bool
}

func newWsConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn, send: make(chan []byte, 32), writeWait: 5 * time.Second}
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errConnClosed
	}
	select {
	case c.send <- data:
	default:
		return app.ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}

// writePump is the sole owner of the socket teardown: whatever makes
// it exit (drained channel, write error, failed ping) the socket is
// closed on the way out, so a read pump blocked on a live peer is
// always released.
func (c *wsConn) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer func() { _ = c.conn.Close() }()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				deadline := time.Now().Add(c.writeWait)
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
				log.Error().Err(err).Str("module", "chatws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "chatws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.writeWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
