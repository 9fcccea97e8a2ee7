package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JonMunkholm/gridsheet/internal/core"
	"github.com/JonMunkholm/gridsheet/internal/logging"
	"github.com/JonMunkholm/gridsheet/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 << 10

	// Outbound messages buffered per connection.
	sendBuffer = 16
)

// Socket message types sent to the browser.
const (
	msgInit       = "init"
	msgResult     = "result"
	msgProjection = "projection"
	msgError      = "error"
)

// socketMessage is the envelope for every outbound frame. Inbound frames
// are plain session.Command values.
type socketMessage struct {
	Type       string           `json:"type"`
	Result     *session.Result  `json:"result,omitempty"`
	Projection *core.Projection `json:"projection,omitempty"`
	Error      *ErrorResponse   `json:"error,omitempty"`
}

// socketClient is one websocket connection bound to a session.
type socketClient struct {
	conn    *websocket.Conn
	sess    *session.Session
	send    chan socketMessage
	changes <-chan struct{}
	logger  *slog.Logger
}

// handleSocket upgrades the connection and streams projections to the
// browser. Every change to the session, from this socket, another tab or
// an import, is followed by a fresh projection.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := logging.FromContext(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	changes, cancel := sess.Subscribe()
	c := &socketClient{
		conn:    conn,
		sess:    sess,
		send:    make(chan socketMessage, sendBuffer),
		changes: changes,
		logger:  logger,
	}

	p, err := sess.Project()
	if err != nil {
		cancel()
		conn.Close()
		return
	}
	c.send <- socketMessage{Type: msgInit, Projection: p}

	logger.Info("websocket connected")
	ctx, stop := context.WithCancel(context.Background())
	go c.writePump(ctx)
	c.readPump()

	stop()
	cancel()
	logger.Info("websocket disconnected")
}

// readPump applies inbound commands until the connection fails.
func (c *socketClient) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.sess.Touch()
		return nil
	})

	for {
		var cmd session.Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		res, err := c.sess.Apply(cmd)
		if err != nil {
			body := newErrorResponse(err)
			c.logger.Debug("websocket command failed", "command", cmd.Type, "error", err, "code", body.Code)
			c.enqueue(socketMessage{Type: msgError, Error: &body})
			if errors.Is(err, session.ErrSessionNotFound) {
				return
			}
			continue
		}

		// A change is followed by a projection message from the subscription.
		if res.Changed {
			res.Projection = nil
		}
		c.enqueue(socketMessage{Type: msgResult, Result: res})
	}
}

// enqueue queues msg unless the writer has fallen behind, in which case
// the connection is dropped.
func (c *socketClient) enqueue(msg socketMessage) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("websocket send buffer full, closing")
		c.conn.Close()
	}
}

// writePump writes queued messages, projections after changes and pings.
// It is the only goroutine that writes to the connection.
func (c *socketClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}

		case _, ok := <-c.changes:
			if !ok {
				// Session ended.
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			p, err := c.sess.Project()
			if err != nil {
				return
			}
			if err := c.write(socketMessage{Type: msgProjection, Projection: p}); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *socketClient) write(msg socketMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("websocket write error", "error", err)
		return err
	}
	return nil
}
