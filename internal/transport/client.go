package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tutien/tutien-server/internal/messaging"
	"github.com/tutien/tutien-server/internal/session"
)

const sendQueueDepth = 64

// client is one websocket connection. Outbound events arrive through
// the bus subscription and drain through the write pump; inbound frames
// are read directly and handed to the session handler.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// runClient owns the full lifetime of one connection.
func (l *WebsocketListener) runClient(conn *websocket.Conn) {
	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan []byte, sendQueueDepth),
		closed: make(chan struct{}),
	}
	defer conn.Close()

	if err := l.handler.OnConnect(c.id); err != nil {
		l.logger.Warn("rejecting connection", "conn", c.id, "error", err)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(l.writeWait))
		return
	}

	unsubscribe, err := l.bus.Subscribe(messaging.ConnSubject(c.id), func(data []byte) {
		if isKick(data) {
			c.close()
			return
		}
		select {
		case c.send <- data:
		case <-c.closed:
		default:
			l.logger.Warn("dropping event for slow client", "conn", c.id)
		}
	})
	if err != nil {
		l.logger.Error("subscribing connection subject", "conn", c.id, "error", err)
		l.handler.OnDisconnect(c.id)
		return
	}
	defer unsubscribe()

	go l.writePump(c)
	l.readPump(c)

	c.close()
	l.handler.OnDisconnect(c.id)
}

// readPump reads frames until the socket errors or closes.
func (l *WebsocketListener) readPump(c *client) {
	c.conn.SetReadLimit(l.readLimit)
	c.conn.SetReadDeadline(time.Now().Add(l.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(l.pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.logger.Warn("websocket read", "conn", c.id, "error", err)
			}
			return
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &frame); err != nil || frame.Event == "" {
			// malformed frames are dropped, the connection survives
			l.logger.Warn("discarding malformed frame", "conn", c.id, "error", err)
			continue
		}
		l.handler.OnMessage(c.id, frame.Event, frame.Data)
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. A write failure closes the client; the read pump notices and
// unwinds the session.
func (l *WebsocketListener) writePump(c *client) {
	ticker := time.NewTicker(l.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(l.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(l.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

// isKick checks an outbound envelope for the transport-level kick
// event without fully decoding the payload.
func isKick(data []byte) bool {
	var probe struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Event == session.EventKick
}
