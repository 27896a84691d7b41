package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"echofm/logger"
	"echofm/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be less than pongWait
	readLimit  = 4096
	sendBuffer = 256
)

// ErrNotConnected is returned by Emit when no connection is open.
var ErrNotConnected = fmt.Errorf("realtime: not connected")

// Handlers receive inbound channel events. They are invoked from the read
// goroutine; implementations must not block.
type Handlers struct {
	OnMessage     func(msg model.ChatMessage)
	OnOnlineUsers func(userIDs []string)
	OnActivity    func(update model.ActivityUpdate)
	OnState       func(connected bool)
}

// Client maintains a single websocket connection to the realtime channel.
// One connection per authenticated user; Connect is idempotent per user id.
type Client struct {
	baseURL  string
	handlers Handlers

	// connectMu serializes Connect calls end to end, so the idempotency
	// check, the teardown of an old connection, the dial and the install of
	// the new one happen as one step. mu alone only guards the fields.
	connectMu sync.Mutex

	mu        sync.Mutex
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	userID    string
	connected bool
}

// NewClient creates a disconnected channel client.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// SetHandlers registers the inbound event handlers. Must be called before
// Connect.
func (c *Client) SetHandlers(h Handlers) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = h
}

// Connect dials the channel for the given user. Calling it again with the
// same user id while connected is a no-op; with a different user id the old
// connection is torn down first. Concurrent calls are serialized; at most
// one connection exists at any time.
func (c *Client) Connect(ctx context.Context, userID string) error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	if c.connected && c.userID == userID {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	// Switching users: drop the old connection.
	c.Disconnect()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse realtime url: %w", err)
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial realtime channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.send = make(chan []byte, sendBuffer)
	c.done = make(chan struct{})
	c.userID = userID
	c.connected = true
	handlers := c.handlers
	send, done := c.send, c.done
	c.mu.Unlock()

	go c.readPump(conn, handlers)
	go c.writePump(conn, send, done)

	if handlers.OnState != nil {
		handlers.OnState(true)
	}
	logger.Info("realtime channel connected", logger.String("user", userID))
	return nil
}

// Disconnect closes the connection. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		c.closeConn(conn)
	}
}

// closeConn tears down the given connection, but only while it is still the
// client's current one. A stale read pump closing its dead connection must
// not take a newer connection down with it.
func (c *Client) closeConn(conn *websocket.Conn) {
	c.mu.Lock()
	if !c.connected || c.conn != conn {
		c.mu.Unlock()
		conn.Close()
		return
	}
	done := c.done
	handlers := c.handlers
	userID := c.userID
	c.conn = nil
	c.send = nil
	c.done = nil
	c.userID = ""
	c.connected = false
	c.mu.Unlock()

	close(done)
	conn.Close()

	if handlers.OnState != nil {
		handlers.OnState(false)
	}
	logger.Info("realtime channel disconnected", logger.String("user", userID))
}

// IsConnected reports whether a connection is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// UserID returns the user id of the open connection, or "".
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Emit sends an event over the channel. The send is queued and non-blocking;
// when the buffer is full the event is dropped with a warning.
func (c *Client) Emit(event model.EventType, payload interface{}) error {
	c.mu.Lock()
	send := c.send
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	msg := model.ChannelMessage{
		Type:      event,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	raw, err := json.Marshal(&msg)
	if err != nil {
		return fmt.Errorf("encode channel message: %w", err)
	}

	select {
	case send <- raw:
		return nil
	default:
		logger.Warn("realtime send buffer full, dropping event", logger.String("event", string(event)))
		return nil
	}
}

func (c *Client) readPump(conn *websocket.Conn, handlers Handlers) {
	defer c.closeConn(conn)

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("realtime read error", logger.ErrorField(err))
			}
			return
		}

		var msg model.ChannelMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("invalid channel message", logger.ErrorField(err))
			continue
		}

		c.dispatch(&msg, handlers)
	}
}

func (c *Client) dispatch(msg *model.ChannelMessage, handlers Handlers) {
	switch msg.Type {
	case model.EventMessage:
		var m model.ChatMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			logger.Warn("invalid message payload", logger.ErrorField(err))
			return
		}
		if handlers.OnMessage != nil {
			handlers.OnMessage(m)
		}

	case model.EventOnlineUsers:
		var ids []string
		if err := json.Unmarshal(msg.Data, &ids); err != nil {
			logger.Warn("invalid onlineUsers payload", logger.ErrorField(err))
			return
		}
		if handlers.OnOnlineUsers != nil {
			handlers.OnOnlineUsers(ids)
		}

	case model.EventUpdateActivity:
		var update model.ActivityUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			logger.Warn("invalid activity payload", logger.ErrorField(err))
			return
		}
		if handlers.OnActivity != nil {
			handlers.OnActivity(update)
		}

	case model.EventPong:
		// read deadline already extended by the pong handler

	default:
		logger.Debug("unhandled channel event", logger.String("type", string(msg.Type)))
	}
}

func (c *Client) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case raw := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
