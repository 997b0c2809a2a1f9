package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client is one authenticated websocket connection. Its lifecycle is
// Disconnected -> Connected -> (joined to at most one board) -> Disconnected;
// any transport failure unregisters it and clears its subscription.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	hub    *Hub

	// boardID is owned by the hub run loop; uuid.Nil means not joined
	boardID uuid.UUID

	// followed mirrors boardID for the read pump's own checks so the two
	// goroutines never share a field
	followed uuid.UUID
}

// clientMessage is the wire shape of messages a client sends upstream:
// join/leave requests and re-emitted entity events.
type clientMessage struct {
	Kind    EventKind       `json:"kind"`
	BoardID uuid.UUID       `json:"boardId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Attach registers an upgraded connection with the hub and starts its pumps.
// The credential was verified before the upgrade; userID is the subject.
func (h *Hub) Attach(conn *websocket.Conn, userID uuid.UUID) {
	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		hub:    h,
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logger.Warn("Failed to parse client message", zap.Error(err))
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Client) handleMessage(msg *clientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch {
	case msg.Kind == EventJoinBoard:
		if msg.BoardID == uuid.Nil {
			return
		}
		// membership is re-checked at subscribe time, not only at the
		// REST layer
		if err := c.hub.gate.CanSubscribe(ctx, c.userID, msg.BoardID); err != nil {
			c.hub.logger.Warn("Join rejected",
				zap.String("userId", c.userID.String()),
				zap.String("boardId", msg.BoardID.String()),
				zap.Error(err))
			return
		}
		c.hub.join <- joinRequest{client: c, boardID: msg.BoardID}
		c.followed = msg.BoardID

	case msg.Kind == EventLeaveBoard:
		c.hub.leave <- c
		c.followed = uuid.Nil

	case msg.Kind.ClientEmittable():
		// relay to the rest of the room, excluding this connection; the
		// sender already applied the mutation optimistically
		if msg.BoardID == uuid.Nil || msg.BoardID != c.followed {
			return
		}
		c.hub.publishFrom(ctx, c, Event{
			Kind:    msg.Kind,
			BoardID: msg.BoardID,
			Payload: msg.Payload,
		})

	default:
		c.hub.logger.Warn("Unknown message kind", zap.String("kind", string(msg.Kind)))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
