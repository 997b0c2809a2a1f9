package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Recorder receives hub instrumentation. All methods must be safe to call
// from multiple goroutines.
type Recorder interface {
	IncrementWSConnections()
	DecrementWSConnections()
	RecordEventPublished(kind string)
	RecordSlowConsumerDropped()
}

// Hub owns the per-board subscriber sets. The sets are mutated only inside
// the run loop, fed by the connection lifecycle channels; request handlers
// never touch them and only publish by board key.
type Hub struct {
	instanceID string
	gate       Authorizer
	rdb        *redis.Client
	recorder   Recorder
	logger     *zap.Logger

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	leave      chan *Client
	broadcast  chan boardMessage
	done       chan struct{}

	// run-loop owned state
	clients map[uuid.UUID]map[*Client]bool
	subs    map[uuid.UUID]*boardSub
}

type joinRequest struct {
	client  *Client
	boardID uuid.UUID
}

type boardMessage struct {
	boardID    uuid.UUID
	payload    []byte
	exceptUser uuid.UUID
}

type boardSub struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// NewHub creates a hub. rdb may be nil, in which case fan-out is limited to
// this instance's connections. recorder may be nil.
func NewHub(gate Authorizer, rdb *redis.Client, recorder Recorder, logger *zap.Logger) *Hub {
	h := &Hub{
		instanceID: uuid.NewString(),
		gate:       gate,
		rdb:        rdb,
		recorder:   recorder,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		leave:      make(chan *Client),
		broadcast:  make(chan boardMessage, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]map[*Client]bool),
		subs:       make(map[uuid.UUID]*boardSub),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			if h.recorder != nil {
				h.recorder.IncrementWSConnections()
			}
			h.logger.Info("Client connected",
				zap.String("userId", client.userID.String()))

		case client := <-h.unregister:
			if h.recorder != nil {
				h.recorder.DecrementWSConnections()
			}
			h.detach(client, true)

		case req := <-h.join:
			// join is idempotent; a client follows at most one board
			if req.client.boardID == req.boardID {
				continue
			}
			h.detach(req.client, false)
			if h.clients[req.boardID] == nil {
				h.clients[req.boardID] = make(map[*Client]bool)
				h.subscribeBoard(req.boardID)
			}
			h.clients[req.boardID][req.client] = true
			req.client.boardID = req.boardID
			h.logger.Info("Client joined board",
				zap.String("userId", req.client.userID.String()),
				zap.String("boardId", req.boardID.String()))

		case client := <-h.leave:
			h.detach(client, false)

		case msg := <-h.broadcast:
			for client := range h.clients[msg.boardID] {
				if msg.exceptUser != uuid.Nil && client.userID == msg.exceptUser {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer; drop the connection
					if h.recorder != nil {
						h.recorder.RecordSlowConsumerDropped()
					}
					close(client.send)
					h.detach(client, true)
				}
			}
		}
	}
}

// detach removes a client from its board room, tearing down the board's
// redis subscription when the room empties.
func (h *Hub) detach(client *Client, disconnected bool) {
	boardID := client.boardID
	if boardID == uuid.Nil {
		return
	}
	room := h.clients[boardID]
	if room == nil {
		client.boardID = uuid.Nil
		return
	}
	delete(room, client)
	client.boardID = uuid.Nil
	if len(room) == 0 {
		delete(h.clients, boardID)
		if sub := h.subs[boardID]; sub != nil {
			sub.cancel()
			_ = sub.pubsub.Close()
			delete(h.subs, boardID)
		}
	}
	if disconnected {
		h.logger.Info("Client disconnected",
			zap.String("userId", client.userID.String()),
			zap.String("boardId", boardID.String()))
	}
}

// subscribeBoard bridges the board's redis channel into the local room so
// events published by other instances reach this instance's subscribers.
func (h *Hub) subscribeBoard(boardID uuid.UUID) {
	if h.rdb == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := h.rdb.Subscribe(ctx, ChannelFor(boardID))
	h.subs[boardID] = &boardSub{pubsub: pubsub, cancel: cancel}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("Recovered from panic in board subscription",
					zap.Any("panic", r),
					zap.String("boardId", boardID.String()))
			}
		}()
		ch := pubsub.Channel()
		for msg := range ch {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Failed to parse bridged event", zap.Error(err))
				continue
			}
			if env.InstanceID == h.instanceID {
				// already delivered locally when the event was published
				continue
			}
			payload, err := json.Marshal(env.Event)
			if err != nil {
				continue
			}
			select {
			case h.broadcast <- boardMessage{boardID: boardID, payload: payload, exceptUser: env.ExceptUser}:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Publish fans an event out to every subscriber of its board topic,
// including any connection of the acting user. Used for member and activity
// events, which have no optimistic client path. Transport errors are logged
// and swallowed; the caller's mutation has already committed.
func (h *Hub) Publish(ctx context.Context, ev Event) {
	h.publish(ctx, ev, uuid.Nil)
}

// PublishExcept fans an event out to the board topic excluding every
// connection of the given user. Used for entity events after a REST commit:
// the acting user's client already applied the mutation optimistically and
// must not double-apply.
func (h *Hub) PublishExcept(ctx context.Context, ev Event, exceptUser uuid.UUID) {
	h.publish(ctx, ev, exceptUser)
}

// publishFrom relays a client re-emitted event to the rest of the room.
func (h *Hub) publishFrom(ctx context.Context, client *Client, ev Event) {
	h.publish(ctx, ev, client.userID)
}

func (h *Hub) publish(ctx context.Context, ev Event, exceptUser uuid.UUID) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("Failed to marshal event", zap.Error(err))
		return
	}
	if h.recorder != nil {
		h.recorder.RecordEventPublished(string(ev.Kind))
	}

	select {
	case h.broadcast <- boardMessage{boardID: ev.BoardID, payload: payload, exceptUser: exceptUser}:
	default:
		h.logger.Warn("Broadcast queue full, dropping event",
			zap.String("kind", string(ev.Kind)),
			zap.String("boardId", ev.BoardID.String()))
	}

	if h.rdb == nil {
		return
	}
	env, err := json.Marshal(envelope{InstanceID: h.instanceID, ExceptUser: exceptUser, Event: ev})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, ChannelFor(ev.BoardID), env).Err(); err != nil {
		h.logger.Warn("Failed to publish event to redis",
			zap.String("kind", string(ev.Kind)),
			zap.Error(err))
	}
}

// Close stops the run loop and tears down redis subscriptions.
func (h *Hub) Close() {
	close(h.done)
}
