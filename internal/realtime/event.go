package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EventKind names a board mutation on the wire. The values are the event
// names clients subscribe to.
type EventKind string

const (
	EventJoinBoard      EventKind = "join-board"
	EventLeaveBoard     EventKind = "leave-board"
	EventBoardUpdated   EventKind = "board-updated"
	EventBoardDeleted   EventKind = "board-deleted"
	EventListCreated    EventKind = "list-created"
	EventListUpdated    EventKind = "list-updated"
	EventListDeleted    EventKind = "list-deleted"
	EventListsReordered EventKind = "lists-reordered"
	EventTaskCreated    EventKind = "task-created"
	EventTaskUpdated    EventKind = "task-updated"
	EventTaskDeleted    EventKind = "task-deleted"
	EventTaskMoved      EventKind = "task-moved"
	EventTasksReordered EventKind = "tasks-reordered"
	EventMemberAdded    EventKind = "member-added"
	EventMemberRemoved  EventKind = "member-removed"
	EventActivityLogged EventKind = "activity-logged"
)

// clientEmittable holds the kinds a connected client may relay to its board
// room after a successful optimistic mutation. Member and activity events
// have no optimistic client path and are only published server side.
var clientEmittable = map[EventKind]bool{
	EventBoardUpdated:   true,
	EventBoardDeleted:   true,
	EventListCreated:    true,
	EventListUpdated:    true,
	EventListDeleted:    true,
	EventListsReordered: true,
	EventTaskCreated:    true,
	EventTaskUpdated:    true,
	EventTaskDeleted:    true,
	EventTaskMoved:      true,
	EventTasksReordered: true,
}

// ClientEmittable reports whether a connected client may relay this kind.
func (k EventKind) ClientEmittable() bool {
	return clientEmittable[k]
}

// Event is one fire-and-forget notification on a board topic. Delivery is
// at-most-once per connection while connected; there is no queueing or
// replay, and a reconnecting client must refetch board state.
type Event struct {
	Kind    EventKind       `json:"kind"`
	BoardID uuid.UUID       `json:"boardId"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event, marshaling the payload.
func NewEvent(kind EventKind, boardID uuid.UUID, payload interface{}) (Event, error) {
	ev := Event{Kind: kind, BoardID: boardID}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		ev.Payload = data
	}
	return ev, nil
}

// Publisher fans an event out to every subscriber of the event's board
// topic. Implementations are best-effort: a failed publish must never fail
// the mutation that produced the event.
//
// Publish delivers to all subscribers, including the acting user's own
// connections. PublishExcept skips every connection of exceptUser, which is
// how entity events avoid double-apply on the originator after an
// optimistic local mutation.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
	PublishExcept(ctx context.Context, ev Event, exceptUser uuid.UUID)
}

// Authorizer gates topic subscription on board membership.
type Authorizer interface {
	CanSubscribe(ctx context.Context, userID, boardID uuid.UUID) error
}

// ChannelFor returns the redis pub/sub channel carrying a board's events.
func ChannelFor(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}

// envelope wraps an event for the redis bridge. InstanceID lets each hub
// skip messages it already delivered locally; ExceptUser carries the
// originator exclusion across instances.
type envelope struct {
	InstanceID string    `json:"instanceId"`
	ExceptUser uuid.UUID `json:"exceptUser,omitempty"`
	Event      Event     `json:"event"`
}
