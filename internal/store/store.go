// Package store is the client-side board state: a snapshot of one board kept
// consistent against the backend through optimistic local mutation and
// idempotent merging of broadcast events.
//
// Moves are applied locally before the backend confirms them. A rejected
// move is rolled back by refetching the full snapshot rather than by
// reversing the local edit, since concurrent remote events may have landed
// in between. Remote events carry full entity payloads, so applying the
// same event twice, or applying an event for state already refetched,
// converges to the same snapshot.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/position"
	"taskboard-api/internal/realtime"
)

// Snapshot is the authoritative board state as served by the backend.
type Snapshot struct {
	Board *domain.Board  `json:"board"`
	Lists []*domain.List `json:"lists"`
	Tasks []*domain.Task `json:"tasks"`
}

// Fetcher loads the authoritative snapshot of a board.
type Fetcher interface {
	FetchBoard(ctx context.Context, boardID uuid.UUID) (*Snapshot, error)
}

// Mover submits structural mutations to the backend.
type Mover interface {
	MoveTask(ctx context.Context, taskID, listID uuid.UUID, pos int) error
	ReorderLists(ctx context.Context, batch []position.Update) error
	ReorderTasks(ctx context.Context, batch []TaskPlacement) error
}

// TaskPlacement is one entry of a task re-index batch: the complete target
// placement of a single task.
type TaskPlacement struct {
	TaskID   uuid.UUID `json:"taskId"`
	ListID   uuid.UUID `json:"listId"`
	Position int       `json:"position"`
}

// BoardStore holds the state of one followed board.
type BoardStore struct {
	mu      sync.RWMutex
	boardID uuid.UUID
	board   *domain.Board
	lists   map[uuid.UUID]*domain.List
	tasks   map[uuid.UUID]*domain.Task
	gone    bool

	fetcher Fetcher
	mover   Mover
	logger  *zap.Logger
}

// NewBoardStore creates an empty store for one board. Call Load before
// reading from it.
func NewBoardStore(boardID uuid.UUID, fetcher Fetcher, mover Mover, logger *zap.Logger) *BoardStore {
	return &BoardStore{
		boardID: boardID,
		lists:   make(map[uuid.UUID]*domain.List),
		tasks:   make(map[uuid.UUID]*domain.Task),
		fetcher: fetcher,
		mover:   mover,
		logger:  logger,
	}
}

// Load replaces the local state with a fresh snapshot.
func (s *BoardStore) Load(ctx context.Context) error {
	snap, err := s.fetcher.FetchBoard(ctx, s.boardID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(snap)
	return nil
}

func (s *BoardStore) replaceLocked(snap *Snapshot) {
	s.board = snap.Board
	s.lists = make(map[uuid.UUID]*domain.List, len(snap.Lists))
	for _, l := range snap.Lists {
		s.lists[l.ID] = l
	}
	s.tasks = make(map[uuid.UUID]*domain.Task, len(snap.Tasks))
	for _, t := range snap.Tasks {
		s.tasks[t.ID] = t
	}
	s.gone = false
}

// Board returns the board header, nil before the first Load.
func (s *BoardStore) Board() *domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Gone reports whether the board was deleted remotely.
func (s *BoardStore) Gone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gone
}

// Lists returns the board's lists ordered by (position, createdAt, id).
func (s *BoardStore) Lists() []*domain.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lists := make([]*domain.List, 0, len(s.lists))
	for _, l := range s.lists {
		lists = append(lists, l)
	}
	position.Sort(lists)
	return lists
}

// TasksIn returns a list's tasks ordered by (position, createdAt, id).
func (s *BoardStore) TasksIn(listID uuid.UUID) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.ListID == listID {
			tasks = append(tasks, t)
		}
	}
	position.Sort(tasks)
	return tasks
}

// Task returns a task by id, nil when unknown.
func (s *BoardStore) Task(taskID uuid.UUID) *domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[taskID]
}

// MoveTask applies the move locally first, then submits it. When the
// backend rejects the move the whole snapshot is refetched, which discards
// the optimistic edit along with anything else that drifted.
func (s *BoardStore) MoveTask(ctx context.Context, taskID, listID uuid.UUID, pos int) error {
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if ok {
		task.ListID = listID
		task.Position = pos
	}
	s.mu.Unlock()

	if err := s.mover.MoveTask(ctx, taskID, listID, pos); err != nil {
		s.rollback(ctx)
		return err
	}
	return nil
}

// ReorderLists applies a list re-index batch optimistically, then submits
// it, rolling back by refetch on rejection.
func (s *BoardStore) ReorderLists(ctx context.Context, batch []position.Update) error {
	s.mu.Lock()
	for _, u := range batch {
		if l, ok := s.lists[u.ID]; ok {
			l.Position = u.Position
		}
	}
	s.mu.Unlock()

	if err := s.mover.ReorderLists(ctx, batch); err != nil {
		s.rollback(ctx)
		return err
	}
	return nil
}

// ReorderTasks applies a task re-index batch optimistically, then submits
// it, rolling back by refetch on rejection.
func (s *BoardStore) ReorderTasks(ctx context.Context, batch []TaskPlacement) error {
	s.mu.Lock()
	for _, p := range batch {
		if t, ok := s.tasks[p.TaskID]; ok {
			t.ListID = p.ListID
			t.Position = p.Position
		}
	}
	s.mu.Unlock()

	if err := s.mover.ReorderTasks(ctx, batch); err != nil {
		s.rollback(ctx)
		return err
	}
	return nil
}

func (s *BoardStore) rollback(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("Rollback refetch failed, local state may be stale",
			zap.String("boardId", s.boardID.String()), zap.Error(err))
	}
}

type taskPayload struct {
	Task *domain.Task `json:"task"`
}

type listPayload struct {
	List *domain.List `json:"list"`
}

type boardPayload struct {
	Board *domain.Board `json:"board"`
}

type deletePayload struct {
	TaskID uuid.UUID `json:"taskId"`
	ListID uuid.UUID `json:"listId"`
}

type memberPayload struct {
	UserID uuid.UUID `json:"userId"`
}

type listBatchPayload struct {
	ListPositions []struct {
		ListID   uuid.UUID `json:"listId"`
		Position int       `json:"position"`
	} `json:"listPositions"`
}

type taskBatchPayload struct {
	TaskPositions []TaskPlacement `json:"taskPositions"`
}

// Apply merges one broadcast event into the local state. Merging is
// idempotent: entity payloads are upserted whole, deletions of unknown ids
// are no-ops, and batch entries naming unknown ids are skipped. An event
// for a different board is ignored.
func (s *BoardStore) Apply(ev realtime.Event) {
	if ev.BoardID != s.boardID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case realtime.EventBoardUpdated:
		var p boardPayload
		if s.decode(ev, &p) && p.Board != nil {
			s.board = p.Board
		}
	case realtime.EventBoardDeleted:
		s.gone = true
		s.lists = make(map[uuid.UUID]*domain.List)
		s.tasks = make(map[uuid.UUID]*domain.Task)
	case realtime.EventListCreated, realtime.EventListUpdated:
		var p listPayload
		if s.decode(ev, &p) && p.List != nil {
			s.lists[p.List.ID] = p.List
		}
	case realtime.EventListDeleted:
		var p deletePayload
		if s.decode(ev, &p) {
			delete(s.lists, p.ListID)
			for id, t := range s.tasks {
				if t.ListID == p.ListID {
					delete(s.tasks, id)
				}
			}
		}
	case realtime.EventListsReordered:
		var p listBatchPayload
		if s.decode(ev, &p) {
			for _, lp := range p.ListPositions {
				if l, ok := s.lists[lp.ListID]; ok {
					l.Position = lp.Position
				}
			}
		}
	case realtime.EventTaskCreated, realtime.EventTaskUpdated, realtime.EventTaskMoved:
		var p taskPayload
		if s.decode(ev, &p) && p.Task != nil {
			s.tasks[p.Task.ID] = p.Task
		}
	case realtime.EventTaskDeleted:
		var p deletePayload
		if s.decode(ev, &p) {
			delete(s.tasks, p.TaskID)
		}
	case realtime.EventTasksReordered:
		var p taskBatchPayload
		if s.decode(ev, &p) {
			for _, tp := range p.TaskPositions {
				if t, ok := s.tasks[tp.TaskID]; ok {
					t.ListID = tp.ListID
					t.Position = tp.Position
				}
			}
		}
	case realtime.EventMemberAdded:
		var p memberPayload
		if s.decode(ev, &p) && s.board != nil && !s.board.HasMember(p.UserID) {
			s.board.Members = append(s.board.Members, domain.BoardMember{
				BoardID: s.boardID,
				UserID:  p.UserID,
			})
		}
	case realtime.EventMemberRemoved:
		var p memberPayload
		if s.decode(ev, &p) && s.board != nil {
			members := s.board.Members[:0]
			for _, m := range s.board.Members {
				if m.UserID != p.UserID {
					members = append(members, m)
				}
			}
			s.board.Members = members
		}
	}
}

func (s *BoardStore) decode(ev realtime.Event, into interface{}) bool {
	if err := json.Unmarshal(ev.Payload, into); err != nil {
		s.logger.Warn("Dropping undecodable event",
			zap.String("kind", string(ev.Kind)), zap.Error(err))
		return false
	}
	return true
}
