package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/position"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// ListService defines the interface for list business logic
type ListService interface {
	CreateList(ctx context.Context, userID uuid.UUID, req *dto.CreateListRequest) (*domain.List, error)
	GetLists(ctx context.Context, userID, boardID uuid.UUID) ([]*domain.List, error)
	UpdateList(ctx context.Context, userID, listID uuid.UUID, req *dto.UpdateListRequest) (*domain.List, error)
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error
	ReorderLists(ctx context.Context, userID uuid.UUID, req *dto.ReorderListsRequest) error
}

// listServiceImpl is the implementation of ListService
type listServiceImpl struct {
	listRepo  repository.ListRepository
	taskRepo  repository.TaskRepository
	access    AccessService
	activity  ActivityService
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewListService creates a new instance of ListService
func NewListService(
	listRepo repository.ListRepository,
	taskRepo repository.TaskRepository,
	access AccessService,
	activity ActivityService,
	publisher realtime.Publisher,
	logger *zap.Logger,
) ListService {
	return &listServiceImpl{
		listRepo:  listRepo,
		taskRepo:  taskRepo,
		access:    access,
		activity:  activity,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateList appends a list at the end of the board: its position is one
// past the current maximum, or zero on an empty board.
func (s *listServiceImpl) CreateList(ctx context.Context, userID uuid.UUID, req *dto.CreateListRequest) (*domain.List, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, req.BoardID); err != nil {
		return nil, err
	}

	max, empty, err := s.listRepo.MaxPosition(ctx, req.BoardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to compute list position", err.Error())
	}

	list := &domain.List{
		Title:    req.Title,
		BoardID:  req.BoardID,
		Position: position.Next(max, empty),
	}
	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create list", err.Error())
	}

	s.activity.Log(ctx, req.BoardID, userID, domain.ActionListCreated, domain.EntityList, list.ID,
		map[string]interface{}{"title": list.Title})
	s.publishExcept(ctx, realtime.EventListCreated, req.BoardID, userID,
		map[string]interface{}{"list": list})

	return list, nil
}

// GetLists returns a board's lists in position order
func (s *listServiceImpl) GetLists(ctx context.Context, userID, boardID uuid.UUID) ([]*domain.List, error) {
	if _, err := s.access.Authorize(ctx, userID, boardID); err != nil {
		return nil, err
	}
	lists, err := s.listRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch lists", err.Error())
	}
	return lists, nil
}

// UpdateList applies a partial update to a list
func (s *listServiceImpl) UpdateList(ctx context.Context, userID, listID uuid.UUID, req *dto.UpdateListRequest) (*domain.List, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, list.BoardID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		list.Title = *req.Title
	}
	if req.Position != nil {
		list.Position = *req.Position
	}
	if err := s.listRepo.Update(ctx, list); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update list", err.Error())
	}

	s.activity.Log(ctx, list.BoardID, userID, domain.ActionListUpdated, domain.EntityList, list.ID,
		map[string]interface{}{"title": list.Title})
	s.publishExcept(ctx, realtime.EventListUpdated, list.BoardID, userID,
		map[string]interface{}{"list": list})

	return list, nil
}

// DeleteList removes a list and its tasks. The task cascade is best-effort:
// a failure is logged and the list is deleted anyway, leaving the orphans
// to the reconcile job.
func (s *listServiceImpl) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return err
	}
	if _, err := s.access.Authorize(ctx, userID, list.BoardID); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteByListID(ctx, listID); err != nil {
		s.logger.Error("Failed to delete list tasks, continuing cascade",
			zap.String("listId", listID.String()), zap.Error(err))
	}

	s.activity.Log(ctx, list.BoardID, userID, domain.ActionListDeleted, domain.EntityList, list.ID,
		map[string]interface{}{"title": list.Title})

	if err := s.listRepo.Delete(ctx, listID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete list", err.Error())
	}

	s.publishExcept(ctx, realtime.EventListDeleted, list.BoardID, userID,
		map[string]interface{}{"listId": listID, "boardId": list.BoardID})
	return nil
}

// ReorderLists applies a re-index batch. Entries are applied independently:
// an entry naming a list that no longer exists is skipped, the rest still
// land. Every board touched by the batch must be accessible to the caller.
func (s *listServiceImpl) ReorderLists(ctx context.Context, userID uuid.UUID, req *dto.ReorderListsRequest) error {
	updates := make([]position.Update, 0, len(req.ListPositions))
	for _, lp := range req.ListPositions {
		updates = append(updates, position.Update{ID: lp.ListID, Position: lp.Position})
	}
	if !position.Validate(updates) {
		return response.NewAppError(response.ErrCodeValidation, "Invalid reorder batch", "every entry needs a list id and a non-negative position")
	}

	authorized := make(map[uuid.UUID]bool)
	type entry struct {
		listID  uuid.UUID
		boardID uuid.UUID
		pos     int
	}
	entries := make([]entry, 0, len(req.ListPositions))
	boards := make(map[uuid.UUID][]dto.ListPosition)

	for _, lp := range req.ListPositions {
		list, err := s.listRepo.FindByID(ctx, lp.ListID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return response.NewAppError(response.ErrCodeInternal, "Failed to fetch list", err.Error())
		}
		if !authorized[list.BoardID] {
			if _, err := s.access.Authorize(ctx, userID, list.BoardID); err != nil {
				return err
			}
			authorized[list.BoardID] = true
		}
		entries = append(entries, entry{listID: lp.ListID, boardID: list.BoardID, pos: lp.Position})
		boards[list.BoardID] = append(boards[list.BoardID], lp)
	}

	for _, e := range entries {
		if err := s.listRepo.UpdatePosition(ctx, e.listID, e.pos); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to reorder lists", err.Error())
		}
	}

	for boardID, batch := range boards {
		s.publishExcept(ctx, realtime.EventListsReordered, boardID, userID,
			map[string]interface{}{"listPositions": batch})
	}
	return nil
}

func (s *listServiceImpl) findList(ctx context.Context, listID uuid.UUID) (*domain.List, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "List not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list", err.Error())
	}
	return list, nil
}

func (s *listServiceImpl) publishExcept(ctx context.Context, kind realtime.EventKind, boardID, userID uuid.UUID, payload interface{}) {
	ev, err := realtime.NewEvent(kind, boardID, payload)
	if err != nil {
		s.logger.Warn("Failed to build event", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	s.publisher.PublishExcept(ctx, ev, userID)
}
