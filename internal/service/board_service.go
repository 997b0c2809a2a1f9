package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// BoardDetail is the board-scoped fan-out read: the board with its lists
// and tasks, each sorted by the position comparator.
type BoardDetail struct {
	Board *domain.Board  `json:"board"`
	Lists []*domain.List `json:"lists"`
	Tasks []*domain.Task `json:"tasks"`
}

// BoardService defines the interface for board business logic
type BoardService interface {
	CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*domain.Board, error)
	GetBoards(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*BoardDetail, error)
	UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*domain.Board, error)
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error
	AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error)
	RemoveMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error)
}

// boardServiceImpl is the implementation of BoardService
type boardServiceImpl struct {
	boardRepo    repository.BoardRepository
	listRepo     repository.ListRepository
	taskRepo     repository.TaskRepository
	activityRepo repository.ActivityRepository
	access       AccessService
	activity     ActivityService
	publisher    realtime.Publisher
	logger       *zap.Logger
}

// NewBoardService creates a new instance of BoardService
func NewBoardService(
	boardRepo repository.BoardRepository,
	listRepo repository.ListRepository,
	taskRepo repository.TaskRepository,
	activityRepo repository.ActivityRepository,
	access AccessService,
	activity ActivityService,
	publisher realtime.Publisher,
	logger *zap.Logger,
) BoardService {
	return &boardServiceImpl{
		boardRepo:    boardRepo,
		listRepo:     listRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		access:       access,
		activity:     activity,
		publisher:    publisher,
		logger:       logger,
	}
}

// CreateBoard creates a board owned by the caller. The owner is always
// inserted into the member set so owner membership holds from the start.
func (s *boardServiceImpl) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*domain.Board, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	background := req.Background
	if background == "" {
		background = domain.DefaultBackground
	}

	board := &domain.Board{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     userID,
		Background:  background,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create board", err.Error())
	}

	if err := s.boardRepo.AddMember(ctx, &domain.BoardMember{
		BoardID:  board.ID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	}); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add owner membership", err.Error())
	}

	s.activity.Log(ctx, board.ID, userID, domain.ActionBoardCreated, domain.EntityBoard, board.ID,
		map[string]interface{}{"title": board.Title})

	created, err := s.boardRepo.FindByID(ctx, board.ID)
	if err != nil {
		return board, nil
	}
	return created, nil
}

// GetBoards returns every board the caller owns or belongs to
func (s *boardServiceImpl) GetBoards(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	boards, err := s.boardRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch boards", err.Error())
	}
	return boards, nil
}

// GetBoard returns the board with its lists and tasks
func (s *boardServiceImpl) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*BoardDetail, error) {
	if _, err := s.access.Authorize(ctx, userID, boardID); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch board", err.Error())
	}

	lists, err := s.listRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch lists", err.Error())
	}
	tasks, err := s.taskRepo.FindByBoardID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}

	return &BoardDetail{Board: board, Lists: lists, Tasks: tasks}, nil
}

// UpdateBoard applies a partial update, any member may edit
func (s *boardServiceImpl) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*domain.Board, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, boardID); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch board", err.Error())
	}

	if req.Title != nil {
		board.Title = *req.Title
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.Background != nil {
		board.Background = *req.Background
	}
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update board", err.Error())
	}

	s.activity.Log(ctx, boardID, userID, domain.ActionBoardUpdated, domain.EntityBoard, boardID,
		map[string]interface{}{"title": board.Title})
	s.publishExcept(ctx, realtime.EventBoardUpdated, boardID, userID,
		map[string]interface{}{"board": board})

	return board, nil
}

// DeleteBoard removes a board and everything under it. Only the owner may
// delete. The cascade is sequential and best-effort: each failed step is
// logged and the remaining steps continue; orphans left by a partial
// cascade are swept by the reconcile job.
func (s *boardServiceImpl) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	board, err := s.access.RequireOwner(ctx, userID, boardID)
	if err != nil {
		return err
	}

	// notify viewers before the board disappears; fire-and-forget
	ev, evErr := realtime.NewEvent(realtime.EventBoardDeleted, boardID, map[string]interface{}{"boardId": boardID})
	if evErr == nil {
		s.publisher.PublishExcept(ctx, ev, userID)
	}

	if err := s.taskRepo.DeleteByBoardID(ctx, boardID); err != nil {
		s.logger.Error("Failed to delete board tasks, continuing cascade",
			zap.String("boardId", boardID.String()), zap.Error(err))
	}
	if err := s.listRepo.DeleteByBoardID(ctx, boardID); err != nil {
		s.logger.Error("Failed to delete board lists, continuing cascade",
			zap.String("boardId", boardID.String()), zap.Error(err))
	}
	if err := s.activityRepo.DeleteByBoardID(ctx, boardID); err != nil {
		s.logger.Error("Failed to delete board activities, continuing cascade",
			zap.String("boardId", boardID.String()), zap.Error(err))
	}

	s.activity.Log(ctx, boardID, userID, domain.ActionBoardDeleted, domain.EntityBoard, boardID,
		map[string]interface{}{"title": board.Title})

	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete board", err.Error())
	}
	return nil
}

// AddMember adds a user to the board's member set, owner only
func (s *boardServiceImpl) AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error) {
	board, err := s.access.RequireOwner(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if board.HasMember(memberID) {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User already a member", "")
	}

	if err := s.boardRepo.AddMember(ctx, &domain.BoardMember{
		BoardID:  boardID,
		UserID:   memberID,
		JoinedAt: time.Now().UTC(),
	}); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}

	s.activity.Log(ctx, boardID, userID, domain.ActionMemberAdded, domain.EntityMember, memberID, nil)

	// member events go to every subscriber, originator included; there is
	// no optimistic client path for membership
	if ev, err := realtime.NewEvent(realtime.EventMemberAdded, boardID,
		map[string]interface{}{"boardId": boardID, "userId": memberID}); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return s.boardRepo.FindByID(ctx, boardID)
}

// RemoveMember removes a user from the member set, owner only. The owner
// cannot be removed, which keeps owner membership invariant.
func (s *boardServiceImpl) RemoveMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error) {
	board, err := s.access.RequireOwner(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if memberID == board.OwnerID {
		return nil, response.NewAppError(response.ErrCodeValidation, "The owner cannot be removed from the board", "")
	}

	if err := s.boardRepo.RemoveMember(ctx, boardID, memberID); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to remove member", err.Error())
	}

	s.activity.Log(ctx, boardID, userID, domain.ActionMemberRemoved, domain.EntityMember, memberID, nil)

	if ev, err := realtime.NewEvent(realtime.EventMemberRemoved, boardID,
		map[string]interface{}{"boardId": boardID, "userId": memberID}); err == nil {
		s.publisher.Publish(ctx, ev)
	}

	return s.boardRepo.FindByID(ctx, boardID)
}

// publishExcept broadcasts an entity event to the board topic, skipping the
// acting user's own connections
func (s *boardServiceImpl) publishExcept(ctx context.Context, kind realtime.EventKind, boardID, userID uuid.UUID, payload interface{}) {
	ev, err := realtime.NewEvent(kind, boardID, payload)
	if err != nil {
		s.logger.Warn("Failed to build event", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	s.publisher.PublishExcept(ctx, ev, userID)
}
