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

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	GetTasksByList(ctx context.Context, userID, listID uuid.UUID) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*domain.Task, error)
	MoveTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	SearchTasks(ctx context.Context, userID, boardID uuid.UUID, query string, page, limit int) (*dto.TaskSearchResponse, error)
	ReorderTasks(ctx context.Context, userID uuid.UUID, req *dto.ReorderTasksRequest) error
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo  repository.TaskRepository
	listRepo  repository.ListRepository
	access    AccessService
	activity  ActivityService
	publisher realtime.Publisher
	logger    *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	listRepo repository.ListRepository,
	access AccessService,
	activity ActivityService,
	publisher realtime.Publisher,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:  taskRepo,
		listRepo:  listRepo,
		access:    access,
		activity:  activity,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateTask appends a task at the end of its list: position is one past
// the list's current maximum, or zero in an empty list. The board id is
// denormalized from the list.
func (s *taskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	list, err := s.listRepo.FindByID(ctx, req.ListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "List not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list", err.Error())
	}
	if _, err := s.access.Authorize(ctx, userID, list.BoardID); err != nil {
		return nil, err
	}

	max, empty, err := s.taskRepo.MaxPosition(ctx, req.ListID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to compute task position", err.Error())
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		ListID:      req.ListID,
		BoardID:     list.BoardID,
		Position:    position.Next(max, empty),
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	}
	if err := task.SetAssignees(req.Assignees); err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid assignees", err.Error())
	}
	if err := task.SetLabels(req.Labels); err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "Invalid labels", err.Error())
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	s.activity.Log(ctx, task.BoardID, userID, domain.ActionTaskCreated, domain.EntityTask, task.ID,
		map[string]interface{}{"title": task.Title})
	s.publishExcept(ctx, realtime.EventTaskCreated, task.BoardID, userID,
		map[string]interface{}{"task": task})

	return task, nil
}

// GetTask returns a single task
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, task.BoardID); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTasksByList returns a list's tasks in position order
func (s *taskServiceImpl) GetTasksByList(ctx context.Context, userID, listID uuid.UUID) ([]*domain.Task, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "List not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch list", err.Error())
	}
	if _, err := s.access.Authorize(ctx, userID, list.BoardID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByListID(ctx, listID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}
	return tasks, nil
}

// UpdateTask applies a partial update to a task
func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, task.BoardID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Assignees != nil {
		if err := task.SetAssignees(req.Assignees); err != nil {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid assignees", err.Error())
		}
	}
	if req.Labels != nil {
		if err := task.SetLabels(req.Labels); err != nil {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid labels", err.Error())
		}
	}
	if req.ClearDue {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	s.activity.Log(ctx, task.BoardID, userID, domain.ActionTaskUpdated, domain.EntityTask, task.ID,
		map[string]interface{}{"title": task.Title})
	s.publishExcept(ctx, realtime.EventTaskUpdated, task.BoardID, userID,
		map[string]interface{}{"task": task})

	return task, nil
}

// MoveTask relocates a task to a destination list at a given position, in
// a single write. The destination must exist and belong to the same board
// as the task; a cross-board destination is rejected outright.
func (s *taskServiceImpl) MoveTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, userID, task.BoardID); err != nil {
		return nil, err
	}

	dest, err := s.listRepo.FindByID(ctx, req.ListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Destination list does not exist", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch destination list", err.Error())
	}
	if dest.BoardID != task.BoardID {
		return nil, response.NewAppError(response.ErrCodeValidation, "Destination list belongs to another board", "")
	}

	fromList := task.ListID
	if err := s.taskRepo.Move(ctx, taskID, req.ListID, req.Position); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to move task", err.Error())
	}
	task.ListID = req.ListID
	task.Position = req.Position

	s.activity.Log(ctx, task.BoardID, userID, domain.ActionTaskMoved, domain.EntityTask, task.ID,
		map[string]interface{}{"title": task.Title, "fromList": fromList, "toList": req.ListID})
	s.publishExcept(ctx, realtime.EventTaskMoved, task.BoardID, userID,
		map[string]interface{}{"task": task})

	return task, nil
}

// DeleteTask removes a task
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := s.access.Authorize(ctx, userID, task.BoardID); err != nil {
		return err
	}

	s.activity.Log(ctx, task.BoardID, userID, domain.ActionTaskDeleted, domain.EntityTask, task.ID,
		map[string]interface{}{"title": task.Title})

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}

	s.publishExcept(ctx, realtime.EventTaskDeleted, task.BoardID, userID,
		map[string]interface{}{"taskId": taskID, "listId": task.ListID, "boardId": task.BoardID})
	return nil
}

// SearchTasks runs a case-insensitive substring search over a board's task
// titles and descriptions, paginated
func (s *taskServiceImpl) SearchTasks(ctx context.Context, userID, boardID uuid.UUID, query string, page, limit int) (*dto.TaskSearchResponse, error) {
	if _, err := s.access.Authorize(ctx, userID, boardID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	tasks, total, err := s.taskRepo.Search(ctx, boardID, query, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to search tasks", err.Error())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.TaskSearchResponse{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
	}, nil
}

// ReorderTasks applies a re-index batch, possibly moving tasks between
// lists of the same board. Entries are applied independently: an entry
// naming a missing task is skipped, a cross-board destination fails that
// entry without touching the rest.
func (s *taskServiceImpl) ReorderTasks(ctx context.Context, userID uuid.UUID, req *dto.ReorderTasksRequest) error {
	updates := make([]position.Update, 0, len(req.TaskPositions))
	for _, tp := range req.TaskPositions {
		updates = append(updates, position.Update{ID: tp.TaskID, Position: tp.Position})
	}
	if !position.Validate(updates) {
		return response.NewAppError(response.ErrCodeValidation, "Invalid reorder batch", "every entry needs a task id and a non-negative position")
	}

	authorized := make(map[uuid.UUID]bool)
	boards := make(map[uuid.UUID][]dto.TaskPosition)

	for _, tp := range req.TaskPositions {
		task, err := s.taskRepo.FindByID(ctx, tp.TaskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return response.NewAppError(response.ErrCodeInternal, "Failed to fetch task", err.Error())
		}
		if !authorized[task.BoardID] {
			if _, err := s.access.Authorize(ctx, userID, task.BoardID); err != nil {
				return err
			}
			authorized[task.BoardID] = true
		}

		dest, err := s.listRepo.FindByID(ctx, tp.ListID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewAppError(response.ErrCodeValidation, "Destination list does not exist", "")
			}
			return response.NewAppError(response.ErrCodeInternal, "Failed to fetch destination list", err.Error())
		}
		if dest.BoardID != task.BoardID {
			return response.NewAppError(response.ErrCodeValidation, "Destination list belongs to another board", "")
		}

		if err := s.taskRepo.Move(ctx, tp.TaskID, tp.ListID, tp.Position); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to reorder tasks", err.Error())
		}
		boards[task.BoardID] = append(boards[task.BoardID], tp)
	}

	for boardID, batch := range boards {
		s.publishExcept(ctx, realtime.EventTasksReordered, boardID, userID,
			map[string]interface{}{"taskPositions": batch})
	}
	return nil
}

func (s *taskServiceImpl) findTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch task", err.Error())
	}
	return task, nil
}

func (s *taskServiceImpl) publishExcept(ctx context.Context, kind realtime.EventKind, boardID, userID uuid.UUID, payload interface{}) {
	ev, err := realtime.NewEvent(kind, boardID, payload)
	if err != nil {
		s.logger.Warn("Failed to build event", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	s.publisher.PublishExcept(ctx, ev, userID)
}
