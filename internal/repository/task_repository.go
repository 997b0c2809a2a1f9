package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	FindByListID(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error)
	MaxPosition(ctx context.Context, listID uuid.UUID) (int, bool, error)
	Update(ctx context.Context, task *domain.Task) error
	Move(ctx context.Context, id, listID uuid.UUID, pos int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByListID(ctx context.Context, listID uuid.UUID) error
	DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error
	Search(ctx context.Context, boardID uuid.UUID, query string, page, limit int) ([]*domain.Task, int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by its ID
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByBoardID finds all tasks of a board ordered by the position comparator
func (r *taskRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByListID finds all tasks of a list ordered by the position comparator
func (r *taskRepositoryImpl) FindByListID(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// MaxPosition returns the highest position among a list's tasks. The bool
// result is true when the list has no tasks yet.
func (r *taskRepositoryImpl) MaxPosition(ctx context.Context, listID uuid.UUID) (int, bool, error) {
	var result struct{ Max *int }
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("MAX(position) AS max").
		Where("list_id = ?", listID).
		Scan(&result).Error; err != nil {
		return 0, false, err
	}
	if result.Max == nil {
		return 0, true, nil
	}
	return *result.Max, false, nil
}

// Update saves changes to a task
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Move updates a task's list reference and position in a single row write
func (r *taskRepositoryImpl) Move(ctx context.Context, id, listID uuid.UUID, pos int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"list_id":  listID,
			"position": pos,
		}).Error
}

// Delete removes a task
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

// DeleteByListID removes every task of a list
func (r *taskRepositoryImpl) DeleteByListID(ctx context.Context, listID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Delete(&domain.Task{}).Error
}

// DeleteByBoardID removes every task of a board
func (r *taskRepositoryImpl) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&domain.Task{}).Error
}

// Search finds a board's tasks whose title or description contains the query,
// most recently updated first, paginated
func (r *taskRepositoryImpl) Search(ctx context.Context, boardID uuid.UUID, query string, page, limit int) ([]*domain.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{}).Where("board_id = ?", boardID)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []*domain.Task
	if err := q.
		Order("updated_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// DeleteOrphans removes tasks whose parent list or board no longer exists.
// Cascade deletes are sequential and best-effort, so a crashed delete can
// leave rows behind; the reconcile job sweeps them here.
func (r *taskRepositoryImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("list_id NOT IN (?)", r.db.Model(&domain.List{}).Select("id")).
		Or("board_id NOT IN (?)", r.db.Model(&domain.Board{}).Select("id")).
		Delete(&domain.Task{})
	return res.RowsAffected, res.Error
}
