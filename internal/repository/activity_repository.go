package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// ActivityRepository defines the interface for activity ledger access.
// The ledger is append-only: there is no update path, and the only delete
// paths are the board cascade and the orphan sweep.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	FindByBoardID(ctx context.Context, boardID uuid.UUID, page, limit int) ([]*domain.Activity, int64, error)
	DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error
	DeleteOrphans(ctx context.Context) (int64, error)
}

// activityRepositoryImpl is the GORM implementation of ActivityRepository
type activityRepositoryImpl struct {
	db *gorm.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepositoryImpl{db: db}
}

// Create appends an activity record
func (r *activityRepositoryImpl) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// FindByBoardID returns one page of a board's activities, newest first,
// together with the total count
func (r *activityRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID, page, limit int) ([]*domain.Activity, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Activity{}).Where("board_id = ?", boardID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []*domain.Activity
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// DeleteByBoardID removes every activity of a board (board cascade only)
func (r *activityRepositoryImpl) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&domain.Activity{}).Error
}

// DeleteOrphans removes activities whose board no longer exists
func (r *activityRepositoryImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("board_id NOT IN (?)", r.db.Model(&domain.Board{}).Select("id")).
		Delete(&domain.Activity{})
	return res.RowsAffected, res.Error
}
