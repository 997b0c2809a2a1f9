package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
)

// ListRepository defines the interface for list data access
type ListRepository interface {
	Create(ctx context.Context, list *domain.List) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error)
	MaxPosition(ctx context.Context, boardID uuid.UUID) (int, bool, error)
	Update(ctx context.Context, list *domain.List) error
	UpdatePosition(ctx context.Context, id uuid.UUID, pos int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error
	DeleteOrphans(ctx context.Context) (int64, error)
}

// listRepositoryImpl is the GORM implementation of ListRepository
type listRepositoryImpl struct {
	db *gorm.DB
}

// NewListRepository creates a new instance of ListRepository
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepositoryImpl{db: db}
}

// Create creates a new list
func (r *listRepositoryImpl) Create(ctx context.Context, list *domain.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// FindByID finds a list by its ID
func (r *listRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var list domain.List
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindByBoardID finds all lists of a board ordered by the position
// comparator (position, created_at, id)
func (r *listRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	var lists []*domain.List
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC, created_at ASC, id ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// MaxPosition returns the highest position among a board's lists. The bool
// result is true when the board has no lists yet.
func (r *listRepositoryImpl) MaxPosition(ctx context.Context, boardID uuid.UUID) (int, bool, error) {
	var result struct{ Max *int }
	if err := r.db.WithContext(ctx).
		Model(&domain.List{}).
		Select("MAX(position) AS max").
		Where("board_id = ?", boardID).
		Scan(&result).Error; err != nil {
		return 0, false, err
	}
	if result.Max == nil {
		return 0, true, nil
	}
	return *result.Max, false, nil
}

// Update saves changes to a list
func (r *listRepositoryImpl) Update(ctx context.Context, list *domain.List) error {
	return r.db.WithContext(ctx).Save(list).Error
}

// UpdatePosition sets only the position column. Missing ids are a no-op,
// matching the independent application of re-index batch entries.
func (r *listRepositoryImpl) UpdatePosition(ctx context.Context, id uuid.UUID, pos int) error {
	return r.db.WithContext(ctx).
		Model(&domain.List{}).
		Where("id = ?", id).
		Update("position", pos).Error
}

// Delete removes a list
func (r *listRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.List{}, "id = ?", id).Error
}

// DeleteByBoardID removes every list of a board
func (r *listRepositoryImpl) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Delete(&domain.List{}).Error
}

// DeleteOrphans removes lists whose board no longer exists, left behind by
// a partially failed board cascade
func (r *listRepositoryImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("board_id NOT IN (?)", r.db.Model(&domain.Board{}).Select("id")).
		Delete(&domain.List{})
	return result.RowsAffected, result.Error
}
