package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-api/internal/domain"
)

func newActivity(boardID uuid.UUID, action domain.ActivityAction, createdAt time.Time) *domain.Activity {
	return &domain.Activity{
		ID:        uuid.New(),
		BoardID:   boardID,
		UserID:    uuid.New(),
		Action:    action,
		Entity:    domain.EntityBoard,
		EntityID:  boardID,
		CreatedAt: createdAt,
	}
}

func TestActivityRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	activity := newActivity(boardID, domain.ActionBoardCreated, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, activity))

	activities, total, err := repo.FindByBoardID(ctx, boardID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActionBoardCreated, activities[0].Action)
}

func TestActivityRepository_FindByBoardID_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newActivity(boardID, domain.ActionBoardCreated, base)))
	require.NoError(t, repo.Create(ctx, newActivity(boardID, domain.ActionListCreated, base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newActivity(boardID, domain.ActionTaskCreated, base.Add(2*time.Minute))))

	activities, total, err := repo.FindByBoardID(ctx, boardID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, activities, 3)
	assert.Equal(t, domain.ActionTaskCreated, activities[0].Action)
	assert.Equal(t, domain.ActionListCreated, activities[1].Action)
	assert.Equal(t, domain.ActionBoardCreated, activities[2].Action)
}

func TestActivityRepository_FindByBoardID_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, newActivity(boardID, domain.ActionTaskUpdated, base.Add(time.Duration(i)*time.Second))))
	}

	page1, total, err := repo.FindByBoardID(ctx, boardID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page1, 20)

	page2, total, err := repo.FindByBoardID(ctx, boardID, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page2, 5)

	// Pages do not overlap.
	seen := make(map[uuid.UUID]bool)
	for _, a := range append(page1, page2...) {
		assert.False(t, seen[a.ID])
		seen[a.ID] = true
	}
}

func TestActivityRepository_FindByBoardID_ScopedToBoard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	boardID := uuid.New()
	require.NoError(t, repo.Create(ctx, newActivity(uuid.New(), domain.ActionBoardCreated, time.Now().UTC())))

	activities, total, err := repo.FindByBoardID(ctx, boardID, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, activities)
}

func TestActivityRepository_DeleteByBoardID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	doomed := uuid.New()
	kept := uuid.New()
	require.NoError(t, repo.Create(ctx, newActivity(doomed, domain.ActionBoardCreated, time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, newActivity(kept, domain.ActionBoardCreated, time.Now().UTC())))

	require.NoError(t, repo.DeleteByBoardID(ctx, doomed))

	_, doomedTotal, err := repo.FindByBoardID(ctx, doomed, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, doomedTotal)

	_, keptTotal, err := repo.FindByBoardID(ctx, kept, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), keptTotal)
}

func TestActivityRepository_DeleteOrphans(t *testing.T) {
	db := setupTestDB(t)
	boardRepo := NewBoardRepository(db)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	board := newBoard(uuid.New(), "Alive")
	require.NoError(t, boardRepo.Create(ctx, board))

	require.NoError(t, repo.Create(ctx, newActivity(board.ID, domain.ActionBoardCreated, time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, newActivity(uuid.New(), domain.ActionBoardDeleted, time.Now().UTC())))

	removed, err := repo.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, total, err := repo.FindByBoardID(ctx, board.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
