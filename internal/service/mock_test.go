package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
)

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	CreateFunc       func(ctx context.Context, board *domain.Board) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	FindByUserFunc   func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	UpdateFunc       func(ctx context.Context, board *domain.Board) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc    func(ctx context.Context, member *domain.BoardMember) error
	RemoveMemberFunc func(ctx context.Context, boardID, userID uuid.UUID) error
	FindMemberFunc   func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
}

func (m *MockBoardRepository) Create(ctx context.Context, board *domain.Board) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBoardRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, board *domain.Board) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, board)
	}
	return nil
}

func (m *MockBoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBoardRepository) AddMember(ctx context.Context, member *domain.BoardMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockBoardRepository) RemoveMember(ctx context.Context, boardID, userID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, boardID, userID)
	}
	return nil
}

func (m *MockBoardRepository) FindMember(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error) {
	if m.FindMemberFunc != nil {
		return m.FindMemberFunc(ctx, boardID, userID)
	}
	return nil, nil
}

// MockListRepository is a mock implementation of ListRepository
type MockListRepository struct {
	CreateFunc          func(ctx context.Context, list *domain.List) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.List, error)
	FindByBoardIDFunc   func(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error)
	MaxPositionFunc     func(ctx context.Context, boardID uuid.UUID) (int, bool, error)
	UpdateFunc          func(ctx context.Context, list *domain.List) error
	UpdatePositionFunc  func(ctx context.Context, id uuid.UUID, pos int) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	DeleteByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) error
	DeleteOrphansFunc   func(ctx context.Context) (int64, error)
}

func (m *MockListRepository) Create(ctx context.Context, list *domain.List) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, list)
	}
	return nil
}

func (m *MockListRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockListRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.List, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockListRepository) MaxPosition(ctx context.Context, boardID uuid.UUID) (int, bool, error) {
	if m.MaxPositionFunc != nil {
		return m.MaxPositionFunc(ctx, boardID)
	}
	return 0, true, nil
}

func (m *MockListRepository) Update(ctx context.Context, list *domain.List) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, list)
	}
	return nil
}

func (m *MockListRepository) UpdatePosition(ctx context.Context, id uuid.UUID, pos int) error {
	if m.UpdatePositionFunc != nil {
		return m.UpdatePositionFunc(ctx, id, pos)
	}
	return nil
}

func (m *MockListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockListRepository) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	if m.DeleteByBoardIDFunc != nil {
		return m.DeleteByBoardIDFunc(ctx, boardID)
	}
	return nil
}

func (m *MockListRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	if m.DeleteOrphansFunc != nil {
		return m.DeleteOrphansFunc(ctx)
	}
	return 0, nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc          func(ctx context.Context, task *domain.Task) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByBoardIDFunc   func(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error)
	FindByListIDFunc    func(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error)
	MaxPositionFunc     func(ctx context.Context, listID uuid.UUID) (int, bool, error)
	UpdateFunc          func(ctx context.Context, task *domain.Task) error
	MoveFunc            func(ctx context.Context, id, listID uuid.UUID, pos int) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	DeleteByListIDFunc  func(ctx context.Context, listID uuid.UUID) error
	DeleteByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) error
	SearchFunc          func(ctx context.Context, boardID uuid.UUID, query string, page, limit int) ([]*domain.Task, int64, error)
	DeleteOrphansFunc   func(ctx context.Context) (int64, error)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByListID(ctx context.Context, listID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByListIDFunc != nil {
		return m.FindByListIDFunc(ctx, listID)
	}
	return nil, nil
}

func (m *MockTaskRepository) MaxPosition(ctx context.Context, listID uuid.UUID) (int, bool, error) {
	if m.MaxPositionFunc != nil {
		return m.MaxPositionFunc(ctx, listID)
	}
	return 0, true, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) Move(ctx context.Context, id, listID uuid.UUID, pos int) error {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, id, listID, pos)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) DeleteByListID(ctx context.Context, listID uuid.UUID) error {
	if m.DeleteByListIDFunc != nil {
		return m.DeleteByListIDFunc(ctx, listID)
	}
	return nil
}

func (m *MockTaskRepository) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	if m.DeleteByBoardIDFunc != nil {
		return m.DeleteByBoardIDFunc(ctx, boardID)
	}
	return nil
}

func (m *MockTaskRepository) Search(ctx context.Context, boardID uuid.UUID, query string, page, limit int) ([]*domain.Task, int64, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, boardID, query, page, limit)
	}
	return nil, 0, nil
}

func (m *MockTaskRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	if m.DeleteOrphansFunc != nil {
		return m.DeleteOrphansFunc(ctx)
	}
	return 0, nil
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	CreateFunc          func(ctx context.Context, activity *domain.Activity) error
	FindByBoardIDFunc   func(ctx context.Context, boardID uuid.UUID, page, limit int) ([]*domain.Activity, int64, error)
	DeleteByBoardIDFunc func(ctx context.Context, boardID uuid.UUID) error
	DeleteOrphansFunc   func(ctx context.Context) (int64, error)
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, activity)
	}
	return nil
}

func (m *MockActivityRepository) FindByBoardID(ctx context.Context, boardID uuid.UUID, page, limit int) ([]*domain.Activity, int64, error) {
	if m.FindByBoardIDFunc != nil {
		return m.FindByBoardIDFunc(ctx, boardID, page, limit)
	}
	return nil, 0, nil
}

func (m *MockActivityRepository) DeleteByBoardID(ctx context.Context, boardID uuid.UUID) error {
	if m.DeleteByBoardIDFunc != nil {
		return m.DeleteByBoardIDFunc(ctx, boardID)
	}
	return nil
}

func (m *MockActivityRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	if m.DeleteOrphansFunc != nil {
		return m.DeleteOrphansFunc(ctx)
	}
	return 0, nil
}

// MockAccessService is a mock implementation of AccessService
type MockAccessService struct {
	AuthorizeFunc    func(ctx context.Context, userID, boardID uuid.UUID) (Role, error)
	CanSubscribeFunc func(ctx context.Context, userID, boardID uuid.UUID) error
	RequireOwnerFunc func(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)
}

func (m *MockAccessService) Authorize(ctx context.Context, userID, boardID uuid.UUID) (Role, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, userID, boardID)
	}
	return RoleMember, nil
}

func (m *MockAccessService) CanSubscribe(ctx context.Context, userID, boardID uuid.UUID) error {
	if m.CanSubscribeFunc != nil {
		return m.CanSubscribeFunc(ctx, userID, boardID)
	}
	return nil
}

func (m *MockAccessService) RequireOwner(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error) {
	if m.RequireOwnerFunc != nil {
		return m.RequireOwnerFunc(ctx, userID, boardID)
	}
	return nil, nil
}

// MockActivityService is a mock implementation of ActivityService
type MockActivityService struct {
	LogFunc  func(ctx context.Context, boardID, userID uuid.UUID, action domain.ActivityAction, entity domain.ActivityEntity, entityID uuid.UUID, details map[string]interface{})
	FeedFunc func(ctx context.Context, userID, boardID uuid.UUID, page, limit int) (*dto.ActivityFeedResponse, error)
}

func (m *MockActivityService) Log(ctx context.Context, boardID, userID uuid.UUID, action domain.ActivityAction, entity domain.ActivityEntity, entityID uuid.UUID, details map[string]interface{}) {
	if m.LogFunc != nil {
		m.LogFunc(ctx, boardID, userID, action, entity, entityID, details)
	}
}

func (m *MockActivityService) Feed(ctx context.Context, userID, boardID uuid.UUID, page, limit int) (*dto.ActivityFeedResponse, error) {
	if m.FeedFunc != nil {
		return m.FeedFunc(ctx, userID, boardID, page, limit)
	}
	return nil, nil
}

// MockPublisher records published events for assertions
type MockPublisher struct {
	Published       []realtime.Event
	PublishedExcept []PublishedExcept
}

// PublishedExcept pairs an event with the user its delivery skipped
type PublishedExcept struct {
	Event      realtime.Event
	ExceptUser uuid.UUID
}

func (m *MockPublisher) Publish(ctx context.Context, ev realtime.Event) {
	m.Published = append(m.Published, ev)
}

func (m *MockPublisher) PublishExcept(ctx context.Context, ev realtime.Event, exceptUser uuid.UUID) {
	m.PublishedExcept = append(m.PublishedExcept, PublishedExcept{Event: ev, ExceptUser: exceptUser})
}
