package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/response"
	"taskboard-api/internal/service"
)

// MockBoardService is a mock implementation of service.BoardService
type MockBoardService struct {
	CreateBoardFunc  func(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*domain.Board, error)
	GetBoardsFunc    func(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error)
	GetBoardFunc     func(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardDetail, error)
	UpdateBoardFunc  func(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*domain.Board, error)
	DeleteBoardFunc  func(ctx context.Context, userID, boardID uuid.UUID) error
	AddMemberFunc    func(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error)
	RemoveMemberFunc func(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error)
}

func (m *MockBoardService) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (*domain.Board, error) {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockBoardService) GetBoards(ctx context.Context, userID uuid.UUID) ([]*domain.Board, error) {
	if m.GetBoardsFunc != nil {
		return m.GetBoardsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardDetail, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, userID, boardID)
	}
	return nil, nil
}

func (m *MockBoardService) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (*domain.Board, error) {
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, userID, boardID, req)
	}
	return nil, nil
}

func (m *MockBoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, userID, boardID)
	}
	return nil
}

func (m *MockBoardService) AddMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, userID, boardID, memberID)
	}
	return nil, nil
}

func (m *MockBoardService) RemoveMember(ctx context.Context, userID, boardID, memberID uuid.UUID) (*domain.Board, error) {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, userID, boardID, memberID)
	}
	return nil, nil
}

// MockActivityService is a mock implementation of service.ActivityService
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

func setupBoardRouter(boardService service.BoardService, activityService service.ActivityService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})

	h := NewBoardHandler(boardService, activityService)
	r.POST("/boards", h.CreateBoard)
	r.GET("/boards/:id", h.GetBoard)
	r.DELETE("/boards/:id", h.DeleteBoard)
	r.GET("/boards/:id/activities", h.GetActivities)
	return r
}

func TestBoardHandler_CreateBoard(t *testing.T) {
	userID := uuid.New()
	boardID := uuid.New()

	boardService := &MockBoardService{
		CreateBoardFunc: func(ctx context.Context, uID uuid.UUID, req *dto.CreateBoardRequest) (*domain.Board, error) {
			assert.Equal(t, userID, uID)
			assert.Equal(t, "Sprint", req.Title)
			return &domain.Board{BaseModel: domain.BaseModel{ID: boardID}, Title: req.Title, OwnerID: uID}, nil
		},
	}
	r := setupBoardRouter(boardService, &MockActivityService{}, userID)

	body, _ := json.Marshal(dto.CreateBoardRequest{Title: "Sprint"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/boards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var board domain.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, boardID, board.ID)
}

func TestBoardHandler_CreateBoard_MissingTitle(t *testing.T) {
	r := setupBoardRouter(&MockBoardService{}, &MockActivityService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/boards", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), response.ErrCodeValidation)
}

func TestBoardHandler_GetBoard_InvalidID(t *testing.T) {
	r := setupBoardRouter(&MockBoardService{}, &MockActivityService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardHandler_GetBoard_ForbiddenMapsTo403(t *testing.T) {
	boardService := &MockBoardService{
		GetBoardFunc: func(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardDetail, error) {
			return nil, response.NewAppError(response.ErrCodeForbidden, "Access denied", "")
		},
	}
	r := setupBoardRouter(boardService, &MockActivityService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), response.ErrCodeForbidden)
}

func TestBoardHandler_GetBoard_NotFoundMapsTo404(t *testing.T) {
	boardService := &MockBoardService{
		GetBoardFunc: func(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardDetail, error) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		},
	}
	r := setupBoardRouter(boardService, &MockActivityService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardHandler_NoUserInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBoardHandler(&MockBoardService{}, &MockActivityService{})
	r.GET("/boards/:id", h.GetBoard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardHandler_NonUUIDUserInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "not-a-uuid")
		c.Next()
	})
	h := NewBoardHandler(&MockBoardService{}, &MockActivityService{})
	r.GET("/boards/:id", h.GetBoard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardHandler_GetActivities_PassesPagination(t *testing.T) {
	var gotPage, gotLimit int
	activityService := &MockActivityService{
		FeedFunc: func(ctx context.Context, userID, boardID uuid.UUID, page, limit int) (*dto.ActivityFeedResponse, error) {
			gotPage = page
			gotLimit = limit
			return &dto.ActivityFeedResponse{CurrentPage: page}, nil
		},
	}
	r := setupBoardRouter(&MockBoardService{}, activityService, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boards/"+uuid.NewString()+"/activities?page=3&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, gotPage)
	assert.Equal(t, 10, gotLimit)
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, response.ErrCodeNotFound},
		{"app not found", response.NewAppError(response.ErrCodeNotFound, "gone", ""), http.StatusNotFound, response.ErrCodeNotFound},
		{"forbidden", response.NewAppError(response.ErrCodeForbidden, "no", ""), http.StatusForbidden, response.ErrCodeForbidden},
		{"validation", response.NewAppError(response.ErrCodeValidation, "bad", ""), http.StatusBadRequest, response.ErrCodeValidation},
		{"conflict", response.NewAppError(response.ErrCodeAlreadyExists, "dup", ""), http.StatusConflict, response.ErrCodeAlreadyExists},
		{"unauthorized", response.NewAppError(response.ErrCodeUnauthorized, "who", ""), http.StatusUnauthorized, response.ErrCodeUnauthorized},
		{"plain error", assert.AnError, http.StatusInternalServerError, response.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}
