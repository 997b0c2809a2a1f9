package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/dto"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// ActivityService is the mutation log. Every accepted mutation appends
// exactly one record, synchronously, before the response is returned.
// Appends are best-effort: a write failure is logged and swallowed and
// never fails or rolls back the primary mutation.
type ActivityService interface {
	Log(ctx context.Context, boardID, userID uuid.UUID, action domain.ActivityAction, entity domain.ActivityEntity, entityID uuid.UUID, details map[string]interface{})
	Feed(ctx context.Context, userID, boardID uuid.UUID, page, limit int) (*dto.ActivityFeedResponse, error)
}

// AppendRecorder counts ledger appends that were swallowed. May be nil.
type AppendRecorder interface {
	RecordActivityAppendFailed()
}

// activityServiceImpl is the implementation of ActivityService
type activityServiceImpl struct {
	activityRepo repository.ActivityRepository
	access       AccessService
	publisher    realtime.Publisher
	recorder     AppendRecorder
	logger       *zap.Logger
}

// NewActivityService creates a new instance of ActivityService
func NewActivityService(
	activityRepo repository.ActivityRepository,
	access AccessService,
	publisher realtime.Publisher,
	recorder AppendRecorder,
	logger *zap.Logger,
) ActivityService {
	return &activityServiceImpl{
		activityRepo: activityRepo,
		access:       access,
		publisher:    publisher,
		recorder:     recorder,
		logger:       logger,
	}
}

// Log appends an activity record and broadcasts it to every subscriber of
// the board topic, originator included (there is no optimistic client path
// for activity entries).
func (s *activityServiceImpl) Log(ctx context.Context, boardID, userID uuid.UUID, action domain.ActivityAction, entity domain.ActivityEntity, entityID uuid.UUID, details map[string]interface{}) {
	activity := &domain.Activity{
		BoardID:  boardID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("Failed to marshal activity details",
				zap.String("action", string(action)),
				zap.Error(err))
		} else {
			activity.Details = data
		}
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		if s.recorder != nil {
			s.recorder.RecordActivityAppendFailed()
		}
		s.logger.Error("Failed to append activity record",
			zap.String("boardId", boardID.String()),
			zap.String("action", string(action)),
			zap.Error(err))
		return
	}

	ev, err := realtime.NewEvent(realtime.EventActivityLogged, boardID, map[string]interface{}{"activity": activity})
	if err != nil {
		s.logger.Warn("Failed to build activity event", zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, ev)
}

// Feed returns one page of a board's activity, newest first
func (s *activityServiceImpl) Feed(ctx context.Context, userID, boardID uuid.UUID, page, limit int) (*dto.ActivityFeedResponse, error) {
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

	activities, total, err := s.activityRepo.FindByBoardID(ctx, boardID, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch activities", err.Error())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &dto.ActivityFeedResponse{
		Activities:  activities,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
	}, nil
}
