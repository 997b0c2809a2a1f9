package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/repository"
	"taskboard-api/internal/response"
)

// Role is the caller's relationship to a board.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// AccessService is the gate in front of every board-scoped read and
// mutation. NotFound (board absent) and Forbidden (board exists, caller has
// no rights) stay distinguishable for callers; rendering them identically to
// clients is a handler-layer decision.
type AccessService interface {
	// Authorize returns the caller's role, a NotFound error, or a
	// Forbidden error. It never has side effects.
	Authorize(ctx context.Context, userID, boardID uuid.UUID) (Role, error)
	// CanSubscribe gates realtime topic subscription on the same check.
	CanSubscribe(ctx context.Context, userID, boardID uuid.UUID) error
	// RequireOwner rejects with Forbidden unless the caller owns the board.
	RequireOwner(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)
}

// accessServiceImpl is the implementation of AccessService
type accessServiceImpl struct {
	boardRepo repository.BoardRepository
}

// NewAccessService creates a new instance of AccessService
func NewAccessService(boardRepo repository.BoardRepository) AccessService {
	return &accessServiceImpl{boardRepo: boardRepo}
}

// Authorize determines whether the user is the owner, a member, or denied
func (s *accessServiceImpl) Authorize(ctx context.Context, userID, boardID uuid.UUID) (Role, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return "", response.NewAppError(response.ErrCodeInternal, "Failed to verify board access", err.Error())
	}
	if board.OwnerID == userID {
		return RoleOwner, nil
	}
	if board.HasMember(userID) {
		return RoleMember, nil
	}
	return "", response.NewAppError(response.ErrCodeForbidden, "Access denied", "")
}

// CanSubscribe implements realtime.Authorizer
func (s *accessServiceImpl) CanSubscribe(ctx context.Context, userID, boardID uuid.UUID) error {
	_, err := s.Authorize(ctx, userID, boardID)
	return err
}

// RequireOwner returns the board when the caller owns it
func (s *accessServiceImpl) RequireOwner(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Board not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify board access", err.Error())
	}
	if board.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the board owner can do this", "")
	}
	return board, nil
}
