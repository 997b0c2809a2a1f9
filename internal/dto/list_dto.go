package dto

import (
	"strings"

	"github.com/google/uuid"

	"taskboard-api/internal/response"
)

// CreateListRequest represents the request to create a list on a board
type CreateListRequest struct {
	Title   string    `json:"title" binding:"required" example:"In progress"`
	BoardID uuid.UUID `json:"boardId" binding:"required" example:"1275eac5-f0f9-4bee-8235-576a0042f42b"`
}

// Validate checks field constraints before any entity is constructed
func (r *CreateListRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || len(r.Title) > 100 {
		return response.NewAppError(response.ErrCodeValidation, "Title must be 1-100 characters", "")
	}
	if r.BoardID == uuid.Nil {
		return response.NewAppError(response.ErrCodeValidation, "boardId is required", "")
	}
	return nil
}

// UpdateListRequest represents a partial list update
type UpdateListRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

// Validate checks the fields that are present
func (r *UpdateListRequest) Validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		if trimmed == "" || len(trimmed) > 100 {
			return response.NewAppError(response.ErrCodeValidation, "Title must be 1-100 characters", "")
		}
		r.Title = &trimmed
	}
	if r.Position != nil && *r.Position < 0 {
		return response.NewAppError(response.ErrCodeValidation, "Position must be non-negative", "")
	}
	return nil
}

// ListPosition is one entry of a list re-index batch
type ListPosition struct {
	ListID   uuid.UUID `json:"listId" binding:"required"`
	Position int       `json:"position"`
}

// ReorderListsRequest carries a full re-index batch for a board's lists
type ReorderListsRequest struct {
	ListPositions []ListPosition `json:"listPositions" binding:"required"`
}
