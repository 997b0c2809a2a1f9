package dto

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"taskboard-api/internal/response"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateBoardRequest represents the request to create a board
type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required" example:"Release planning"`
	Description string `json:"description" example:"Tracking the Q3 release"`
	Background  string `json:"background" example:"#0079bf"`
}

// Validate checks field constraints before any entity is constructed
func (r *CreateBoardRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || len(r.Title) > 100 {
		return response.NewAppError(response.ErrCodeValidation, "Title must be 1-100 characters", "")
	}
	if len(r.Description) > 500 {
		return response.NewAppError(response.ErrCodeValidation, "Description cannot exceed 500 characters", "")
	}
	if r.Background != "" && !hexColorPattern.MatchString(r.Background) {
		return response.NewAppError(response.ErrCodeValidation, "Background must be a hex color", "")
	}
	return nil
}

// UpdateBoardRequest represents a partial board update
type UpdateBoardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Background  *string `json:"background"`
}

// Validate checks the fields that are present
func (r *UpdateBoardRequest) Validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		if trimmed == "" || len(trimmed) > 100 {
			return response.NewAppError(response.ErrCodeValidation, "Title must be 1-100 characters", "")
		}
		r.Title = &trimmed
	}
	if r.Description != nil && len(*r.Description) > 500 {
		return response.NewAppError(response.ErrCodeValidation, "Description cannot exceed 500 characters", "")
	}
	if r.Background != nil && !hexColorPattern.MatchString(*r.Background) {
		return response.NewAppError(response.ErrCodeValidation, "Background must be a hex color", "")
	}
	return nil
}

// AddMemberRequest represents the request to add a member to a board
type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required" example:"a1b2c3d4-e5f6-7890-abcd-ef1234567890"`
}
