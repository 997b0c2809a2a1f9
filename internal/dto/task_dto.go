package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard-api/internal/domain"
	"taskboard-api/internal/response"
)

// CreateTaskRequest represents the request to create a task in a list
type CreateTaskRequest struct {
	Title       string         `json:"title" binding:"required" example:"Write release notes"`
	Description string         `json:"description"`
	ListID      uuid.UUID      `json:"listId" binding:"required"`
	Assignees   []uuid.UUID    `json:"assignedTo"`
	Labels      []domain.Label `json:"labels"`
	DueDate     *time.Time     `json:"dueDate"`
}

// Validate checks field constraints before any entity is constructed
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || len(r.Title) > 200 {
		return response.NewAppError(response.ErrCodeValidation, "Title must be 1-200 characters", "")
	}
	if len(r.Description) > 2000 {
		return response.NewAppError(response.ErrCodeValidation, "Description cannot exceed 2000 characters", "")
	}
	if r.ListID == uuid.Nil {
		return response.NewAppError(response.ErrCodeValidation, "listId is required", "")
	}
	return validateLabels(r.Labels)
}

// UpdateTaskRequest represents a partial task update
type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Assignees   []uuid.UUID    `json:"assignedTo"`
	Labels      []domain.Label `json:"labels"`
	DueDate     *time.Time     `json:"dueDate"`
	ClearDue    bool           `json:"clearDueDate"`
	Completed   *bool          `json:"completed"`
	Position    *int           `json:"position"`
}

// Validate checks the fields that are present
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		if trimmed == "" || len(trimmed) > 200 {
			return response.NewAppError(response.ErrCodeValidation, "Title must be 1-200 characters", "")
		}
		r.Title = &trimmed
	}
	if r.Description != nil && len(*r.Description) > 2000 {
		return response.NewAppError(response.ErrCodeValidation, "Description cannot exceed 2000 characters", "")
	}
	if r.Position != nil && *r.Position < 0 {
		return response.NewAppError(response.ErrCodeValidation, "Position must be non-negative", "")
	}
	return validateLabels(r.Labels)
}

// MoveTaskRequest moves a task to a target list at a target position
type MoveTaskRequest struct {
	ListID   uuid.UUID `json:"listId" binding:"required"`
	Position int       `json:"position"`
}

// Validate checks field constraints
func (r *MoveTaskRequest) Validate() error {
	if r.ListID == uuid.Nil {
		return response.NewAppError(response.ErrCodeValidation, "listId is required", "")
	}
	if r.Position < 0 {
		return response.NewAppError(response.ErrCodeValidation, "Position must be non-negative", "")
	}
	return nil
}

// TaskPosition is one entry of a task re-index batch. ListID lets a batch
// move tasks across lists of the same board while re-indexing.
type TaskPosition struct {
	TaskID   uuid.UUID `json:"taskId" binding:"required"`
	ListID   uuid.UUID `json:"listId" binding:"required"`
	Position int       `json:"position"`
}

// ReorderTasksRequest carries a full re-index batch for tasks
type ReorderTasksRequest struct {
	TaskPositions []TaskPosition `json:"taskPositions" binding:"required"`
}

func validateLabels(labels []domain.Label) error {
	for _, l := range labels {
		if l.Color != "" && !hexColorPattern.MatchString(l.Color) {
			return response.NewAppError(response.ErrCodeValidation, "Label color must be a hex color", "")
		}
		if len(l.Text) > 50 {
			return response.NewAppError(response.ErrCodeValidation, "Label text cannot exceed 50 characters", "")
		}
	}
	return nil
}
