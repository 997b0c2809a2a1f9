package dto

import (
	"taskboard-api/internal/domain"
)

// ActivityFeedResponse is one page of a board's activity feed, newest first
type ActivityFeedResponse struct {
	Activities  []*domain.Activity `json:"activities"`
	CurrentPage int                `json:"currentPage" example:"1"`
	TotalPages  int                `json:"totalPages" example:"2"`
	Total       int64              `json:"total" example:"25"`
}

// TaskSearchResponse is one page of board-scoped task search results
type TaskSearchResponse struct {
	Tasks       []*domain.Task `json:"tasks"`
	CurrentPage int            `json:"currentPage" example:"1"`
	TotalPages  int            `json:"totalPages" example:"1"`
	Total       int64          `json:"total" example:"7"`
}
