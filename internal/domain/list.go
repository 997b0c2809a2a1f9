package domain

import (
	"time"

	"github.com/google/uuid"
)

// List represents an ordered column of tasks within a board.
// Position is a non-negative ordering key; duplicates are permitted and
// consumers break ties by creation time then id.
type List struct {
	BaseModel
	Title    string    `gorm:"type:varchar(100);not null" json:"title"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_lists_board_position,priority:1" json:"boardId"`
	Position int       `gorm:"not null;index:idx_lists_board_position,priority:2" json:"position"`
	Tasks    []Task    `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName specifies the table name for List
func (List) TableName() string {
	return "lists"
}

// PositionKey returns the ordering key
func (l *List) PositionKey() int { return l.Position }

// CreatedAtKey returns the first tiebreaker for duplicate keys
func (l *List) CreatedAtKey() time.Time { return l.CreatedAt }

// IDKey returns the final tiebreaker for duplicate keys
func (l *List) IDKey() uuid.UUID { return l.ID }
