package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBackground is the color assigned to boards created without one.
const DefaultBackground = "#0079bf"

// Board represents a collaborative workspace containing lists and tasks.
// The owner is immutable after creation and always present in Members.
type Board struct {
	BaseModel
	Title       string        `gorm:"type:varchar(100);not null" json:"title"`
	Description string        `gorm:"type:varchar(500)" json:"description"`
	OwnerID     uuid.UUID     `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"ownerId"`
	Background  string        `gorm:"type:varchar(7);not null;default:'#0079bf'" json:"background"`
	Members     []BoardMember `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Lists       []List        `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// HasMember reports whether the given user is the owner or a member.
func (b *Board) HasMember(userID uuid.UUID) bool {
	if b.OwnerID == userID {
		return true
	}
	for _, m := range b.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// BoardMember represents a user's membership in a board
type BoardMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_board_members_board_id;uniqueIndex:uq_board_members_board_user" json:"boardId"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_board_members_user_id;uniqueIndex:uq_board_members_board_user" json:"userId"`
	JoinedAt time.Time `gorm:"type:timestamp;not null" json:"joinedAt"`
}

// TableName specifies the table name for BoardMember
func (BoardMember) TableName() string {
	return "board_members"
}
