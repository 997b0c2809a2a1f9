package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityAction enumerates the structural changes recorded in the ledger.
type ActivityAction string

const (
	ActionBoardCreated  ActivityAction = "board_created"
	ActionBoardUpdated  ActivityAction = "board_updated"
	ActionBoardDeleted  ActivityAction = "board_deleted"
	ActionListCreated   ActivityAction = "list_created"
	ActionListUpdated   ActivityAction = "list_updated"
	ActionListDeleted   ActivityAction = "list_deleted"
	ActionTaskCreated   ActivityAction = "task_created"
	ActionTaskUpdated   ActivityAction = "task_updated"
	ActionTaskDeleted   ActivityAction = "task_deleted"
	ActionTaskMoved     ActivityAction = "task_moved"
	ActionMemberAdded   ActivityAction = "member_added"
	ActionMemberRemoved ActivityAction = "member_removed"
)

// ActivityEntity enumerates what kind of entity an activity refers to.
type ActivityEntity string

const (
	EntityBoard  ActivityEntity = "board"
	EntityList   ActivityEntity = "list"
	EntityTask   ActivityEntity = "task"
	EntityMember ActivityEntity = "member"
)

// Activity is an immutable audit record of a board mutation. Rows are only
// ever appended; the single delete path is the board cascade. User and
// entity references are weak and may dangle after the target is deleted.
type Activity struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BoardID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_board_created,priority:1" json:"boardId"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_user_id" json:"userId"`
	Action    ActivityAction `gorm:"type:varchar(50);not null" json:"action"`
	Entity    ActivityEntity `gorm:"type:varchar(20);not null" json:"entity"`
	EntityID  uuid.UUID      `gorm:"type:uuid" json:"entityId"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt time.Time      `gorm:"not null;index:idx_activities_board_created,priority:2,sort:desc" json:"createdAt"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}
