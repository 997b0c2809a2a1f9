package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Label is a color+text pair attached to a task.
type Label struct {
	Color string `json:"color"`
	Text  string `json:"text"`
}

// Task represents a unit of work within a list. BoardID is denormalized for
// board-scoped queries and must always equal the parent list's board.
type Task struct {
	BaseModel
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Description string         `gorm:"type:varchar(2000)" json:"description"`
	ListID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_list_position,priority:1" json:"listId"`
	BoardID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_board_id" json:"boardId"`
	Position    int            `gorm:"not null;index:idx_tasks_list_position,priority:2" json:"position"`
	Assignees   datatypes.JSON `gorm:"type:jsonb" json:"assignees"`
	Labels      datatypes.JSON `gorm:"type:jsonb" json:"labels"`
	DueDate     *time.Time     `gorm:"type:timestamp;index:idx_tasks_due_date" json:"dueDate"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index:idx_tasks_created_by" json:"createdBy"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// PositionKey returns the ordering key
func (t *Task) PositionKey() int { return t.Position }

// CreatedAtKey returns the first tiebreaker for duplicate keys
func (t *Task) CreatedAtKey() time.Time { return t.CreatedAt }

// IDKey returns the final tiebreaker for duplicate keys
func (t *Task) IDKey() uuid.UUID { return t.ID }

// SetAssignees stores the assignee ids as a JSON array
func (t *Task) SetAssignees(assignees []uuid.UUID) error {
	if assignees == nil {
		assignees = []uuid.UUID{}
	}
	raw, err := json.Marshal(assignees)
	if err != nil {
		return err
	}
	t.Assignees = datatypes.JSON(raw)
	return nil
}

// GetAssignees decodes the stored assignee ids
func (t *Task) GetAssignees() ([]uuid.UUID, error) {
	if len(t.Assignees) == 0 {
		return []uuid.UUID{}, nil
	}
	var assignees []uuid.UUID
	if err := json.Unmarshal(t.Assignees, &assignees); err != nil {
		return nil, err
	}
	return assignees, nil
}

// SetLabels stores the labels as a JSON array
func (t *Task) SetLabels(labels []Label) error {
	if labels == nil {
		labels = []Label{}
	}
	raw, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	t.Labels = datatypes.JSON(raw)
	return nil
}

// GetLabels decodes the stored labels
func (t *Task) GetLabels() ([]Label, error) {
	if len(t.Labels) == 0 {
		return []Label{}, nil
	}
	var labels []Label
	if err := json.Unmarshal(t.Labels, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}
