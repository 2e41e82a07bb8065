package model

import (
	"strings"
	"time"

	"corhyn.com/corhyn/pkg/constants"
)

type Task struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Title       string               `gorm:"not null" json:"title"`
	Description *string              `json:"description,omitempty"`
	Priority    *string              `gorm:"type:varchar(10);index" json:"priority,omitempty"`
	Deadline    *string              `json:"deadline,omitempty"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	CreatedAt   time.Time            `gorm:"not null;index" json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	Tags        []Tag                `gorm:"many2many:task_tags" json:"tags,omitempty"`
}

// TagNames joins the names of the preloaded tags with commas.
func (t *Task) TagNames() string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ",")
}

func (t *Task) IsCompleted() bool {
	return t.Status == constants.StatusCompleted
}
