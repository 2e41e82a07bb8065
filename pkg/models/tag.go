package model

import "time"

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TaskTag is the join row between tasks and tags.
type TaskTag struct {
	TaskID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false;index"`
}

// TagUsage is a tag together with the number of tasks carrying it.
type TagUsage struct {
	Tag
	TaskCount int64 `json:"task_count"`
}
