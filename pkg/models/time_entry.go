package model

import "time"

// TimeEntry is a tracked session. A nil Duration marks a session that is
// still running.
type TimeEntry struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TaskID    uint       `gorm:"not null;index" json:"task_id"`
	StartTime time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  *int64     `json:"duration,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

func (e *TimeEntry) IsOpen() bool {
	return e.Duration == nil
}

// TimeEntryRow is a time entry annotated with the title of its task. The
// title is empty when the task has since been deleted.
type TimeEntryRow struct {
	TimeEntry
	TaskTitle string `json:"task_title"`
}
