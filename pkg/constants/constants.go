package constants

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Period is the granularity a statistics query is bucketed by.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

const ManualEntryNote = "Manual entry"

var (
	TaskStatuses = []TaskStatus{StatusPending, StatusCompleted}
	Priorities   = []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	Periods      = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}
)
