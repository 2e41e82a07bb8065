package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"corhyn.com/corhyn/pkg/constants"
	model "corhyn.com/corhyn/pkg/models"
)

type TaskCounts struct {
	Total     int64
	Completed int64
}

type TimeTotals struct {
	TrackedTasks   int64
	Sessions       int64
	TotalSeconds   int64
	AverageSeconds float64
}

// GroupCounts is a total/completed pair for one group. A nil Name is the
// group of tasks without a value.
type GroupCounts struct {
	Name      *string
	Total     int64
	Completed int64
}

type TaskTime struct {
	TaskID       uint
	Title        string
	Sessions     int64
	TotalSeconds int64
}

// StatsRepository runs the aggregate queries behind the statistics. Every
// query is bounded below by since (inclusive).
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) TaskCounts(ctx context.Context, since time.Time) (TaskCounts, error) {
	var counts TaskCounts
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed", constants.StatusCompleted).
		Where("created_at >= ?", since.UTC()).
		Scan(&counts).Error
	return counts, err
}

// TimeTotals sums closed sessions; open ones only count as tracked tasks.
func (r *StatsRepository) TimeTotals(ctx context.Context, since time.Time) (TimeTotals, error) {
	var totals TimeTotals
	err := r.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Select(`COUNT(DISTINCT task_id) AS tracked_tasks,
			COUNT(duration) AS sessions,
			COALESCE(SUM(duration), 0) AS total_seconds,
			COALESCE(AVG(duration), 0) AS average_seconds`).
		Where("start_time >= ?", since.UTC()).
		Scan(&totals).Error
	return totals, err
}

func (r *StatsRepository) CountsByPriority(ctx context.Context, since time.Time) ([]GroupCounts, error) {
	var groups []GroupCounts
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("priority AS name, COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed", constants.StatusCompleted).
		Where("created_at >= ?", since.UTC()).
		Group("priority").
		Scan(&groups).Error
	return groups, err
}

func (r *StatsRepository) CountsByTag(ctx context.Context, since time.Time) ([]GroupCounts, error) {
	var groups []GroupCounts
	err := r.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(tasks.id) AS total, COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed", constants.StatusCompleted).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Joins("JOIN tasks ON tasks.id = task_tags.task_id").
		Where("tasks.created_at >= ?", since.UTC()).
		Group("tags.id").
		Order("total DESC").
		Order("tags.name").
		Scan(&groups).Error
	return groups, err
}

// TasksSince returns the status and creation time of the tasks created
// since the boundary, oldest first.
func (r *StatsRepository) TasksSince(ctx context.Context, since time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Select("id", "status", "created_at").
		Where("created_at >= ?", since.UTC()).
		Order("created_at").
		Find(&tasks).Error
	return tasks, err
}

func (r *StatsRepository) EntriesSince(ctx context.Context, since time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("start_time >= ?", since.UTC()).
		Order("start_time").
		Find(&entries).Error
	return entries, err
}

// TimeByTask groups sessions by task, largest total first.
func (r *StatsRepository) TimeByTask(ctx context.Context, since time.Time) ([]TaskTime, error) {
	var rows []TaskTime
	err := r.db.WithContext(ctx).
		Table("time_entries").
		Select(`time_entries.task_id AS task_id,
			COALESCE(tasks.title, '') AS title,
			COUNT(*) AS sessions,
			COALESCE(SUM(time_entries.duration), 0) AS total_seconds`).
		Joins("LEFT JOIN tasks ON tasks.id = time_entries.task_id").
		Where("time_entries.start_time >= ?", since.UTC()).
		Group("time_entries.task_id").
		Order("total_seconds DESC").
		Order("time_entries.task_id").
		Scan(&rows).Error
	return rows, err
}
