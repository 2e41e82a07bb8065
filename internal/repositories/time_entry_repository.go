package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "corhyn.com/corhyn/internal/errors"
	model "corhyn.com/corhyn/pkg/models"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *model.TimeEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert time entry for task %d: %w", entry.TaskID, err)
	}
	return nil
}

// FindOpen returns the running entry with the latest start time.
func (r *TimeEntryRepository) FindOpen(ctx context.Context) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("duration IS NULL").
		Order("start_time DESC").
		Order("id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Close records the end of a running entry. It fails with ErrNoActiveSession
// if the entry was closed in the meantime.
func (r *TimeEntryRepository) Close(ctx context.Context, entry *model.TimeEntry) error {
	res := r.db.WithContext(ctx).Model(&model.TimeEntry{}).
		Where("id = ? AND duration IS NULL", entry.ID).
		Updates(map[string]interface{}{
			"end_time": entry.EndTime,
			"duration": entry.Duration,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNoActiveSession
	}
	return nil
}

// List returns entries with their task titles, newest first.
func (r *TimeEntryRepository) List(ctx context.Context) ([]model.TimeEntryRow, error) {
	return r.listOrdered(ctx, "time_entries.start_time DESC, time_entries.id DESC")
}

// ListChronological returns entries oldest first.
func (r *TimeEntryRepository) ListChronological(ctx context.Context) ([]model.TimeEntryRow, error) {
	return r.listOrdered(ctx, "time_entries.start_time ASC, time_entries.id ASC")
}

func (r *TimeEntryRepository) ListByTask(ctx context.Context, taskID uint) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("start_time DESC").
		Find(&entries).Error
	return entries, err
}

func (r *TimeEntryRepository) listOrdered(ctx context.Context, order string) ([]model.TimeEntryRow, error) {
	var rows []model.TimeEntryRow
	err := r.db.WithContext(ctx).
		Table("time_entries").
		Select("time_entries.*, COALESCE(tasks.title, '') AS task_title").
		Joins("LEFT JOIN tasks ON tasks.id = time_entries.task_id").
		Order(order).
		Scan(&rows).Error
	return rows, err
}
