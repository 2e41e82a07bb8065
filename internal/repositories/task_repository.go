package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
	model "corhyn.com/corhyn/pkg/models"
)

// DeletePolicy decides what happens to a task's time entries when the task
// is deleted.
type DeletePolicy int

const (
	// OrphanTimeEntries leaves time entries pointing at the deleted task.
	OrphanTimeEntries DeletePolicy = iota
	// CascadeTimeEntries removes them together with the task.
	CascadeTimeEntries
)

// TaskFilter holds the optional list criteria. Zero values mean "no
// restriction", except that without Status or IncludeCompleted only
// pending tasks are returned. Tag names are normalized before matching.
type TaskFilter struct {
	Status           constants.TaskStatus
	Priority         constants.Priority
	Tags             []string
	IncludeCompleted bool
}

// TaskChanges is a sparse update. Nil fields are left untouched; a non-nil
// Tags replaces the whole tag set.
type TaskChanges struct {
	Title       *string
	Description *string
	Priority    *string
	Deadline    *string
	Tags        *[]string
}

type TaskRepository struct {
	db     *gorm.DB
	policy DeletePolicy
}

func NewTaskRepository(db *gorm.DB, policy DeletePolicy) *TaskRepository {
	return &TaskRepository{db: db, policy: policy}
}

// CreateTask inserts the task and links its tags in one transaction.
func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if err := linkTags(ctx, tx, task.ID, tagNames, task.CreatedAt); err != nil {
			return err
		}
		return tx.Preload("Tags", orderTagsByName).First(task, task.ID).Error
	})
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	return findTask(ctx, r.db, id)
}

func (r *TaskRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update applies the non-nil changes. now stamps any tags created on the way.
func (r *TaskRepository) Update(ctx context.Context, id uint, changes TaskChanges, now time.Time) (*model.Task, error) {
	var task *model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTask(ctx, tx, id); err != nil {
			return err
		}

		columns := map[string]interface{}{}
		if changes.Title != nil {
			columns["title"] = *changes.Title
		}
		if changes.Description != nil {
			columns["description"] = nullable(*changes.Description)
		}
		if changes.Priority != nil {
			columns["priority"] = nullable(*changes.Priority)
		}
		if changes.Deadline != nil {
			columns["deadline"] = nullable(*changes.Deadline)
		}

		if len(columns) > 0 {
			if err := tx.Model(&model.Task{}).Where("id = ?", id).Updates(columns).Error; err != nil {
				return fmt.Errorf("update task %d: %w", id, err)
			}
		}

		if changes.Tags != nil {
			if err := tx.Where("task_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
				return err
			}
			if err := linkTags(ctx, tx, id, *changes.Tags, now); err != nil {
				return err
			}
		}

		var err error
		task, err = findTask(ctx, tx, id)
		return err
	})
	return task, err
}

// SetStatus moves the task to status. completedAt is stored when completing
// and cleared otherwise.
func (r *TaskRepository) SetStatus(ctx context.Context, id uint, status constants.TaskStatus, completedAt *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", id, apperrors.ErrTaskNotFound)
	}
	return nil
}

// Delete removes the task and its tag links, and its time entries when the
// repository cascades.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
			return err
		}
		if r.policy == CascadeTimeEntries {
			if err := tx.Where("task_id = ?", id).Delete(&model.TimeEntry{}).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("task %d: %w", id, apperrors.ErrTaskNotFound)
		}
		return nil
	})
}

// List returns the tasks matching filter, newest first.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})

	switch {
	case filter.Status != "":
		query = query.Where("tasks.status = ?", filter.Status)
	case !filter.IncludeCompleted:
		query = query.Where("tasks.status = ?", constants.StatusPending)
	}

	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}

	if tags := validators.NormalizeTagNames(filter.Tags); len(tags) > 0 {
		// a task qualifies only when it carries every requested tag
		withAllTags := r.db.Table("task_tags").
			Select("task_tags.task_id").
			Joins("JOIN tags ON tags.id = task_tags.tag_id").
			Where("tags.name IN ?", tags).
			Group("task_tags.task_id").
			Having("COUNT(DISTINCT tags.name) = ?", len(tags))
		query = query.Where("tasks.id IN (?)", withAllTags)
	}

	var tasks []model.Task
	err := query.Preload("Tags", orderTagsByName).
		Order("tasks.created_at DESC").
		Order("tasks.id DESC").
		Find(&tasks).Error
	return tasks, err
}

// Search matches keyword against titles, ignoring case.
func (r *TaskRepository) Search(ctx context.Context, keyword string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("instr(lower(tasks.title), lower(?)) > 0", keyword).
		Preload("Tags", orderTagsByName).
		Order("tasks.created_at DESC").
		Order("tasks.id DESC").
		Find(&tasks).Error
	return tasks, err
}

func findTask(ctx context.Context, db *gorm.DB, id uint) (*model.Task, error) {
	var task model.Task
	err := db.WithContext(ctx).Preload("Tags", orderTagsByName).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %d: %w", id, apperrors.ErrTaskNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func linkTags(ctx context.Context, tx *gorm.DB, taskID uint, names []string, now time.Time) error {
	if len(names) == 0 {
		return nil
	}

	tagIDs, err := NewTagRepository(tx).ResolveOrCreate(ctx, names, now)
	if err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]model.TaskTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, model.TaskTag{TaskID: taskID, TagID: tagID})
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return fmt.Errorf("link tags to task %d: %w", taskID, err)
	}
	return nil
}

func orderTagsByName(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
