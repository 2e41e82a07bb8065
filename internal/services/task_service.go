package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "corhyn.com/corhyn/internal/errors"
	repository "corhyn.com/corhyn/internal/repositories"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
	model "corhyn.com/corhyn/pkg/models"
)

type TaskService struct {
	repo  *repository.TaskRepository
	clock Clock
}

func NewTaskService(repo *repository.TaskRepository, clock Clock) *TaskService {
	return &TaskService{
		repo:  repo,
		clock: orSystemClock(clock),
	}
}

// ListOptions are the raw list criteria. Tags is a comma-delimited list.
type ListOptions struct {
	Status           string
	Priority         string
	Tags             string
	IncludeCompleted bool
}

func (s *TaskService) CreateTask(ctx context.Context, req validators.CreateTaskRequest) (*model.Task, error) {
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: optional(req.Description),
		Priority:    optional(req.Priority),
		Deadline:    optional(req.Deadline),
		Status:      constants.StatusPending,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.repo.CreateTask(ctx, task, validators.ParseTagList(req.Tags)); err != nil {
		return nil, err
	}

	log.Info().Uint("task_id", task.ID).Str("title", task.Title).Msg("task created")
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// EditTask applies a sparse update. It returns ErrNothingToUpdate when the
// request carries no field at all.
func (s *TaskService) EditTask(ctx context.Context, id uint, req validators.UpdateTaskRequest) (*model.Task, error) {
	if req.IsEmpty() {
		return nil, apperrors.ErrNothingToUpdate
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return nil, err
	}

	changes := repository.TaskChanges{
		Description: req.Description,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		changes.Title = &title
	}
	if req.Tags != nil {
		tags := validators.ParseTagList(*req.Tags)
		changes.Tags = &tags
	}

	task, err := s.repo.Update(ctx, id, changes, s.clock().UTC())
	if err != nil {
		return nil, err
	}

	log.Info().Uint("task_id", id).Msg("task edited")
	return task, nil
}

// SetStatus moves a task between pending and completed. The boolean is false
// when the task already had the requested status; nothing is written then.
func (s *TaskService) SetStatus(ctx context.Context, id uint, status string) (*model.Task, bool, error) {
	if err := validators.ValidateStatus(status); err != nil {
		return nil, false, err
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	target := constants.TaskStatus(status)
	if task.Status == target {
		return task, false, nil
	}

	var completedAt *time.Time
	if target == constants.StatusCompleted {
		now := s.clock().UTC()
		completedAt = &now
	}

	if err := s.repo.SetStatus(ctx, id, target, completedAt); err != nil {
		return nil, false, err
	}

	task.Status = target
	task.CompletedAt = completedAt

	log.Info().Uint("task_id", id).Str("status", status).Msg("task status changed")
	return task, true, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, id uint) (*model.Task, bool, error) {
	return s.SetStatus(ctx, id, string(constants.StatusCompleted))
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Uint("task_id", id).Msg("task deleted")
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, opts ListOptions) ([]model.Task, error) {
	if opts.Status != "" {
		if err := validators.ValidateStatus(opts.Status); err != nil {
			return nil, err
		}
	}
	if err := validators.ValidatePriority(opts.Priority); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, repository.TaskFilter{
		Status:           constants.TaskStatus(opts.Status),
		Priority:         constants.Priority(opts.Priority),
		Tags:             validators.ParseTagList(opts.Tags),
		IncludeCompleted: opts.IncludeCompleted,
	})
}

func (s *TaskService) SearchTasks(ctx context.Context, keyword string) ([]model.Task, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperrors.ErrKeywordRequired
	}
	return s.repo.Search(ctx, keyword)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
