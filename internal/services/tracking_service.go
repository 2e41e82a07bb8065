package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "corhyn.com/corhyn/internal/errors"
	repository "corhyn.com/corhyn/internal/repositories"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
	model "corhyn.com/corhyn/pkg/models"
)

// ExportTimeLayout is the start time format used in CSV exports.
const ExportTimeLayout = "2006-01-02 15:04:05"

var exportHeader = []string{"Task", "Start Time", "Duration (minutes)", "Notes"}

// TrackingService is the time tracking ledger. At most one entry is open at
// any time; the open entry is always looked up, never cached.
type TrackingService struct {
	tasks   *repository.TaskRepository
	entries *repository.TimeEntryRepository
	clock   Clock
}

func NewTrackingService(tasks *repository.TaskRepository, entries *repository.TimeEntryRepository, clock Clock) *TrackingService {
	return &TrackingService{
		tasks:   tasks,
		entries: entries,
		clock:   orSystemClock(clock),
	}
}

func (s *TrackingService) Start(ctx context.Context, taskID uint) (*model.TimeEntry, error) {
	if err := s.ensureTask(ctx, taskID); err != nil {
		return nil, err
	}

	open, err := s.entries.FindOpen(ctx)
	switch {
	case err == nil:
		return nil, fmt.Errorf("task %d since %s: %w", open.TaskID, open.StartTime.In(s.location()).Format(ExportTimeLayout), apperrors.ErrSessionActive)
	case !errors.Is(err, apperrors.ErrNoActiveSession):
		return nil, err
	}

	entry := &model.TimeEntry{
		TaskID:    taskID,
		StartTime: s.clock().UTC(),
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	log.Info().Uint("task_id", taskID).Uint("entry_id", entry.ID).Msg("time tracking started")
	return entry, nil
}

// Stop closes the most recently started open entry. Its duration is the
// elapsed time truncated to whole seconds.
func (s *TrackingService) Stop(ctx context.Context) (*model.TimeEntry, error) {
	entry, err := s.entries.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	end := s.clock().UTC()
	duration := int64(end.Sub(entry.StartTime) / time.Second)
	if duration < 0 {
		duration = 0
	}

	entry.EndTime = &end
	entry.Duration = &duration
	if err := s.entries.Close(ctx, entry); err != nil {
		return nil, err
	}

	log.Info().Uint("task_id", entry.TaskID).Uint("entry_id", entry.ID).Int64("seconds", duration).Msg("time tracking stopped")
	return entry, nil
}

// Current returns the open entry, or ErrNoActiveSession.
func (s *TrackingService) Current(ctx context.Context) (*model.TimeEntry, error) {
	return s.entries.FindOpen(ctx)
}

// AddManual logs a closed entry of the given length starting now.
func (s *TrackingService) AddManual(ctx context.Context, taskID uint, minutes int) (*model.TimeEntry, error) {
	if err := validators.ValidateMinutes(minutes); err != nil {
		return nil, err
	}
	if err := s.ensureTask(ctx, taskID); err != nil {
		return nil, err
	}

	start := s.clock().UTC()
	duration := int64(minutes) * 60
	end := start.Add(time.Duration(duration) * time.Second)
	note := constants.ManualEntryNote

	entry := &model.TimeEntry{
		TaskID:    taskID,
		StartTime: start,
		EndTime:   &end,
		Duration:  &duration,
		Notes:     &note,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	log.Info().Uint("task_id", taskID).Int("minutes", minutes).Msg("manual time entry added")
	return entry, nil
}

func (s *TrackingService) List(ctx context.Context) ([]model.TimeEntryRow, error) {
	return s.entries.List(ctx)
}

// Export writes every entry as CSV, oldest first. Running entries have an
// empty duration.
func (s *TrackingService) Export(ctx context.Context, w io.Writer) (int, error) {
	rows, err := s.entries.ListChronological(ctx)
	if err != nil {
		return 0, err
	}

	loc := s.location()
	out := csv.NewWriter(w)
	if err := out.Write(exportHeader); err != nil {
		return 0, err
	}

	for _, row := range rows {
		minutes := ""
		if row.Duration != nil {
			minutes = strconv.FormatFloat(float64(*row.Duration)/60, 'f', 1, 64)
		}
		notes := ""
		if row.Notes != nil {
			notes = *row.Notes
		}

		record := []string{row.TaskTitle, row.StartTime.In(loc).Format(ExportTimeLayout), minutes, notes}
		if err := out.Write(record); err != nil {
			return 0, err
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return 0, err
	}

	log.Info().Int("entries", len(rows)).Msg("time entries exported")
	return len(rows), nil
}

func (s *TrackingService) ensureTask(ctx context.Context, taskID uint) error {
	ok, err := s.tasks.Exists(ctx, taskID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %d: %w", taskID, apperrors.ErrTaskNotFound)
	}
	return nil
}

func (s *TrackingService) location() *time.Location {
	return s.clock().Location()
}
