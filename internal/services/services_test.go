package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "corhyn.com/corhyn/internal/errors"
	repository "corhyn.com/corhyn/internal/repositories"
	"corhyn.com/corhyn/internal/testutil"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
	model "corhyn.com/corhyn/pkg/models"
)

// Wednesday
var wednesday = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.SetupTestDB(t)
}

type testServices struct {
	clock    *fakeClock
	tasks    *TaskService
	tracking *TrackingService
	stats    *StatsService
}

func newTestServices(t *testing.T, start time.Time) *testServices {
	db := setupTestDB(t)
	clock := &fakeClock{now: start}
	taskRepo := repository.NewTaskRepository(db, repository.OrphanTimeEntries)

	return &testServices{
		clock:    clock,
		tasks:    NewTaskService(taskRepo, clock.Now),
		tracking: NewTrackingService(taskRepo, repository.NewTimeEntryRepository(db), clock.Now),
		stats:    NewStatsService(repository.NewStatsRepository(db), clock.Now),
	}
}

func (s *testServices) addTask(t *testing.T, title, priority, tags string) *model.Task {
	task, err := s.tasks.CreateTask(context.Background(), validators.CreateTaskRequest{
		Title:    title,
		Priority: priority,
		Tags:     tags,
	})
	require.NoError(t, err)
	return task
}

func TestTaskService_CreateThenList(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)

	task, err := s.tasks.CreateTask(ctx, validators.CreateTaskRequest{
		Title:       "  Write report ",
		Description: "quarterly numbers",
		Priority:    "high",
		Deadline:    "friday",
		Tags:        "work, finance",
	})
	require.NoError(t, err)

	tasks, err := s.tasks.ListTasks(ctx, ListOptions{IncludeCompleted: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "quarterly numbers", *got.Description)
	assert.Equal(t, "high", *got.Priority)
	assert.Equal(t, "friday", *got.Deadline)
	assert.Equal(t, constants.StatusPending, got.Status)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, got.CreatedAt.Equal(wednesday))
	assert.Equal(t, "finance,work", got.TagNames())
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)

	_, err := s.tasks.CreateTask(ctx, validators.CreateTaskRequest{Title: "t", Priority: "urgent"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPriority)

	_, err = s.tasks.CreateTask(ctx, validators.CreateTaskRequest{Title: " "})
	assert.ErrorIs(t, err, apperrors.ErrTitleRequired)

	tasks, err := s.tasks.ListTasks(ctx, ListOptions{IncludeCompleted: true})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_StatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)
	task := s.addTask(t, "t", "", "")

	s.clock.Advance(time.Hour)
	completed, changed, err := s.tasks.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, completed.CompletedAt)
	assert.True(t, completed.CompletedAt.Equal(wednesday.Add(time.Hour)))

	_, changed, err = s.tasks.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, changed, err = s.tasks.SetStatus(ctx, task.ID, "pending")
	require.NoError(t, err)
	assert.True(t, changed)

	fetched, err := s.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, fetched.Status)
	assert.Nil(t, fetched.CompletedAt)

	_, _, err = s.tasks.SetStatus(ctx, task.ID, "done")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, _, err = s.tasks.CompleteTask(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTaskService_Edit(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)
	task := s.addTask(t, "old", "low", "a")

	_, err := s.tasks.EditTask(ctx, task.ID, validators.UpdateTaskRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

	bad := "urgent"
	_, err = s.tasks.EditTask(ctx, task.ID, validators.UpdateTaskRequest{Priority: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPriority)

	title := "new"
	_, err = s.tasks.EditTask(ctx, 404, validators.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	tags := "b,c"
	edited, err := s.tasks.EditTask(ctx, task.ID, validators.UpdateTaskRequest{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "new", edited.Title)
	assert.Equal(t, "low", *edited.Priority)
	assert.Equal(t, "b,c", edited.TagNames())
}

func TestTaskService_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)

	s.addTask(t, "all three", "high", "x,y,z")
	s.clock.Advance(time.Minute)
	s.addTask(t, "x and w", "low", "x,w")

	tasks, err := s.tasks.ListTasks(ctx, ListOptions{Tags: " x , y "})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "all three", tasks[0].Title)

	tasks, err = s.tasks.ListTasks(ctx, ListOptions{Tags: "x,w"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "x and w", tasks[0].Title)

	tasks, err = s.tasks.ListTasks(ctx, ListOptions{Tags: "x,x,y"})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = s.tasks.ListTasks(ctx, ListOptions{Status: "archived"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, err = s.tasks.SearchTasks(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrKeywordRequired)

	tasks, err = s.tasks.SearchTasks(ctx, "AND")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)
	task := s.addTask(t, "t", "", "a")

	require.NoError(t, s.tasks.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, s.tasks.DeleteTask(ctx, task.ID), apperrors.ErrTaskNotFound)

	_, err := s.tasks.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTrackingService_StartStop(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)
	task := s.addTask(t, "focus", "", "")

	_, err := s.tracking.Start(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	entry, err := s.tracking.Start(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, entry.IsOpen())

	_, err = s.tracking.Start(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionActive)

	s.clock.Advance(90*time.Second + 700*time.Millisecond)
	stopped, err := s.tracking.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, stopped.ID)
	assert.EqualValues(t, 90, *stopped.Duration)

	_, err = s.tracking.Stop(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveSession)

	rows, err := s.tracking.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "focus", rows[0].TaskTitle)
	assert.False(t, rows[0].IsOpen())
}

func TestTrackingService_StopWithRealClock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	taskRepo := repository.NewTaskRepository(db, repository.OrphanTimeEntries)
	tasks := NewTaskService(taskRepo, nil)
	tracking := NewTrackingService(taskRepo, repository.NewTimeEntryRepository(db), nil)

	task, err := tasks.CreateTask(ctx, validators.CreateTaskRequest{Title: "t"})
	require.NoError(t, err)

	_, err = tracking.Start(ctx, task.ID)
	require.NoError(t, err)

	entry, err := tracking.Stop(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0, *entry.Duration, 1)
}

func TestTrackingService_AddManualAndExport(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)
	task := s.addTask(t, "Write docs", "", "")

	_, err := s.tracking.AddManual(ctx, task.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidMinutes)

	_, err = s.tracking.AddManual(ctx, 404, 30)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	entry, err := s.tracking.AddManual(ctx, task.ID, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 1800, *entry.Duration)
	assert.Equal(t, constants.ManualEntryNote, *entry.Notes)
	assert.True(t, entry.StartTime.Equal(wednesday))
	require.NotNil(t, entry.EndTime)
	assert.True(t, entry.EndTime.Equal(wednesday.Add(30*time.Minute)))

	s.clock.Advance(time.Hour)
	_, err = s.tracking.Start(ctx, task.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := s.tracking.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := "Task,Start Time,Duration (minutes),Notes\n" +
		"Write docs,2026-10-14 10:00:00,30.0,Manual entry\n" +
		"Write docs,2026-10-14 11:00:00,,\n"
	assert.Equal(t, expected, buf.String())
}

func TestPeriodStart(t *testing.T) {
	cases := []struct {
		period string
		now    time.Time
		want   time.Time
	}{
		{"day", wednesday, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)},
		{"week", wednesday, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC), time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)},
		{"month", wednesday, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{"year", wednesday, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.period+" "+tc.now.Format(time.DateOnly), func(t *testing.T) {
			got, err := PeriodStart(tc.period, tc.now)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s want %s", got, tc.want)
		})
	}

	_, err := PeriodStart("fortnight", wednesday)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}

func TestStatsService_DayExcludesYesterdayWeekIncludesIt(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday.Add(-24*time.Hour))
	s.addTask(t, "yesterday", "", "")
	s.clock.now = wednesday

	day, err := s.stats.Overview(ctx, "day")
	require.NoError(t, err)
	assert.EqualValues(t, 0, day.TotalTasks)
	assert.Equal(t, 0.0, day.CompletionRate)

	week, err := s.stats.Overview(ctx, "week")
	require.NoError(t, err)
	assert.EqualValues(t, 1, week.TotalTasks)
	assert.EqualValues(t, 0, week.CompletedTasks)

	_, err = s.stats.Overview(ctx, "decade")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}

func TestStatsService_ByPriorityScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)

	s.addTask(t, "a", "high", "")
	medium := s.addTask(t, "b", "medium", "")
	s.addTask(t, "c", "medium", "")
	_, _, err := s.tasks.CompleteTask(ctx, medium.ID)
	require.NoError(t, err)

	report, err := s.stats.Detailed(ctx, "day")
	require.NoError(t, err)

	assert.Equal(t, []GroupStat{
		{Name: "high", Total: 1, Completed: 0, CompletionRate: 0},
		{Name: "medium", Total: 2, Completed: 1, CompletionRate: 50},
	}, report.ByPriority)

	assert.EqualValues(t, 3, report.Overview.TotalTasks)
	assert.EqualValues(t, 1, report.Overview.CompletedTasks)
	assert.InDelta(t, 33.33, report.Overview.CompletionRate, 0.01)
	assert.Equal(t, []DayStat{{Date: "2026-10-14", Total: 3, Completed: 1}}, report.ByDay)
}

func TestStatsService_UnsetPriorityAndTags(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, wednesday)

	s.addTask(t, "a", "", "home")
	s.addTask(t, "b", "low", "home,work")

	groups, err := s.stats.ByPriority(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, []GroupStat{
		{Name: "low", Total: 1},
		{Name: UnsetGroup, Total: 1},
	}, groups)

	tags, err := s.stats.ByTag(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, []GroupStat{
		{Name: "home", Total: 2},
		{Name: "work", Total: 1},
	}, tags)
}

func TestStatsService_TimeBreakdowns(t *testing.T) {
	ctx := context.Background()
	plusTwo := time.FixedZone("UTC+2", 2*60*60)
	s := newTestServices(t, time.Date(2026, 10, 14, 9, 0, 0, 0, plusTwo))

	writing := s.addTask(t, "writing", "", "")
	review := s.addTask(t, "review", "", "")

	_, err := s.tracking.AddManual(ctx, writing.ID, 60)
	require.NoError(t, err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.tracking.Start(ctx, review.ID)
	require.NoError(t, err)
	s.clock.Advance(20 * time.Minute)
	_, err = s.tracking.Stop(ctx)
	require.NoError(t, err)

	_, err = s.tracking.AddManual(ctx, writing.ID, 10)
	require.NoError(t, err)

	_, err = s.tracking.Start(ctx, review.ID)
	require.NoError(t, err)

	overview, err := s.stats.Overview(ctx, "day")
	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.TrackedTasks)
	assert.EqualValues(t, 90*60, overview.TotalSeconds)
	assert.InDelta(t, 30*60, overview.AverageSeconds, 0.001)

	hours, err := s.stats.ByHour(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, []HourStat{{Hour: 9, TotalSeconds: 3600}, {Hour: 11, TotalSeconds: 1800}}, hours)

	byTask, err := s.stats.ByTask(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, []TaskTime{
		{TaskID: writing.ID, Title: "writing", Sessions: 2, TotalSeconds: 4200},
		{TaskID: review.ID, Title: "review", Sessions: 2, TotalSeconds: 1200},
	}, byTask)

	days, err := s.stats.TimeByDay(ctx, "day")
	require.NoError(t, err)
	assert.Equal(t, []DayTime{{Date: "2026-10-14", Sessions: 4, TotalSeconds: 5400}}, days)
}

func TestStatsService_ByHourKeepsTopFive(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t, time.Date(2026, 10, 14, 0, 30, 0, 0, time.UTC))
	task := s.addTask(t, "t", "", "")

	for i := 1; i <= 7; i++ {
		_, err := s.tracking.AddManual(ctx, task.ID, i)
		require.NoError(t, err)
		s.clock.Advance(time.Hour)
	}

	hours, err := s.stats.ByHour(ctx, "day")
	require.NoError(t, err)
	require.Len(t, hours, 5)
	assert.Equal(t, HourStat{Hour: 6, TotalSeconds: 7 * 60}, hours[0])
	assert.Equal(t, HourStat{Hour: 2, TotalSeconds: 3 * 60}, hours[4])
}

func TestTagService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	clock := &fakeClock{now: wednesday}
	tags := NewTagService(repository.NewTagRepository(db), clock.Now)
	tasks := NewTaskService(repository.NewTaskRepository(db, repository.OrphanTimeEntries), clock.Now)

	_, err := tags.CreateTag(ctx, " ", "")
	assert.ErrorIs(t, err, apperrors.ErrTagNameRequired)

	tag, err := tags.CreateTag(ctx, "work", "blue")
	require.NoError(t, err)
	assert.Equal(t, "blue", *tag.Color)

	_, err = tags.CreateTag(ctx, "work", "")
	assert.ErrorIs(t, err, apperrors.ErrTagExists)

	_, err = tasks.CreateTask(ctx, validators.CreateTaskRequest{Title: "t", Tags: "work,home"})
	require.NoError(t, err)

	_, err = tags.RenameTag(ctx, "home", "work")
	assert.ErrorIs(t, err, apperrors.ErrTagExists)

	_, err = tags.RenameTag(ctx, "home", "house")
	require.NoError(t, err)

	usage, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "house", usage[0].Name)
	assert.EqualValues(t, 1, usage[0].TaskCount)

	require.NoError(t, tags.DeleteTag(ctx, "house"))
	assert.ErrorIs(t, tags.DeleteTag(ctx, "house"), apperrors.ErrTagNotFound)

	listed, err := tasks.ListTasks(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "work", listed[0].TagNames())
}
