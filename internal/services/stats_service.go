package services

import (
	"context"
	"sort"
	"time"

	repository "corhyn.com/corhyn/internal/repositories"
	"corhyn.com/corhyn/internal/validators"
	"corhyn.com/corhyn/pkg/constants"
)

const topHours = 5

// UnsetGroup names the group of tasks without a priority.
const UnsetGroup = "none"

type Overview struct {
	Period         constants.Period
	Since          time.Time
	TotalTasks     int64
	CompletedTasks int64
	CompletionRate float64
	TrackedTasks   int64
	TotalSeconds   int64
	AverageSeconds float64
}

type GroupStat struct {
	Name           string
	Total          int64
	Completed      int64
	CompletionRate float64
}

type HourStat struct {
	Hour         int
	TotalSeconds int64
}

type DayStat struct {
	Date      string
	Total     int64
	Completed int64
}

type DayTime struct {
	Date         string
	Sessions     int64
	TotalSeconds int64
}

type TaskTime struct {
	TaskID       uint
	Title        string
	Sessions     int64
	TotalSeconds int64
}

// Report bundles every breakdown for one period.
type Report struct {
	Overview   Overview
	ByPriority []GroupStat
	ByTag      []GroupStat
	ByDay      []DayStat
	TimeByDay  []DayTime
	ByHour     []HourStat
	ByTask     []TaskTime
}

type StatsService struct {
	repo  *repository.StatsRepository
	clock Clock
}

func NewStatsService(repo *repository.StatsRepository, clock Clock) *StatsService {
	return &StatsService{
		repo:  repo,
		clock: orSystemClock(clock),
	}
}

// PeriodStart returns the start of the period containing now, in now's
// location. Weeks start on Monday.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	if err := validators.ValidatePeriod(period); err != nil {
		return time.Time{}, err
	}

	y, m, d := now.Date()
	loc := now.Location()

	switch constants.Period(period) {
	case constants.PeriodWeek:
		back := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc), nil
	case constants.PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	case constants.PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
}

func (s *StatsService) Overview(ctx context.Context, period string) (Overview, error) {
	since, err := PeriodStart(period, s.clock())
	if err != nil {
		return Overview{}, err
	}

	counts, err := s.repo.TaskCounts(ctx, since)
	if err != nil {
		return Overview{}, err
	}
	totals, err := s.repo.TimeTotals(ctx, since)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Period:         constants.Period(period),
		Since:          since,
		TotalTasks:     counts.Total,
		CompletedTasks: counts.Completed,
		CompletionRate: rate(counts.Completed, counts.Total),
		TrackedTasks:   totals.TrackedTasks,
		TotalSeconds:   totals.TotalSeconds,
		AverageSeconds: totals.AverageSeconds,
	}, nil
}

// ByPriority lists high, medium, low and then unset tasks; groups without
// tasks are left out.
func (s *StatsService) ByPriority(ctx context.Context, period string) ([]GroupStat, error) {
	since, err := PeriodStart(period, s.clock())
	if err != nil {
		return nil, err
	}

	groups, err := s.repo.CountsByPriority(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := toGroupStats(groups)
	sort.SliceStable(stats, func(i, j int) bool {
		return priorityRank(stats[i].Name) < priorityRank(stats[j].Name)
	})
	return stats, nil
}

func (s *StatsService) ByTag(ctx context.Context, period string) ([]GroupStat, error) {
	since, err := PeriodStart(period, s.clock())
	if err != nil {
		return nil, err
	}

	groups, err := s.repo.CountsByTag(ctx, since)
	if err != nil {
		return nil, err
	}
	return toGroupStats(groups), nil
}

// ByHour sums closed session time per local start hour and keeps the
// busiest hours.
func (s *StatsService) ByHour(ctx context.Context, period string) ([]HourStat, error) {
	now := s.clock()
	since, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.EntriesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	totals := map[int]int64{}
	for _, entry := range entries {
		if entry.Duration == nil {
			continue
		}
		totals[entry.StartTime.In(now.Location()).Hour()] += *entry.Duration
	}

	stats := make([]HourStat, 0, len(totals))
	for hour, seconds := range totals {
		stats = append(stats, HourStat{Hour: hour, TotalSeconds: seconds})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSeconds != stats[j].TotalSeconds {
			return stats[i].TotalSeconds > stats[j].TotalSeconds
		}
		return stats[i].Hour < stats[j].Hour
	})

	if len(stats) > topHours {
		stats = stats[:topHours]
	}
	return stats, nil
}

// ByDay counts created and completed tasks per local creation date.
func (s *StatsService) ByDay(ctx context.Context, period string) ([]DayStat, error) {
	now := s.clock()
	since, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.TasksSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var stats []DayStat
	index := map[string]int{}
	for _, task := range tasks {
		date := task.CreatedAt.In(now.Location()).Format(time.DateOnly)
		i, ok := index[date]
		if !ok {
			i = len(stats)
			index[date] = i
			stats = append(stats, DayStat{Date: date})
		}
		stats[i].Total++
		if task.IsCompleted() {
			stats[i].Completed++
		}
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

// TimeByDay counts sessions and closed session time per local start date.
func (s *StatsService) TimeByDay(ctx context.Context, period string) ([]DayTime, error) {
	now := s.clock()
	since, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.EntriesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var stats []DayTime
	index := map[string]int{}
	for _, entry := range entries {
		date := entry.StartTime.In(now.Location()).Format(time.DateOnly)
		i, ok := index[date]
		if !ok {
			i = len(stats)
			index[date] = i
			stats = append(stats, DayTime{Date: date})
		}
		stats[i].Sessions++
		if entry.Duration != nil {
			stats[i].TotalSeconds += *entry.Duration
		}
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

func (s *StatsService) ByTask(ctx context.Context, period string) ([]TaskTime, error) {
	since, err := PeriodStart(period, s.clock())
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.TimeByTask(ctx, since)
	if err != nil {
		return nil, err
	}

	stats := make([]TaskTime, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, TaskTime(row))
	}
	return stats, nil
}

func (s *StatsService) Detailed(ctx context.Context, period string) (*Report, error) {
	var (
		report Report
		err    error
	)

	if report.Overview, err = s.Overview(ctx, period); err != nil {
		return nil, err
	}
	if report.ByPriority, err = s.ByPriority(ctx, period); err != nil {
		return nil, err
	}
	if report.ByTag, err = s.ByTag(ctx, period); err != nil {
		return nil, err
	}
	if report.ByDay, err = s.ByDay(ctx, period); err != nil {
		return nil, err
	}
	if report.TimeByDay, err = s.TimeByDay(ctx, period); err != nil {
		return nil, err
	}
	if report.ByHour, err = s.ByHour(ctx, period); err != nil {
		return nil, err
	}
	if report.ByTask, err = s.ByTask(ctx, period); err != nil {
		return nil, err
	}
	return &report, nil
}

func toGroupStats(groups []repository.GroupCounts) []GroupStat {
	stats := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		name := UnsetGroup
		if g.Name != nil && *g.Name != "" {
			name = *g.Name
		}
		stats = append(stats, GroupStat{
			Name:           name,
			Total:          g.Total,
			Completed:      g.Completed,
			CompletionRate: rate(g.Completed, g.Total),
		})
	}
	return stats
}

func priorityRank(name string) int {
	for i, p := range constants.Priorities {
		if string(p) == name {
			return i
		}
	}
	return len(constants.Priorities)
}

// rate is completed/total as a percentage, 0 for an empty group.
func rate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
