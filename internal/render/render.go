package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"corhyn.com/corhyn/internal/services"
	model "corhyn.com/corhyn/pkg/models"
)

const (
	timeLayout = "2006-01-02 15:04"
	na         = "N/A"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 2)
)

func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, SuccessText(format, args...))
}

func SuccessText(format string, args ...interface{}) string {
	return successStyle.Render(fmt.Sprintf(format, args...))
}

func Warn(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func Error(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// Panel draws body inside a titled border.
func Panel(w io.Writer, title, body string) {
	if title != "" {
		body = titleStyle.Render(title) + "\n\n" + body
	}
	fmt.Fprintln(w, panelStyle.Render(body))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func Tasks(w io.Writer, tasks []model.Task, loc *time.Location) {
	if len(tasks) == 0 {
		Warn(w, "No tasks found.")
		return
	}

	t := newTable("ID", "Title", "Priority", "Deadline", "Status", "Tags", "Created")
	for _, task := range tasks {
		t.Row(
			strconv.FormatUint(uint64(task.ID), 10),
			task.Title,
			orNA(task.Priority),
			orNA(task.Deadline),
			string(task.Status),
			orDash(task.TagNames()),
			task.CreatedAt.In(loc).Format(timeLayout),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func Task(w io.Writer, task *model.Task, loc *time.Location) {
	lines := []string{
		"Title:       " + task.Title,
		"Description: " + orNA(task.Description),
		"Priority:    " + orNA(task.Priority),
		"Deadline:    " + orNA(task.Deadline),
		"Status:      " + string(task.Status),
		"Tags:        " + orDash(task.TagNames()),
		"Created:     " + task.CreatedAt.In(loc).Format(timeLayout),
	}
	if task.CompletedAt != nil {
		lines = append(lines, "Completed:   "+task.CompletedAt.In(loc).Format(timeLayout))
	}
	Panel(w, fmt.Sprintf("Task %d", task.ID), strings.Join(lines, "\n"))
}

func TimeEntries(w io.Writer, rows []model.TimeEntryRow, loc *time.Location) {
	if len(rows) == 0 {
		Warn(w, "No time entries found.")
		return
	}

	t := newTable("ID", "Task", "Start", "Duration", "Notes")
	for _, row := range rows {
		title := row.TaskTitle
		if title == "" {
			title = fmt.Sprintf("(deleted task %d)", row.TaskID)
		}
		duration := "in progress"
		if row.Duration != nil {
			duration = Duration(*row.Duration)
		}
		t.Row(
			strconv.FormatUint(uint64(row.ID), 10),
			title,
			row.StartTime.In(loc).Format(timeLayout),
			duration,
			orDash(deref(row.Notes)),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func Tags(w io.Writer, tags []model.TagUsage) {
	if len(tags) == 0 {
		Warn(w, "No tags found.")
		return
	}

	t := newTable("Name", "Color", "Tasks")
	for _, tag := range tags {
		t.Row(tag.Name, orDash(deref(tag.Color)), strconv.FormatInt(tag.TaskCount, 10))
	}
	fmt.Fprintln(w, t.Render())
}

func Overview(w io.Writer, o services.Overview) {
	body := strings.Join([]string{
		fmt.Sprintf("Since:              %s", o.Since.Format(timeLayout)),
		fmt.Sprintf("Total Tasks:        %d", o.TotalTasks),
		fmt.Sprintf("Completed Tasks:    %d", o.CompletedTasks),
		fmt.Sprintf("Completion Rate:    %s", Percent(o.CompletionRate)),
		fmt.Sprintf("Tracked Tasks:      %d", o.TrackedTasks),
		fmt.Sprintf("Total Time Tracked: %s", Duration(o.TotalSeconds)),
		fmt.Sprintf("Average Session:    %s", Duration(int64(o.AverageSeconds))),
	}, "\n")
	Panel(w, fmt.Sprintf("Productivity Statistics (%s)", o.Period), body)
}

func Report(w io.Writer, r *services.Report) {
	Overview(w, r.Overview)

	section(w, "By Priority", groupTable(r.ByPriority, "Priority"), len(r.ByPriority))
	section(w, "By Tag", groupTable(r.ByTag, "Tag"), len(r.ByTag))

	days := newTable("Date", "Created", "Completed")
	for _, d := range r.ByDay {
		days.Row(d.Date, strconv.FormatInt(d.Total, 10), strconv.FormatInt(d.Completed, 10))
	}
	section(w, "Tasks By Day", days, len(r.ByDay))

	timeDays := newTable("Date", "Sessions", "Time")
	for _, d := range r.TimeByDay {
		timeDays.Row(d.Date, strconv.FormatInt(d.Sessions, 10), Duration(d.TotalSeconds))
	}
	section(w, "Time By Day", timeDays, len(r.TimeByDay))

	hours := newTable("Hour", "Time")
	for _, h := range r.ByHour {
		hours.Row(fmt.Sprintf("%02d:00", h.Hour), Duration(h.TotalSeconds))
	}
	section(w, "Most Productive Hours", hours, len(r.ByHour))

	tasks := newTable("Task", "Sessions", "Time")
	for _, tt := range r.ByTask {
		title := tt.Title
		if title == "" {
			title = fmt.Sprintf("(deleted task %d)", tt.TaskID)
		}
		tasks.Row(title, strconv.FormatInt(tt.Sessions, 10), Duration(tt.TotalSeconds))
	}
	section(w, "Time By Task", tasks, len(r.ByTask))
}

func groupTable(groups []services.GroupStat, label string) *table.Table {
	t := newTable(label, "Total", "Completed", "Rate")
	for _, g := range groups {
		t.Row(g.Name, strconv.FormatInt(g.Total, 10), strconv.FormatInt(g.Completed, 10), Percent(g.CompletionRate))
	}
	return t
}

func section(w io.Writer, title string, t *table.Table, rows int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	if rows == 0 {
		fmt.Fprintln(w, warnStyle.Render("  no data"))
		return
	}
	fmt.Fprintln(w, t.Render())
}

// Duration formats whole seconds as H:MM:SS.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// Clock formats d as MM:SS.
func Clock(d time.Duration) string {
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return na
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
