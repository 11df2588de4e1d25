// Package metrics derives chart series from the task list. Everything
// here is a pure function of (tasks, now): nothing is cached, so a
// caller always sees aggregates of the list it just mutated.
package metrics

import (
	"strconv"
	"time"

	"github.com/mkondo/cptrack/internal/model"
)

// DailyWindow is the size of the trailing daily series in days.
const DailyWindow = 30

// MonthlyWindow is the size of the trailing monthly series in months.
const MonthlyWindow = 6

// DailyPoint is one calendar day of the completion series.
type DailyPoint struct {
	// Date is the sortable day key, "2006-01-02", in local time.
	Date string
	// Label is the short display form, numeric month/day.
	Label string
	// Completed counts AC tasks whose completion fell on this day.
	Completed int
}

// MonthlyPoint is one calendar month of the progress series.
type MonthlyPoint struct {
	// Month is the display label, e.g. "9月".
	Month string
	// Completed counts AC tasks completed during this month.
	Completed int
	// InProgress is the current 挑戦中 snapshot, attributed to the
	// final bucket only. Earlier months always report 0; see
	// MonthlyHistorical for the corrected variant.
	InProgress int
}

// Summary aggregates the daily series for the stat header.
type Summary struct {
	// TotalCompleted is the number of completions inside the window.
	TotalCompleted int
	// AveragePerActiveDay is completions divided by days with at least
	// one completion, formatted to one decimal. "0" when no day in the
	// window had a completion.
	AveragePerActiveDay string
}

// Daily buckets AC completions into the trailing 30 local calendar
// days ending today, oldest first. Days without completions are
// present with a zero count.
func Daily(tasks []model.Task, now time.Time) []DailyPoint {
	byDay := make(map[string]int)
	for _, t := range tasks {
		if t.Status != model.StatusAccepted || t.CompletionDate == nil {
			continue
		}
		day := t.CompletionDate.Local().Format("2006-01-02")
		byDay[day]++
	}

	today := startOfDay(now.Local())
	points := make([]DailyPoint, 0, DailyWindow)
	for i := DailyWindow - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		points = append(points, DailyPoint{
			Date:      key,
			Label:     day.Format("1/2"),
			Completed: byDay[key],
		})
	}
	return points
}

// Monthly buckets completions into the trailing 6 calendar months
// ending with the current one. The in-progress count is a snapshot of
// the present list, reported only on the current month.
func Monthly(tasks []model.Task, now time.Time) []MonthlyPoint {
	points, _ := monthlyCompleted(tasks, now)

	inProgress := 0
	for _, t := range tasks {
		if t.Status == model.StatusInProgress {
			inProgress++
		}
	}
	points[len(points)-1].InProgress = inProgress

	return points
}

// MonthlyHistorical is the corrected variant of Monthly: instead of a
// present-day snapshot it counts, per month, the tasks that entered
// the list before or during that month and are still unresolved. The
// tracker's progress view keeps the snapshot behaviour; this exists
// for callers that want an honest historical series.
func MonthlyHistorical(tasks []model.Task, now time.Time) []MonthlyPoint {
	points, keys := monthlyCompleted(tasks, now)

	current := monthKey(now.Local())
	for i := range points {
		if keys[i] == current {
			for _, t := range tasks {
				if t.Status == model.StatusInProgress {
					points[i].InProgress++
				}
			}
			continue
		}
		// Past months: a task was "in progress" during that month if it
		// was eventually completed in a later month. Completion dates
		// are the only historical record the data model keeps.
		for _, t := range tasks {
			if t.Status != model.StatusAccepted || t.CompletionDate == nil {
				continue
			}
			if monthKey(t.CompletionDate.Local()) > keys[i] {
				points[i].InProgress++
			}
		}
	}

	return points
}

// Summarize reduces a daily series to its headline numbers.
func Summarize(daily []DailyPoint) Summary {
	total := 0
	activeDays := 0
	for _, p := range daily {
		total += p.Completed
		if p.Completed > 0 {
			activeDays++
		}
	}

	avg := "0"
	if activeDays > 0 {
		avg = strconv.FormatFloat(float64(total)/float64(activeDays), 'f', 1, 64)
	}

	return Summary{
		TotalCompleted:      total,
		AveragePerActiveDay: avg,
	}
}

// monthlyCompleted builds the 6-month completed series with zeroed
// in-progress counts, alongside the sortable "2006-01" key per bucket.
func monthlyCompleted(tasks []model.Task, now time.Time) ([]MonthlyPoint, []string) {
	byMonth := make(map[string]int)
	for _, t := range tasks {
		if t.Status != model.StatusAccepted || t.CompletionDate == nil {
			continue
		}
		byMonth[monthKey(t.CompletionDate.Local())]++
	}

	local := now.Local()
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())
	points := make([]MonthlyPoint, 0, MonthlyWindow)
	keys := make([]string, 0, MonthlyWindow)
	for i := MonthlyWindow - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		key := monthKey(month)
		points = append(points, MonthlyPoint{
			Month:     month.Format("1月"),
			Completed: byMonth[key],
		})
		keys = append(keys, key)
	}
	return points, keys
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
