package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/cptrack/internal/metrics"
	"github.com/mkondo/cptrack/internal/model"
)

var now = time.Date(2026, 9, 1, 15, 0, 0, 0, time.Local)

func acceptedOn(ts time.Time) model.Task {
	return model.Task{
		ID:             ts.Format("20060102150405.000000000"),
		Title:          "solved",
		Status:         model.StatusAccepted,
		CompletionDate: &ts,
	}
}

func TestDailyWindowShape(t *testing.T) {
	daily := metrics.Daily(nil, now)

	require.Len(t, daily, metrics.DailyWindow)
	assert.Equal(t, "2026-08-03", daily[0].Date)
	assert.Equal(t, "2026-09-01", daily[len(daily)-1].Date)
	assert.Equal(t, "9/1", daily[len(daily)-1].Label)
	for _, p := range daily {
		assert.Zero(t, p.Completed)
	}
}

func TestDailyBucketsCompletions(t *testing.T) {
	tasks := []model.Task{
		acceptedOn(time.Date(2026, 9, 1, 0, 30, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 9, 1, 23, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 20, 12, 0, 0, 0, time.Local)),
		// Outside the window: 31 days ago.
		acceptedOn(time.Date(2026, 8, 1, 12, 0, 0, 0, time.Local)),
		// Not AC: never counted, whatever its fields claim.
		{ID: "wa", Status: model.StatusWrongAnswer},
	}

	daily := metrics.Daily(tasks, now)
	byDate := make(map[string]int)
	total := 0
	for _, p := range daily {
		byDate[p.Date] = p.Completed
		total += p.Completed
	}

	assert.Equal(t, 2, byDate["2026-09-01"])
	assert.Equal(t, 1, byDate["2026-08-20"])
	assert.Equal(t, 0, byDate["2026-08-03"])
	assert.Equal(t, 3, total, "completions outside the window are excluded")
}

func TestMonthlyWindowShape(t *testing.T) {
	monthly := metrics.Monthly(nil, now)

	require.Len(t, monthly, metrics.MonthlyWindow)
	assert.Equal(t, "4月", monthly[0].Month)
	assert.Equal(t, "9月", monthly[len(monthly)-1].Month)
}

func TestMonthlySnapshotInProgressOnlyOnCurrentMonth(t *testing.T) {
	tasks := []model.Task{
		acceptedOn(time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)),
		{ID: "p1", Status: model.StatusInProgress},
		{ID: "p2", Status: model.StatusInProgress},
		{ID: "n1", Status: model.StatusNotStarted},
	}

	monthly := metrics.Monthly(tasks, now)
	require.Len(t, monthly, metrics.MonthlyWindow)

	for i, p := range monthly {
		if i == len(monthly)-1 {
			assert.Equal(t, 2, p.InProgress, "current month carries the snapshot")
			assert.Equal(t, 1, p.Completed)
		} else {
			assert.Zero(t, p.InProgress, "past month %s", p.Month)
		}
	}
	assert.Equal(t, 1, monthly[2].Completed, "June bucket")
}

func TestMonthlyHistoricalCountsUnresolvedPerMonth(t *testing.T) {
	tasks := []model.Task{
		// Completed in August: counted as in-progress for April..July.
		acceptedOn(time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local)),
		{ID: "p1", Status: model.StatusInProgress},
	}

	monthly := metrics.MonthlyHistorical(tasks, now)
	require.Len(t, monthly, metrics.MonthlyWindow)

	// April through July predate the August completion.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1, monthly[i].InProgress, "month %s", monthly[i].Month)
	}
	// August: completed during that month, no longer pending after it.
	assert.Zero(t, monthly[4].InProgress)
	assert.Equal(t, 1, monthly[4].Completed)
	// Current month reports the live snapshot.
	assert.Equal(t, 1, monthly[5].InProgress)
}

func TestSummarizeAveragesOverActiveDaysOnly(t *testing.T) {
	tasks := []model.Task{
		acceptedOn(time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 9, 1, 11, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)),
	}

	s := metrics.Summarize(metrics.Daily(tasks, now))
	assert.Equal(t, 4, s.TotalCompleted)
	// 4 completions over 2 active days.
	assert.Equal(t, "2.0", s.AveragePerActiveDay)
}

func TestSummarizeRoundsToOneDecimal(t *testing.T) {
	tasks := []model.Task{
		acceptedOn(time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)),
		acceptedOn(time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)),
	}

	s := metrics.Summarize(metrics.Daily(tasks, now))
	assert.Equal(t, 5, s.TotalCompleted)
	// 5/3 = 1.666..., one decimal.
	assert.Equal(t, "1.7", s.AveragePerActiveDay)
}

func TestSummarizeEmptyWindow(t *testing.T) {
	s := metrics.Summarize(metrics.Daily(nil, now))
	assert.Zero(t, s.TotalCompleted)
	assert.Equal(t, "0", s.AveragePerActiveDay)
}
