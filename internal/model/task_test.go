package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusNextFollowsWorkflowOrder(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusNotStarted.Next())
	assert.Equal(t, StatusUnderReview, StatusInProgress.Next())
	assert.Equal(t, StatusAccepted, StatusUnderReview.Next())
	assert.Equal(t, StatusWrongAnswer, StatusAccepted.Next())
	assert.Equal(t, StatusNotStarted, StatusWrongAnswer.Next())
}

func TestStatusNextUnknownRestartsCycle(t *testing.T) {
	assert.Equal(t, StatusNotStarted, Status("??").Next())
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("").Valid())
	assert.False(t, Status("done").Valid())
}

func TestCompleted(t *testing.T) {
	assert.True(t, Task{Status: StatusAccepted}.Completed())
	assert.False(t, Task{Status: StatusWrongAnswer}.Completed())
	assert.False(t, Task{Status: StatusNotStarted}.Completed())
}

func TestDueOn(t *testing.T) {
	due := time.Date(2026, 3, 14, 21, 30, 0, 0, time.Local)
	task := Task{DueDate: &due}

	assert.True(t, task.DueOn(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)))
	assert.False(t, task.DueOn(time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)))
	assert.False(t, Task{}.DueOn(time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)))
}

func TestPlatformValid(t *testing.T) {
	for _, p := range Platforms() {
		assert.True(t, p.Valid(), "platform %q", p)
	}
	assert.False(t, Platform("TopCoder").Valid())
}
