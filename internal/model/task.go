package model

import "time"

// Status is the workflow state of a practice problem. Values are the
// display strings the tracker has always stored, so existing data
// loads unchanged.
type Status string

const (
	StatusNotStarted  Status = "未着手"
	StatusInProgress  Status = "挑戦中"
	StatusUnderReview Status = "解答確認中"
	StatusAccepted    Status = "AC"
	StatusWrongAnswer Status = "WA"
)

// statusCycle is the fixed order used by CycleStatus:
// 未着手 → 挑戦中 → 解答確認中 → AC → WA → 未着手.
var statusCycle = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusUnderReview,
	StatusAccepted,
	StatusWrongAnswer,
}

// Statuses returns every status in workflow order.
func Statuses() []Status {
	out := make([]Status, len(statusCycle))
	copy(out, statusCycle)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range statusCycle {
		if s == known {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the fixed cycle.
// Unknown statuses restart at 未着手.
func (s Status) Next() Status {
	for i, known := range statusCycle {
		if s == known {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusNotStarted
}

// Platform identifies the judge site hosting a problem.
type Platform string

const (
	PlatformAtCoder    Platform = "AtCoder"
	PlatformCodeforces Platform = "Codeforces"
	PlatformLeetCode   Platform = "LeetCode"
	PlatformYukicoder  Platform = "yukicoder"
	PlatformAOJ        Platform = "AOJ"
)

// Platforms returns the known judge platforms.
func Platforms() []Platform {
	return []Platform{
		PlatformAtCoder,
		PlatformCodeforces,
		PlatformLeetCode,
		PlatformYukicoder,
		PlatformAOJ,
	}
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// Difficulty is a coarse difficulty label.
type Difficulty string

const (
	DifficultyStar1  Difficulty = "★1"
	DifficultyStar2  Difficulty = "★2"
	DifficultyStar3  Difficulty = "★3"
	DifficultyStar4  Difficulty = "★4"
	DifficultyStar5  Difficulty = "★5"
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties returns the known difficulty labels, stars first.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyStar1, DifficultyStar2, DifficultyStar3,
		DifficultyStar4, DifficultyStar5,
		DifficultyEasy, DifficultyMedium, DifficultyHard,
	}
}

// Task is a single practice problem being tracked.
type Task struct {
	// ID is the stable unique identifier, assigned at creation.
	ID string `json:"id"`

	// Title is the problem name. Required, never empty.
	Title string `json:"title"`

	// Description is optional free text about the problem.
	Description string `json:"description"`

	// SolutionNotes holds the user's write-up of their approach.
	SolutionNotes string `json:"solutionNotes,omitempty"`

	// Status is the workflow state (use the Status* constants).
	Status Status `json:"status"`

	// Difficulty is the coarse difficulty label.
	Difficulty Difficulty `json:"difficulty"`

	// Platform is the judge site hosting the problem.
	Platform Platform `json:"platform"`

	// DueDate is an optional target instant for attempting the problem.
	DueDate *time.Time `json:"dueDate,omitempty"`

	// EstimatedTime is a free-form time-budget label ("30m", "2h", ...).
	EstimatedTime string `json:"estimatedTime,omitempty"`

	// Tags are free-form labels. They are not foreign keys into the
	// category list.
	Tags []string `json:"tags,omitempty"`

	// ProblemURL links to the problem statement.
	ProblemURL string `json:"problemUrl,omitempty"`

	// CompletionDate is set exactly when Status is AC and is cleared on
	// any transition out of AC. The repository maintains this; nothing
	// else writes it.
	CompletionDate *time.Time `json:"completionDate,omitempty"`
}

// Completed reports whether the task is solved.
func (t Task) Completed() bool {
	return t.Status == StatusAccepted
}

// DueOn reports whether the task's due date falls on the given local
// calendar day.
func (t Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	d := t.DueDate.Local()
	return d.Year() == day.Year() && d.YearDay() == day.YearDay()
}
