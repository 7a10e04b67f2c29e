package schedule

import (
	"errors"
	"time"

	"github.com/joshharrison/boqloom/internal/calendar"
	"github.com/joshharrison/boqloom/internal/cpm"
	"github.com/joshharrison/boqloom/internal/rules"
)

// ErrMissingStartDate is returned when Options carries no project start date.
var ErrMissingStartDate = errors.New("project start date is required")

// Status of a scheduled task. Generated tasks are always planned.
type Status string

const StatusPlanned Status = "planned"

// Priority of a scheduled task. Critical tasks are raised to high.
type Priority string

const (
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Options controls a single schedule generation.
type Options struct {
	ProjectStartDate calendar.Date
	// WorkingDaysPerWeek selects the Gulf week policy: 5, 6 or 7 (0 means 6).
	WorkingDaysPerWeek int
	// Weekend, when non-empty, replaces the WorkingDaysPerWeek policy.
	Weekend []time.Weekday

	WorkingHoursPerDay    float64 // recorded only; durations are in days
	ProjectDurationMonths int     // target used to flag overruns in the summary
	IncludeBuffers        bool
	BufferPercentage      float64
}

// Calendar returns the working-day calendar selected by o.
func (o Options) Calendar() (calendar.Calendar, error) {
	if len(o.Weekend) > 0 {
		return calendar.NewWithWeekend(o.Weekend...)
	}
	return calendar.New(o.WorkingDaysPerWeek)
}

// Task is one scheduled activity, created from exactly one BOQ item.
type Task struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ItemID       string        `json:"itemId"`
	Phase        rules.PhaseID `json:"phase"`
	StartDate    calendar.Date `json:"startDate"`
	EndDate      calendar.Date `json:"endDate"`
	Duration     int           `json:"duration"`
	Progress     int           `json:"progress"`
	Status       Status        `json:"status"`
	Assignee     string        `json:"assignee"`
	Priority     Priority      `json:"priority"`
	Dependencies []string      `json:"dependencies"`
	Quantity     float64       `json:"quantity"`
	Unit         string        `json:"unit"`
	Cost         float64       `json:"cost"`
	IsCritical   bool          `json:"isCritical"`
}

// PhaseSummary aggregates the tasks of one phase.
type PhaseSummary struct {
	Phase     rules.PhaseID `json:"phase"`
	Name      string        `json:"name"`
	Duration  int           `json:"duration"` // calendar days from first start to last end
	Tasks     int           `json:"tasks"`
	StartDate calendar.Date `json:"startDate"`
	EndDate   calendar.Date `json:"endDate"`
	Cost      float64       `json:"cost"`
}

// Summary is the project-level view of a schedule.
type Summary struct {
	TotalDuration              int            `json:"totalDuration"`        // calendar days
	CriticalPathDuration       int            `json:"criticalPathDuration"` // calendar days spanned by critical tasks
	NumberOfActivities         int            `json:"numberOfActivities"`
	NumberOfCriticalActivities int            `json:"numberOfCriticalActivities"`
	StartDate                  *calendar.Date `json:"startDate,omitempty"`
	EstimatedCompletionDate    *calendar.Date `json:"estimatedCompletionDate,omitempty"`
	TotalCost                  float64        `json:"totalCost"`
	Phases                     []PhaseSummary `json:"phases"`

	BufferDays             int            `json:"bufferDays,omitempty"`
	BufferedCompletionDate *calendar.Date `json:"bufferedCompletionDate,omitempty"`
	TargetCompletionDate   *calendar.Date `json:"targetCompletionDate,omitempty"`
	ExceedsTarget          bool           `json:"exceedsTarget,omitempty"`
}

// Result is everything one generation produces.
type Result struct {
	Tasks        []Task         `json:"tasks"`
	Summary      Summary        `json:"summary"`
	CriticalPath []string       `json:"criticalPath"`
	Analysis     *cpm.CPMResult `json:"-"`
}
