package cpm

// CPMResult holds the complete critical path analysis.
type CPMResult struct {
	Tasks         map[string]*TaskSchedule
	CriticalPath  []string // critical task ids in topological order
	TotalDuration int      // project finish, in working days from project start
	TopoOrder     []string
}

// TaskSchedule holds the scheduling info for a single task.
// All values are working-day offsets from project start.
type TaskSchedule struct {
	TaskID     string
	Duration   int
	ES, EF     int // earliest start/finish
	LS, LF     int // latest start/finish
	Slack      int
	IsCritical bool
}
