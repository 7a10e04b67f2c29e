package schedule

import (
	"math"

	"github.com/joshharrison/boqloom/internal/calendar"
	"github.com/joshharrison/boqloom/internal/rules"
)

type span struct {
	start, end calendar.Date
	set        bool
}

func (s *span) add(start, end calendar.Date) {
	if !s.set {
		s.start, s.end, s.set = start, end, true
		return
	}
	if start.Before(s.start) {
		s.start = start
	}
	if end.After(s.end) {
		s.end = end
	}
}

func (s span) days() int {
	if !s.set {
		return 0
	}
	return s.start.DaysUntil(s.end)
}

// Summarize aggregates tasks into project and per-phase figures. Phases are
// listed in rs order; phases without tasks are omitted.
func Summarize(tasks []Task, rs *rules.Ruleset) Summary {
	var (
		project, critical span
		sum               = Summary{Phases: []PhaseSummary{}}
		byPhase           = make(map[rules.PhaseID]*PhaseSummary)
		phaseSpan         = make(map[rules.PhaseID]*span)
	)

	for _, t := range tasks {
		project.add(t.StartDate, t.EndDate)
		sum.NumberOfActivities++
		sum.TotalCost += t.Cost
		if t.IsCritical {
			critical.add(t.StartDate, t.EndDate)
			sum.NumberOfCriticalActivities++
		}

		ps, ok := byPhase[t.Phase]
		if !ok {
			ps = &PhaseSummary{Phase: t.Phase, Name: rs.PhaseName(t.Phase)}
			byPhase[t.Phase] = ps
			phaseSpan[t.Phase] = &span{}
		}
		ps.Tasks++
		ps.Cost += t.Cost
		phaseSpan[t.Phase].add(t.StartDate, t.EndDate)
	}

	sum.TotalDuration = project.days()
	sum.CriticalPathDuration = critical.days()
	if project.set {
		start, end := project.start, project.end
		sum.StartDate = &start
		sum.EstimatedCompletionDate = &end
	}

	for _, id := range rs.Order() {
		ps, ok := byPhase[id]
		if !ok {
			continue
		}
		sp := phaseSpan[id]
		ps.StartDate, ps.EndDate = sp.start, sp.end
		ps.Duration = sp.days()
		sum.Phases = append(sum.Phases, *ps)
	}
	return sum
}

// applyTargets adds the buffer and target-date figures requested in opts.
func applyTargets(sum *Summary, cal calendar.Calendar, opts Options) {
	if sum.StartDate == nil {
		return
	}
	start, end := *sum.StartDate, *sum.EstimatedCompletionDate

	if opts.IncludeBuffers && opts.BufferPercentage > 0 {
		work := cal.WorkingDaysBetween(start, end)
		sum.BufferDays = int(math.Ceil(float64(work) * opts.BufferPercentage / 100))
		buffered := cal.Advance(end, sum.BufferDays).End
		sum.BufferedCompletionDate = &buffered
	}

	if opts.ProjectDurationMonths > 0 {
		target := calendar.DateOf(opts.ProjectStartDate.AddDate(0, opts.ProjectDurationMonths, 0))
		sum.TargetCompletionDate = &target
		finish := end
		if sum.BufferedCompletionDate != nil {
			finish = *sum.BufferedCompletionDate
		}
		sum.ExceedsTarget = finish.After(target)
	}
}
