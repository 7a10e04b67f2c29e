package schedule

import (
	"fmt"

	"github.com/joshharrison/boqloom/internal/boq"
	"github.com/joshharrison/boqloom/internal/rules"
)

// Generate runs the whole pipeline with the default ruleset.
func Generate(items []boq.Item, opts Options) (*Result, error) {
	s, err := New(rules.Default())
	if err != nil {
		return nil, err
	}
	return s.Generate(items, opts)
}

// Generate builds the tasks, marks the critical path and summarizes the
// result. It returns either a complete schedule or an error, never a
// partial one.
func (s *Scheduler) Generate(items []boq.Item, opts Options) (*Result, error) {
	tasks, err := s.Build(items, opts)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	analysis, err := MarkCritical(tasks)
	if err != nil {
		return nil, err
	}

	cal, err := opts.Calendar()
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	sum := Summarize(tasks, s.rules)
	applyTargets(&sum, cal, opts)

	path := append([]string{}, analysis.CriticalPath...)
	s.log.WithField("tasks", len(tasks)).
		WithField("critical", len(path)).
		WithField("total_days", sum.TotalDuration).
		Debug("schedule generated")

	return &Result{
		Tasks:        tasks,
		Summary:      sum,
		CriticalPath: path,
		Analysis:     analysis,
	}, nil
}
