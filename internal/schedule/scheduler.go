// Package schedule turns BOQ items into a phased, dependency-linked
// construction schedule and marks its critical path.
//
// Generation is a pure function of the items, the options and the ruleset:
// no clock reads, no shared mutable state, so independent projects can be
// scheduled concurrently with the same Scheduler.
package schedule

import (
	"fmt"
	"io"

	"github.com/joshharrison/boqloom/internal/boq"
	"github.com/joshharrison/boqloom/internal/rules"
	"github.com/sirupsen/logrus"
)

// Scheduler places BOQ items on a calendar using a ruleset.
type Scheduler struct {
	rules *rules.Ruleset
	log   logrus.FieldLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger routes debug output about phase placement to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// New validates rs and returns a Scheduler that uses it.
func New(rs *rules.Ruleset, opts ...Option) (*Scheduler, error) {
	if rs == nil {
		return nil, fmt.Errorf("%w: nil ruleset", rules.ErrInvalidRules)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	s := &Scheduler{rules: rs, log: quiet}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Rules returns the ruleset the scheduler was built with.
func (s *Scheduler) Rules() *rules.Ruleset {
	return s.rules
}

// Build creates one task per item.
//
// Items are grouped by phase and phases run back to back in ruleset order.
// Every task in a phase starts on the same day; the next phase starts on the
// first working day after the phase's latest finish. Each task then depends
// on the last task created in each of its phase's prerequisite phases, a
// single gate per phase rather than every task of it.
func (s *Scheduler) Build(items []boq.Item, opts Options) ([]Task, error) {
	if opts.ProjectStartDate.IsZero() {
		return nil, ErrMissingStartDate
	}
	cal, err := opts.Calendar()
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	groups := make(map[rules.PhaseID][]boq.Item)
	for _, it := range items {
		phase := s.rules.Classify(it.Description)
		groups[phase] = append(groups[phase], it)
	}

	tasks := make([]Task, 0, len(items))
	lastInPhase := make(map[rules.PhaseID]string)
	cursor := cal.OnOrAfter(opts.ProjectStartDate)

	for _, phase := range s.rules.Phases {
		group := groups[phase.ID]
		if len(group) == 0 {
			continue
		}

		phaseEnd := cursor
		for _, it := range group {
			est := s.rules.Estimate(it.Quantity, it.Description)
			span := cal.Advance(cursor, est.Days)
			tasks = append(tasks, Task{
				ID:           fmt.Sprintf("task-%d", len(tasks)+1),
				Name:         it.Description,
				ItemID:       it.ID,
				Phase:        phase.ID,
				StartDate:    span.Start,
				EndDate:      span.End,
				Duration:     est.Days,
				Status:       StatusPlanned,
				Priority:     PriorityMedium,
				Dependencies: []string{},
				Quantity:     it.Quantity,
				Unit:         it.Unit,
				Cost:         it.Cost(),
			})
			if span.End.After(phaseEnd) {
				phaseEnd = span.End
			}
		}
		lastInPhase[phase.ID] = tasks[len(tasks)-1].ID

		s.log.WithFields(logrus.Fields{
			"phase": phase.ID,
			"tasks": len(group),
			"start": cursor.String(),
			"end":   phaseEnd.String(),
		}).Debug("placed phase")

		cursor = cal.NextWorkingDay(phaseEnd)
	}

	for i := range tasks {
		phase, _ := s.rules.Phase(tasks[i].Phase)
		for _, dep := range phase.DependsOn {
			if id, ok := lastInPhase[dep]; ok {
				tasks[i].Dependencies = append(tasks[i].Dependencies, id)
			}
		}
	}

	return tasks, nil
}
