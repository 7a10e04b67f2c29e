// Package calendar maps working-day counts onto calendar dates.
//
// The default policies follow the Gulf working week, where Friday is the
// weekly rest day and Saturday is the second day off on a five-day week.
// Other locales pass their own weekend set to NewWithWeekend.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnsupportedWeek is returned for working-week sizes other than 5, 6 or 7.
var ErrUnsupportedWeek = errors.New("unsupported working days per week")

// DefaultWorkingDaysPerWeek is used when the caller leaves the week size unset.
const DefaultWorkingDaysPerWeek = 6

// Calendar decides which weekdays count as working days.
// The zero value treats every day as a working day.
type Calendar struct {
	weekend [7]bool
}

// Span is the first and last day of a block of work.
type Span struct {
	Start Date
	End   Date
}

// New returns the calendar for a 5, 6 or 7 day working week.
// A value of 0 selects DefaultWorkingDaysPerWeek.
func New(workingDaysPerWeek int) (Calendar, error) {
	switch workingDaysPerWeek {
	case 0, 6:
		return NewWithWeekend(time.Friday)
	case 7:
		return NewWithWeekend()
	case 5:
		return NewWithWeekend(time.Friday, time.Saturday)
	default:
		return Calendar{}, fmt.Errorf("%w: %d (use 5, 6 or 7)", ErrUnsupportedWeek, workingDaysPerWeek)
	}
}

// NewWithWeekend returns a calendar that skips the given weekdays.
func NewWithWeekend(weekend ...time.Weekday) (Calendar, error) {
	var c Calendar
	for _, wd := range weekend {
		if wd < time.Sunday || wd > time.Saturday {
			return Calendar{}, fmt.Errorf("invalid weekday %d", wd)
		}
		c.weekend[wd] = true
	}
	if c.WorkingDaysPerWeek() == 0 {
		return Calendar{}, fmt.Errorf("%w: every weekday is marked as weekend", ErrUnsupportedWeek)
	}
	return c, nil
}

// WorkingDaysPerWeek returns how many weekdays are working days.
func (c Calendar) WorkingDaysPerWeek() int {
	n := 0
	for _, off := range c.weekend {
		if !off {
			n++
		}
	}
	return n
}

// Weekend returns the skipped weekdays in Sunday-first order.
func (c Calendar) Weekend() []time.Weekday {
	var days []time.Weekday
	for wd, off := range c.weekend {
		if off {
			days = append(days, time.Weekday(wd))
		}
	}
	return days
}

// IsWorkingDay reports whether d counts toward a duration.
func (c Calendar) IsWorkingDay(d Date) bool {
	return !c.weekend[d.Weekday()]
}

// Advance places a block of n working days that begins on start.
// Counting starts the day after start; End is the day on which the n-th
// working day was counted. For n <= 0 the span is the single day start.
func (c Calendar) Advance(start Date, n int) Span {
	end := start
	for counted := 0; counted < n; {
		end = end.AddDays(1)
		if c.IsWorkingDay(end) {
			counted++
		}
	}
	return Span{Start: start, End: end}
}

// NextWorkingDay returns the first working day strictly after d.
func (c Calendar) NextWorkingDay(d Date) Date {
	return c.Advance(d, 1).End
}

// OnOrAfter returns d if it is a working day, else the next working day.
func (c Calendar) OnOrAfter(d Date) Date {
	if c.IsWorkingDay(d) {
		return d
	}
	return c.NextWorkingDay(d)
}

// WorkingDaysBetween counts working days in the half-open range (from, to].
func (c Calendar) WorkingDaysBetween(from, to Date) int {
	n := 0
	for d := from.AddDays(1); !d.After(to); d = d.AddDays(1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}

// ParseWeekdays parses weekday names such as "friday" or "Sat".
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	var days []time.Weekday
	for _, name := range names {
		wd, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) >= 3 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			full := strings.ToLower(wd.String())
			if n == full || n == full[:3] {
				return wd, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
