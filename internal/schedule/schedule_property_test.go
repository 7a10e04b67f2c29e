package schedule

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/joshharrison/boqloom/internal/boq"
	"github.com/joshharrison/boqloom/internal/calendar"
	"github.com/joshharrison/boqloom/internal/cpm"
	"github.com/joshharrison/boqloom/internal/graph"
	"github.com/joshharrison/boqloom/internal/rules"
	"pgregory.net/rapid"
)

var descriptions = []string{
	"حفر في تربة عادية",
	"Backfill with selected material",
	"خرسانة مسلحة للأساسات",
	"Pile caps",
	"Reinforced concrete columns",
	"Block wall 200mm",
	"Electrical conduit rough-in",
	"لياسة داخلية",
	"Porcelain floor tile",
	"Paint to walls and ceilings",
	"Aluminium window",
	"Sanitary fixtures",
	"Stone cladding to facade",
	"Asphalt paving",
	"Miscellaneous provisional sum",
}

func genItem(t *rapid.T) boq.Item {
	return boq.Item{
		ID:          fmt.Sprintf("%d", rapid.IntRange(1, 999).Draw(t, "id")),
		Description: rapid.SampledFrom(descriptions).Draw(t, "description"),
		Quantity:    rapid.Float64Range(-50, 5000).Draw(t, "quantity"),
		UnitPrice:   rapid.Float64Range(0, 500).Draw(t, "unitPrice"),
	}
}

func genOptions(t *rapid.T) Options {
	offset := rapid.IntRange(0, 730).Draw(t, "startOffset")
	return Options{
		ProjectStartDate:   calendar.NewDate(2024, time.January, 1).AddDays(offset),
		WorkingDaysPerWeek: rapid.SampledFrom([]int{5, 6, 7}).Draw(t, "week"),
	}
}

func generate(t *rapid.T, items []boq.Item, opts Options) *Result {
	res, err := Generate(items, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return res
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 0, 25).Draw(t, "items")
		opts := genOptions(t)

		a := generate(t, items, opts)
		b := generate(t, items, opts)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("two runs over the same input differ")
		}
	})
}

func TestProperty_TasksFitCalendar(t *testing.T) {
	rs := rules.Default()
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 1, 25).Draw(t, "items")
		opts := genOptions(t)
		cal, err := opts.Calendar()
		if err != nil {
			t.Fatalf("calendar: %v", err)
		}

		res := generate(t, items, opts)
		if len(res.Tasks) != len(items) {
			t.Fatalf("expected %d tasks, got %d", len(items), len(res.Tasks))
		}

		for _, task := range res.Tasks {
			if task.Duration < rules.MinDuration || task.Duration > rules.MaxDuration {
				t.Fatalf("%s: duration %d out of bounds", task.ID, task.Duration)
			}
			if rate, _ := rs.Rate(task.Name); task.Duration != rules.Duration(task.Quantity, rate.Rate) {
				t.Fatalf("%s: duration %d does not match quantity %v at rate %v", task.ID, task.Duration, task.Quantity, rate.Rate)
			}
			if task.Phase != rs.Classify(task.Name) {
				t.Fatalf("%s: phase %s does not match classification", task.ID, task.Phase)
			}
			if !cal.IsWorkingDay(task.StartDate) || !cal.IsWorkingDay(task.EndDate) {
				t.Fatalf("%s: %s..%s touches a non-working day", task.ID, task.StartDate, task.EndDate)
			}
			if task.StartDate.Before(opts.ProjectStartDate) {
				t.Fatalf("%s: starts %s before the project start %s", task.ID, task.StartDate, opts.ProjectStartDate)
			}
			if got := cal.WorkingDaysBetween(task.StartDate, task.EndDate); got != task.Duration {
				t.Fatalf("%s: spans %d working days, want %d", task.ID, got, task.Duration)
			}
		}
	})
}

func TestProperty_DependenciesFinishFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 1, 25).Draw(t, "items")
		opts := genOptions(t)
		cal, err := opts.Calendar()
		if err != nil {
			t.Fatalf("calendar: %v", err)
		}
		res := generate(t, items, opts)

		byID := make(map[string]Task, len(res.Tasks))
		for _, task := range res.Tasks {
			byID[task.ID] = task
		}

		// Tasks come out phase by phase. Each phase starts on the working day
		// after the previous phase's latest finish.
		start := cal.OnOrAfter(opts.ProjectStartDate)
		var phase rules.PhaseID
		var phaseEnd calendar.Date
		for i, task := range res.Tasks {
			if i == 0 || task.Phase != phase {
				if i > 0 {
					start = cal.NextWorkingDay(phaseEnd)
				}
				phase, phaseEnd = task.Phase, task.EndDate
			}
			if !task.StartDate.Equal(start) {
				t.Fatalf("%s (%s) starts %s, want %s", task.ID, task.Phase, task.StartDate, start)
			}
			if task.EndDate.After(phaseEnd) {
				phaseEnd = task.EndDate
			}

			var latest calendar.Date
			for _, dep := range task.Dependencies {
				pred, ok := byID[dep]
				if !ok {
					t.Fatalf("%s: unknown dependency %s", task.ID, dep)
				}
				if pred.EndDate.After(latest) {
					latest = pred.EndDate
				}
			}
			if len(task.Dependencies) > 0 && task.StartDate.Before(cal.NextWorkingDay(latest)) {
				t.Fatalf("%s starts %s, before the working day after its latest dependency ends %s", task.ID, task.StartDate, latest)
			}
		}
	})
}

func TestProperty_CriticalPath(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 1, 25).Draw(t, "items")
		res := generate(t, items, genOptions(t))

		critical := 0
		for _, task := range res.Tasks {
			ts := res.Analysis.Tasks[task.ID]
			if ts.Slack < 0 {
				t.Fatalf("%s: negative slack %d", task.ID, ts.Slack)
			}
			if task.IsCritical != (ts.Slack == 0) {
				t.Fatalf("%s: critical=%v with slack %d", task.ID, task.IsCritical, ts.Slack)
			}
			if task.IsCritical {
				critical++
				if task.Priority != PriorityHigh {
					t.Fatalf("%s: critical task with priority %s", task.ID, task.Priority)
				}
			}
		}
		if critical == 0 || critical != len(res.CriticalPath) {
			t.Fatalf("expected %d ids on the critical path, got %v", critical, res.CriticalPath)
		}
		if res.Summary.NumberOfCriticalActivities != critical {
			t.Fatalf("summary counts %d critical, want %d", res.Summary.NumberOfCriticalActivities, critical)
		}
	})
}

func TestProperty_CriticalChain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 1, 25).Draw(t, "items")
		res := generate(t, items, genOptions(t))

		g, err := TaskGraph(res.Tasks)
		if err != nil {
			t.Fatalf("task graph: %v", err)
		}
		a := res.Analysis

		cur := ""
		for _, task := range res.Tasks {
			if ts := a.Tasks[task.ID]; task.IsCritical && ts.ES == 0 && len(g.RevAdj[task.ID]) == 0 {
				cur = task.ID
				break
			}
		}
		if cur == "" {
			t.Fatalf("no critical root among %v", res.CriticalPath)
		}

		chain := []string{cur}
		for a.Tasks[cur].EF != a.TotalDuration {
			next := ""
			for _, succ := range g.Adj[cur] {
				if ts := a.Tasks[succ]; ts.IsCritical && ts.ES == a.Tasks[cur].EF {
					next = succ
					break
				}
			}
			if next == "" {
				t.Fatalf("critical chain %v breaks at %s (EF %d, project %d)", chain, cur, a.Tasks[cur].EF, a.TotalDuration)
			}
			cur = next
			chain = append(chain, cur)
		}
	})
}

func TestProperty_DroppingSlackTaskKeepsDuration(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 2, 25).Draw(t, "items")
		res := generate(t, items, genOptions(t))

		var slack []string
		for _, task := range res.Tasks {
			if !task.IsCritical {
				slack = append(slack, task.ID)
			}
		}
		if len(slack) == 0 {
			return
		}
		drop := rapid.SampledFrom(slack).Draw(t, "drop")

		g, err := TaskGraph(res.Tasks)
		if err != nil {
			t.Fatalf("task graph: %v", err)
		}
		sub, err := g.Filter(func(n *graph.Node) bool { return n.ID != drop })
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		after, err := cpm.Analyze(sub)
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if after.TotalDuration != res.Analysis.TotalDuration {
			t.Fatalf("dropping %s changed the project length from %d to %d", drop, res.Analysis.TotalDuration, after.TotalDuration)
		}
	})
}

func TestProperty_SummaryMatchesTasks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOfN(rapid.Custom(genItem), 1, 25).Draw(t, "items")
		res := generate(t, items, genOptions(t))

		first, last := res.Tasks[0].StartDate, res.Tasks[0].EndDate
		phaseTasks := 0
		for _, task := range res.Tasks {
			if task.StartDate.Before(first) {
				first = task.StartDate
			}
			if task.EndDate.After(last) {
				last = task.EndDate
			}
		}
		for _, ps := range res.Summary.Phases {
			phaseTasks += ps.Tasks
		}

		if got := first.DaysUntil(last); res.Summary.TotalDuration != got {
			t.Fatalf("total duration %d, want %d", res.Summary.TotalDuration, got)
		}
		if phaseTasks != len(res.Tasks) {
			t.Fatalf("phases account for %d tasks, want %d", phaseTasks, len(res.Tasks))
		}
		if !reflect.DeepEqual(Summarize(res.Tasks, rules.Default()).Phases, res.Summary.Phases) {
			t.Fatalf("re-summarizing changed the phase breakdown")
		}
	})
}
