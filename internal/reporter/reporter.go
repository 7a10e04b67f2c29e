package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/boqloom/internal/rules"
	"github.com/joshharrison/boqloom/internal/schedule"
	"github.com/joshharrison/boqloom/internal/ui"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var costPrinter = message.NewPrinter(language.English)

// Reporter renders a generated schedule for terminals and machines.
type Reporter struct {
	Result *schedule.Result
	Rules  *rules.Ruleset
}

// New creates a new Reporter.
func New(res *schedule.Result, rs *rules.Ruleset) *Reporter {
	return &Reporter{Result: res, Rules: rs}
}

// PrintSchedule writes the task list grouped by phase.
func (r *Reporter) PrintSchedule(w io.Writer) {
	sum := r.Result.Summary

	fmt.Fprintf(w, "📋 %s\n", ui.BoldCyan("Construction Schedule"))
	fmt.Fprintln(w, ui.Cyan("═════════════════════"))
	fmt.Fprintln(w)
	if sum.StartDate == nil {
		fmt.Fprintln(w, ui.Dim("No BOQ items to schedule."))
		return
	}
	fmt.Fprintf(w, "Start:     %s\n", ui.Bold(sum.StartDate))
	fmt.Fprintf(w, "Finish:    %s %s\n", ui.Bold(sum.EstimatedCompletionDate),
		ui.Dim(fmt.Sprintf("(%d calendar days)", sum.TotalDuration)))
	fmt.Fprintf(w, "Tasks:     %s (%d critical)\n", ui.Bold(sum.NumberOfActivities), sum.NumberOfCriticalActivities)
	fmt.Fprintf(w, "⚡ Critical:  %s\n", ui.BoldYellow(strings.Join(r.Result.CriticalPath, ", ")))
	fmt.Fprintln(w)

	byPhase := make(map[rules.PhaseID][]schedule.Task)
	for _, t := range r.Result.Tasks {
		byPhase[t.Phase] = append(byPhase[t.Phase], t)
	}

	for _, ps := range sum.Phases {
		noun := "tasks"
		if ps.Tasks == 1 {
			noun = "task"
		}
		fmt.Fprintf(w, "%s %s  %s → %s  %s\n",
			ui.PhasePrefix(string(ps.Phase)), ui.BoldWhite(ps.Name),
			ps.StartDate, ps.EndDate,
			ui.Dim(fmt.Sprintf("(%d %s)", ps.Tasks, noun)))
		for _, t := range byPhase[ps.Phase] {
			printTask(w, t)
		}
		fmt.Fprintln(w)
	}
}

func printTask(w io.Writer, t schedule.Task) {
	fmt.Fprintf(w, "  %s %-9s %-40s %s → %s %4s  %s\n",
		ui.CriticalMark(t.IsCritical),
		ui.BoldMagenta(t.ID),
		ui.Truncate(t.Name, 40),
		t.StartDate, t.EndDate,
		fmt.Sprintf("%dd", t.Duration),
		ui.Priority(string(t.Priority)))
}

// JSON returns the machine-readable schedule.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Result, "", "  ")
}

// PrintSummaryReport writes project totals, the per-phase breakdown and any
// buffer or target figures. The output is also returned as a string.
func (r *Reporter) PrintSummaryReport(w io.Writer) string {
	var b strings.Builder
	mw := io.MultiWriter(w, &b)
	sum := r.Result.Summary

	fmt.Fprintf(mw, "\n📊 %s\n", ui.BoldCyan("Schedule Summary"))
	fmt.Fprintf(mw, "%s\n", ui.Cyan("════════════════"))
	fmt.Fprintf(mw, "Activities:     %d (%d critical)\n", sum.NumberOfActivities, sum.NumberOfCriticalActivities)
	fmt.Fprintf(mw, "Duration:       %s\n", ui.Bold(fmt.Sprintf("%d days", sum.TotalDuration)))
	fmt.Fprintf(mw, "Critical span:  %d days\n", sum.CriticalPathDuration)
	if sum.StartDate != nil {
		fmt.Fprintf(mw, "Dates:          %s → %s\n", sum.StartDate, sum.EstimatedCompletionDate)
	}
	fmt.Fprintf(mw, "Total cost:     %s\n", ui.Bold(formatCost(sum.TotalCost)))

	if sum.BufferedCompletionDate != nil {
		fmt.Fprintf(mw, "Buffer:         %d working days, finish %s\n", sum.BufferDays, ui.Bold(sum.BufferedCompletionDate))
	}
	if sum.TargetCompletionDate != nil {
		verdict := ui.BoldGreen("on target")
		if sum.ExceedsTarget {
			verdict = ui.BoldRed("exceeds target")
		}
		fmt.Fprintf(mw, "Target:         %s %s\n", sum.TargetCompletionDate, verdict)
	}

	if len(sum.Phases) > 0 {
		fmt.Fprintln(mw)
		for _, ps := range sum.Phases {
			fmt.Fprintf(mw, "  %-28s %3d tasks %4d days %14s\n",
				ui.Truncate(ps.Name, 28), ps.Tasks, ps.Duration, formatCost(ps.Cost))
		}
	}
	fmt.Fprintf(mw, "%s\n", ui.Cyan("────────────────"))

	return b.String()
}

// formatCost renders an amount with thousands separators and two decimals.
func formatCost(v float64) string {
	return costPrinter.Sprintf("%.2f", v)
}
