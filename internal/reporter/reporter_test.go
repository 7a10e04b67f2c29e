package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/joshharrison/boqloom/internal/boq"
	"github.com/joshharrison/boqloom/internal/calendar"
	"github.com/joshharrison/boqloom/internal/rules"
	"github.com/joshharrison/boqloom/internal/schedule"
)

func init() {
	color.NoColor = true
}

func makeReporter(t *testing.T, items []boq.Item, opts schedule.Options) *Reporter {
	t.Helper()
	if opts.ProjectStartDate.IsZero() {
		opts.ProjectStartDate = calendar.NewDate(2024, time.January, 7)
	}
	rs := rules.Default()
	s, err := schedule.New(rs)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	res, err := s.Generate(items, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return New(res, rs)
}

func twoPhaseItems() []boq.Item {
	return []boq.Item{
		{ID: "1", Description: "حفر في تربة عادية", Quantity: 100, Total: 1234.5},
		{ID: "2", Description: "Footings", Quantity: 10, Total: 500},
	}
}

func TestPrintSchedule(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	var buf bytes.Buffer
	rpt.PrintSchedule(&buf)
	output := buf.String()

	for _, want := range []string{
		"Construction Schedule",
		"[excavation] Excavation & Earthworks",
		"[foundation] Foundations",
		"task-1",
		"2024-01-07 → 2024-01-09",
		"2024-01-10 → 2024-01-11",
		"⚡ Critical:  task-1, task-2",
		"(1 task)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}
	if !strings.Contains(output, "⚡") {
		t.Error("expected critical marker")
	}
}

func TestPrintSchedule_ParallelCriticalTasks(t *testing.T) {
	items := make([]boq.Item, 10)
	for i := range items {
		items[i] = boq.Item{ID: fmt.Sprint(i + 1), Description: "Excavation", Quantity: 100}
	}
	rpt := makeReporter(t, items, schedule.Options{})

	var buf bytes.Buffer
	rpt.PrintSchedule(&buf)
	output := buf.String()

	want := "⚡ Critical:  task-1, task-2, task-3, task-4, task-5, task-6, task-7, task-8, task-9, task-10\n"
	if !strings.Contains(output, want) {
		t.Errorf("expected critical tasks in creation order without arrows\n%s", output)
	}
}

func TestPrintSchedule_Empty(t *testing.T) {
	rpt := makeReporter(t, nil, schedule.Options{})

	var buf bytes.Buffer
	rpt.PrintSchedule(&buf)
	if !strings.Contains(buf.String(), "No BOQ items to schedule.") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

func TestPrintSummaryReport(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{
		IncludeBuffers:        true,
		BufferPercentage:      50,
		ProjectDurationMonths: 1,
	})

	var buf bytes.Buffer
	captured := rpt.PrintSummaryReport(&buf)
	output := buf.String()

	if captured != output {
		t.Error("expected returned string to match written output")
	}
	for _, want := range []string{
		"Schedule Summary",
		"Activities:     2 (2 critical)",
		"Total cost:     1,734.50",
		"Buffer:",
		"on target",
		"Excavation & Earthworks",
		"1,234.50",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected summary to contain %q\n%s", want, output)
		}
	}
}

func TestJSON(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	data, err := rpt.JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out struct {
		Tasks []struct {
			ID           string   `json:"id"`
			StartDate    string   `json:"startDate"`
			Dependencies []string `json:"dependencies"`
			IsCritical   bool     `json:"isCritical"`
		} `json:"tasks"`
		Summary struct {
			TotalDuration int     `json:"totalDuration"`
			TotalCost     float64 `json:"totalCost"`
		} `json:"summary"`
		CriticalPath []string `json:"criticalPath"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(out.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(out.Tasks))
	}
	if out.Tasks[0].StartDate != "2024-01-07" {
		t.Errorf("expected ISO start date, got %q", out.Tasks[0].StartDate)
	}
	if len(out.Tasks[1].Dependencies) != 1 || out.Tasks[1].Dependencies[0] != "task-1" {
		t.Errorf("unexpected dependencies %v", out.Tasks[1].Dependencies)
	}
	if out.Summary.TotalDuration != 4 || out.Summary.TotalCost != 1734.5 {
		t.Errorf("unexpected summary %+v", out.Summary)
	}
	if len(out.CriticalPath) != 2 {
		t.Errorf("expected 2 critical ids, got %v", out.CriticalPath)
	}
	if strings.Contains(string(data), "TopoOrder") {
		t.Error("analysis internals should not be serialized")
	}
}

func TestGraph_TaskDOT(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	v, err := rpt.Graph(TaskLevel)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	var buf bytes.Buffer
	v.PrintDOT(&buf)
	output := buf.String()

	if !strings.HasPrefix(output, "digraph boqloom {") {
		t.Errorf("expected digraph header, got %q", output)
	}
	if !strings.Contains(output, `"task-1" -> "task-2" [color=red, penwidth=2];`) {
		t.Errorf("expected critical edge\n%s", output)
	}
	if !strings.Contains(output, `Footings\n1d`) {
		t.Errorf("expected label with duration\n%s", output)
	}
}

func TestGraph_PhaseLevel(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	v, err := rpt.Graph(PhaseLevel)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if v.Graph.TaskCount() != 2 {
		t.Fatalf("expected only phases with tasks, got %d nodes", v.Graph.TaskCount())
	}
	if got := v.Graph.Tasks["excavation"].Duration; got != 2 {
		t.Errorf("expected excavation phase duration 2, got %d", got)
	}

	var buf bytes.Buffer
	v.PrintDOT(&buf)
	if !strings.Contains(buf.String(), `"excavation" -> "foundation"`) {
		t.Errorf("expected phase edge\n%s", buf.String())
	}
}

func TestGraph_KeepPhases(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	v, err := rpt.Graph(TaskLevel)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if err := v.KeepPhases([]rules.PhaseID{rules.Foundation}); err != nil {
		t.Fatalf("keep phases: %v", err)
	}
	if len(v.Order) != 1 || v.Order[0] != "task-2" {
		t.Errorf("expected only task-2, got %v", v.Order)
	}

	var buf bytes.Buffer
	v.PrintASCII(&buf)
	output := buf.String()
	if strings.Contains(output, "task-1") {
		t.Errorf("filtered task should not be printed\n%s", output)
	}
	if !strings.Contains(output, "[foundation]") || !strings.Contains(output, "[task-2] Footings") {
		t.Errorf("expected phase header and task line\n%s", output)
	}
}

func TestGraph_ASCIIEdges(t *testing.T) {
	rpt := makeReporter(t, twoPhaseItems(), schedule.Options{})

	v, err := rpt.Graph(TaskLevel)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	var buf bytes.Buffer
	v.PrintASCII(&buf)
	if !strings.Contains(buf.String(), "└──→ task-2") {
		t.Errorf("expected edge line\n%s", buf.String())
	}
}

func TestGraph_UnsupportedLevel(t *testing.T) {
	rpt := makeReporter(t, nil, schedule.Options{})
	if _, err := rpt.Graph("items"); err == nil {
		t.Error("expected error for unknown level")
	}
}
