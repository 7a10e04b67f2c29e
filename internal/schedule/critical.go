package schedule

import (
	"fmt"

	"github.com/joshharrison/boqloom/internal/cpm"
	"github.com/joshharrison/boqloom/internal/graph"
)

// TaskGraph builds the dependency graph of tasks, one node per task.
func TaskGraph(tasks []Task) (*graph.TaskGraph, error) {
	nodes := make([]graph.Node, len(tasks))
	for i, t := range tasks {
		nodes[i] = graph.Node{
			ID:        t.ID,
			Title:     t.Name,
			Group:     string(t.Phase),
			Duration:  t.Duration,
			DependsOn: t.Dependencies,
		}
	}
	return graph.Build(nodes)
}

// MarkCritical runs the critical path analysis over tasks and flags every
// zero-slack task as critical with high priority. Dates are left untouched.
func MarkCritical(tasks []Task) (*cpm.CPMResult, error) {
	g, err := TaskGraph(tasks)
	if err != nil {
		return nil, fmt.Errorf("build task graph: %w", err)
	}

	result, err := cpm.Analyze(g)
	if err != nil {
		return nil, fmt.Errorf("CPM analysis: %w", err)
	}

	for i := range tasks {
		if ts, ok := result.Tasks[tasks[i].ID]; ok && ts.IsCritical {
			tasks[i].IsCritical = true
			tasks[i].Priority = PriorityHigh
		}
	}
	return result, nil
}
