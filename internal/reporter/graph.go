package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/boqloom/internal/graph"
	"github.com/joshharrison/boqloom/internal/rules"
	"github.com/joshharrison/boqloom/internal/schedule"
	"github.com/joshharrison/boqloom/internal/ui"
)

// Level selects what the nodes of a rendered graph stand for.
type Level string

const (
	TaskLevel  Level = "tasks"
	PhaseLevel Level = "phases"
)

// GraphView is a dependency graph ready for rendering. Order lists the node
// ids in schedule order; Critical marks nodes on the critical path.
type GraphView struct {
	Graph    *graph.TaskGraph
	Order    []string
	Critical map[string]bool
}

// Graph builds the view of the schedule at the given level. A phase is
// critical when any of its tasks is.
func (r *Reporter) Graph(level Level) (*GraphView, error) {
	switch level {
	case TaskLevel, "":
		g, err := schedule.TaskGraph(r.Result.Tasks)
		if err != nil {
			return nil, fmt.Errorf("build task graph: %w", err)
		}
		v := &GraphView{Graph: g, Critical: make(map[string]bool)}
		for _, t := range r.Result.Tasks {
			v.Order = append(v.Order, t.ID)
			v.Critical[t.ID] = t.IsCritical
		}
		return v, nil

	case PhaseLevel:
		used := make(map[string]bool)
		v := &GraphView{Critical: make(map[string]bool)}
		for _, ps := range r.Result.Summary.Phases {
			used[string(ps.Phase)] = true
			v.Order = append(v.Order, string(ps.Phase))
		}
		for _, t := range r.Result.Tasks {
			if t.IsCritical {
				v.Critical[string(t.Phase)] = true
			}
		}
		g, err := r.Rules.PhaseGraph().Filter(func(n *graph.Node) bool { return used[n.ID] })
		if err != nil {
			return nil, fmt.Errorf("build phase graph: %w", err)
		}
		for _, ps := range r.Result.Summary.Phases {
			if n, ok := g.Tasks[string(ps.Phase)]; ok {
				n.Duration = ps.Duration
			}
		}
		v.Graph = g
		return v, nil
	}
	return nil, fmt.Errorf("unsupported graph level %q (use tasks or phases)", level)
}

// KeepPhases narrows the view to nodes in the given phases. Task nodes are
// matched on their phase, phase nodes on their id.
func (v *GraphView) KeepPhases(phases []rules.PhaseID) error {
	if len(phases) == 0 {
		return nil
	}
	keep := make(map[string]bool, len(phases))
	for _, p := range phases {
		keep[string(p)] = true
	}
	g, err := v.Graph.Filter(func(n *graph.Node) bool {
		return keep[n.ID] || keep[n.Group]
	})
	if err != nil {
		return err
	}
	order := make([]string, 0, len(v.Order))
	for _, id := range v.Order {
		if _, ok := g.Tasks[id]; ok {
			order = append(order, id)
		}
	}
	v.Graph, v.Order = g, order
	return nil
}

// PrintDOT writes the graph in Graphviz format. Critical nodes and the edges
// between them are drawn red.
func (v *GraphView) PrintDOT(w io.Writer) {
	fmt.Fprintln(w, "digraph boqloom {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")
	fmt.Fprintln(w)

	for _, id := range v.Order {
		n := v.Graph.Tasks[id]
		label := fmt.Sprintf("%s\\n%s\\n%dd", id, escapeDOT(n.Title), n.Duration)
		attrs := fmt.Sprintf(`label="%s"`, label)
		if v.Critical[id] {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(w, "  %q [%s];\n", id, attrs)
	}

	fmt.Fprintln(w)

	for _, from := range v.Order {
		for _, to := range v.Graph.Adj[from] {
			style := ""
			if v.Critical[from] && v.Critical[to] {
				style = ` [color=red, penwidth=2]`
			}
			fmt.Fprintf(w, "  %q -> %q%s;\n", from, to, style)
		}
	}

	fmt.Fprintln(w, "}")
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// PrintASCII writes every node followed by the nodes that wait on it.
func (v *GraphView) PrintASCII(w io.Writer) {
	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("════════════════"))
	fmt.Fprintln(w)

	group := ""
	for _, id := range v.Order {
		n := v.Graph.Tasks[id]
		if n.Group != "" && n.Group != group {
			group = n.Group
			fmt.Fprintf(w, "%s %s %s\n", ui.Cyan("──"), ui.PhasePrefix(group), ui.Cyan("──────────────────────────────"))
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", ui.CriticalMark(v.Critical[id]), ui.BoldMagenta(id), n.Title)

		for _, next := range v.Graph.Adj[id] {
			fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(next))
		}
	}
	fmt.Fprintln(w)
}
