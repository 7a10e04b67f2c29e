package graph

import (
	"fmt"
	"sort"
)

// Build constructs a TaskGraph from nodes and their DependsOn edges.
// Dependencies on ids outside the node set are ignored.
func Build(nodes []Node) (*TaskGraph, error) {
	g := &TaskGraph{
		Tasks:  make(map[string]*Node, len(nodes)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	// Index all nodes
	for i := range nodes {
		n := nodes[i]
		if _, dup := g.Tasks[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		n.DependsOn = append([]string(nil), n.DependsOn...)
		g.Tasks[n.ID] = &n
		g.Order = append(g.Order, n.ID)
	}

	edgeSet := make(map[[2]string]bool)
	addEdge := func(from, to string) {
		key := [2]string{from, to}
		if edgeSet[key] {
			return
		}
		edgeSet[key] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	for id, n := range g.Tasks {
		for _, dep := range n.DependsOn {
			if _, ok := g.Tasks[dep]; ok {
				addEdge(dep, id)
			}
		}
	}

	// Sort adjacency lists for deterministic ordering
	for k := range g.Adj {
		sort.Strings(g.Adj[k])
	}
	for k := range g.RevAdj {
		sort.Strings(g.RevAdj[k])
	}

	for id := range g.Tasks {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, fmt.Errorf("dependency cycle detected: %v", cycle)
	}

	return g, nil
}

// DetectCycle returns the cycle path if one exists, or nil if the graph is acyclic.
// Uses DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				// walk parents back to the re-entered node
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Tasks))
	for id := range g.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TaskCount returns the number of nodes in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// IDs returns every node id in insertion order. Nodes missing from Order
// follow, sorted by id.
func (g *TaskGraph) IDs() []string {
	ids := make([]string, 0, len(g.Tasks))
	seen := make(map[string]bool, len(g.Tasks))
	for _, id := range g.Order {
		if _, ok := g.Tasks[id]; ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	var rest []string
	for id := range g.Tasks {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// SortByOrder sorts ids by their position in IDs.
func (g *TaskGraph) SortByOrder(ids []string) {
	pos := make(map[string]int, len(g.Tasks))
	for i, id := range g.IDs() {
		pos[id] = i
	}
	sort.SliceStable(ids, func(i, j int) bool {
		pi, iok := pos[ids[i]]
		pj, jok := pos[ids[j]]
		if iok && jok {
			return pi < pj
		}
		if iok != jok {
			return iok
		}
		return ids[i] < ids[j]
	})
}

// Filter returns a new TaskGraph containing only nodes matching the predicate.
// Edges to filtered-out nodes are dropped; insertion order is kept.
func (g *TaskGraph) Filter(pred func(*Node) bool) (*TaskGraph, error) {
	var kept []Node
	for _, id := range g.IDs() {
		if n := g.Tasks[id]; pred(n) {
			kept = append(kept, *n)
		}
	}
	return Build(kept)
}
