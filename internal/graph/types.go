package graph

// Node is a single unit of work in the graph.
type Node struct {
	ID        string
	Title     string
	Group     string   // e.g. construction phase the node was scheduled in
	Duration  int      // working days; cpm treats values below 1 as 1
	DependsOn []string // ids that must finish before this node starts
}

// TaskGraph is a directed acyclic graph of nodes.
type TaskGraph struct {
	Tasks  map[string]*Node
	Adj    map[string][]string // node -> nodes that depend on it
	RevAdj map[string][]string // node -> nodes it depends on
	Roots  []string            // nodes with no dependencies
	Leaves []string            // nodes nothing depends on
	Order  []string            // node ids in the order they were added
}
