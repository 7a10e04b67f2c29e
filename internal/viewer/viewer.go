// Package viewer serves a generated schedule and its task graph as JSON over
// HTTP, for dashboards and other local tools.
package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/joshharrison/boqloom/internal/schedule"
)

// --- Graph types ---

type GraphNode struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Phase      string `json:"phase"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Duration   int    `json:"duration"`
	IsCritical bool   `json:"is_critical"`
}

type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type GraphMetadata struct {
	StartDate      string `json:"start_date,omitempty"`
	CompletionDate string `json:"completion_date,omitempty"`
	TotalTasks     int    `json:"total_tasks"`
	TotalDuration  int    `json:"total_duration"`
}

type Graph struct {
	Nodes        []GraphNode   `json:"nodes"`
	Edges        []GraphEdge   `json:"edges"`
	CriticalPath []string      `json:"critical_path"`
	Metadata     GraphMetadata `json:"metadata"`
}

// toGraph converts a schedule into the node/edge form clients render.
func toGraph(res *schedule.Result) *Graph {
	nodes := make([]GraphNode, 0, len(res.Tasks))
	edges := []GraphEdge{}
	for _, t := range res.Tasks {
		nodes = append(nodes, GraphNode{
			ID:         t.ID,
			Title:      t.Name,
			Phase:      string(t.Phase),
			StartDate:  t.StartDate.String(),
			EndDate:    t.EndDate.String(),
			Duration:   t.Duration,
			IsCritical: t.IsCritical,
		})
		for _, dep := range t.Dependencies {
			edges = append(edges, GraphEdge{From: dep, To: t.ID})
		}
	}

	meta := GraphMetadata{
		TotalTasks:    res.Summary.NumberOfActivities,
		TotalDuration: res.Summary.TotalDuration,
	}
	if d := res.Summary.StartDate; d != nil {
		meta.StartDate = d.String()
	}
	if d := res.Summary.EstimatedCompletionDate; d != nil {
		meta.CompletionDate = d.String()
	}

	path := res.CriticalPath
	if path == nil {
		path = []string{}
	}
	return &Graph{Nodes: nodes, Edges: edges, CriticalPath: path, Metadata: meta}
}

// checkResult rejects a posted schedule whose summary dates disagree with
// its tasks.
func checkResult(res *schedule.Result) error {
	sum := res.Summary
	if (sum.StartDate == nil) != (sum.EstimatedCompletionDate == nil) {
		return fmt.Errorf("summary needs both startDate and estimatedCompletionDate or neither")
	}
	if len(res.Tasks) > 0 && sum.StartDate == nil {
		return fmt.Errorf("summary dates missing for %d tasks", len(res.Tasks))
	}
	if len(res.Tasks) == 0 && sum.StartDate != nil {
		return fmt.Errorf("summary has dates but no tasks")
	}
	return nil
}

// --- HTTP server ---

type server struct {
	mu     sync.RWMutex
	result *schedule.Result
	graph  *Graph
}

func (s *server) set(res *schedule.Result) {
	g := toGraph(res)
	s.mu.Lock()
	s.result, s.graph = res, g
	s.mu.Unlock()
}

func (s *server) handlePostSchedule(w http.ResponseWriter, r *http.Request) {
	var res schedule.Result
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := checkResult(&res); err != nil {
		http.Error(w, "invalid schedule: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.set(&res)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s.graph)
}

func (s *server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	res := s.result
	s.mu.RUnlock()

	if res == nil {
		http.Error(w, "no schedule loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (s *server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "no schedule loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(g)
}

// Handler returns the viewer routes, preloaded with res when it is non-nil.
//
//	GET  /schedule  the full schedule
//	POST /schedule  replace the schedule
//	GET  /graph     nodes, edges and critical path
func Handler(res *schedule.Result) http.Handler {
	srv := &server{}
	if res != nil {
		srv.set(res)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			srv.handlePostSchedule(w, r)
		case http.MethodGet:
			srv.handleGetSchedule(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/graph", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		srv.handleGetGraph(w, r)
	})
	return mux
}

// Start launches the viewer HTTP server on the given port in the background.
// Returns the base URL (e.g. "http://localhost:7171") and the server, which
// the caller shuts down.
func Start(port int, res *schedule.Result) (string, *http.Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	srv := &http.Server{Handler: Handler(res), ReadHeaderTimeout: 5 * time.Second}
	go srv.Serve(ln)

	addr := fmt.Sprintf("http://localhost:%d", port)
	return addr, srv, nil
}

// PostSchedule sends a schedule to a running viewer server.
func PostSchedule(addr string, res *schedule.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	resp, err := http.Post(addr+"/schedule", "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("POST /schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST /schedule returned %d", resp.StatusCode)
	}

	return nil
}

// IsPortOpen checks if something is listening on the given address.
func IsPortOpen(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
