package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/joshharrison/boqloom/internal/graph"
)

// ErrInvalidRules marks a ruleset that cannot drive the scheduler.
var ErrInvalidRules = errors.New("invalid ruleset")

// Validate checks the invariants the scheduler relies on: unique phases,
// a known default phase, positive rates, and prerequisites that only point
// at phases declared earlier (which also rules out cycles).
func (r *Ruleset) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidRules}, args...)...))
	}

	if len(r.Phases) == 0 {
		fail("no phases defined")
	}

	position := make(map[PhaseID]int, len(r.Phases))
	for i, p := range r.Phases {
		if p.ID == "" {
			fail("phase #%d has no id", i+1)
			continue
		}
		if _, dup := position[p.ID]; dup {
			fail("phase %q declared twice", p.ID)
			continue
		}
		position[p.ID] = i
		for _, kw := range p.Keywords {
			if kw == "" {
				fail("phase %q has an empty keyword", p.ID)
			}
		}
	}

	if _, ok := position[r.DefaultPhase]; !ok {
		fail("default phase %q is not declared", r.DefaultPhase)
	}

	if cycle := r.PhaseGraph().DetectCycle(); cycle != nil {
		fail("phase dependency cycle: %v", cycle)
	}

	for i, p := range r.Phases {
		for _, dep := range p.DependsOn {
			at, ok := position[dep]
			switch {
			case !ok:
				fail("phase %q depends on unknown phase %q", p.ID, dep)
			case dep == p.ID:
				fail("phase %q depends on itself", p.ID)
			case at > i:
				fail("phase %q depends on %q, which is scheduled after it", p.ID, dep)
			}
		}
	}

	for _, pr := range r.Productivity {
		if pr.Keyword == "" {
			fail("productivity entry with rate %v has no keyword", pr.Rate)
		}
		if !validRate(pr.Rate) {
			fail("productivity rate for %q must be positive, got %v", pr.Keyword, pr.Rate)
		}
	}
	if !validRate(r.DefaultRate.Rate) {
		fail("default rate must be positive, got %v", r.DefaultRate.Rate)
	}

	return errors.Join(errs...)
}

func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// PhaseGraph returns the phase dependency table as a graph, one node per
// phase. Edges to undeclared phases are dropped; a cyclic table yields a
// graph whose DetectCycle reports the loop.
func (r *Ruleset) PhaseGraph() *graph.TaskGraph {
	g := &graph.TaskGraph{
		Tasks:  make(map[string]*graph.Node, len(r.Phases)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}
	for _, p := range r.Phases {
		deps := make([]string, len(p.DependsOn))
		for i, d := range p.DependsOn {
			deps[i] = string(d)
		}
		g.Tasks[string(p.ID)] = &graph.Node{ID: string(p.ID), Title: p.Name, DependsOn: deps}
		g.Order = append(g.Order, string(p.ID))
	}
	for _, p := range r.Phases {
		for _, d := range p.DependsOn {
			if _, ok := g.Tasks[string(d)]; ok {
				g.Adj[string(d)] = append(g.Adj[string(d)], string(p.ID))
				g.RevAdj[string(p.ID)] = append(g.RevAdj[string(p.ID)], string(d))
			}
		}
	}
	return g
}
