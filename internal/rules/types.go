// Package rules holds the lookup tables that drive schedule generation:
// the ordered construction phases with their classification keywords and
// prerequisites, and the productivity table used to size durations.
//
// A Ruleset is plain data. Callers build one with Default or Load and pass
// it to the scheduler; nothing in this package keeps package-level state.
package rules

// PhaseID identifies a construction phase.
type PhaseID string

// Phases of the default ruleset, in construction order.
const (
	Excavation   PhaseID = "excavation"
	Foundation   PhaseID = "foundation"
	Structure    PhaseID = "structure"
	Walls        PhaseID = "walls"
	MEPRough     PhaseID = "mep_rough"
	Plastering   PhaseID = "plastering"
	Flooring     PhaseID = "flooring"
	Finishes     PhaseID = "finishes"
	DoorsWindows PhaseID = "doors_windows"
	MEPFinal     PhaseID = "mep_final"
	Exterior     PhaseID = "exterior"
	SiteWorks    PhaseID = "site_works"
)

// Duration bounds for a single activity, in working days.
const (
	MinDuration = 1
	MaxDuration = 60
)

// Phase is one stage of construction.
type Phase struct {
	ID        PhaseID   `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	Keywords  []string  `yaml:"keywords" json:"keywords"`
	DependsOn []PhaseID `yaml:"depends_on,omitempty" json:"dependsOn,omitempty"`
}

// Rate is a productivity entry: units of work completed per working day.
type Rate struct {
	Keyword string  `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	Rate    float64 `yaml:"rate" json:"rate"`
	Unit    string  `yaml:"unit" json:"unit"`
}

// Ruleset is the full configuration for classifying and sizing BOQ items.
// Phases are scheduled in slice order.
type Ruleset struct {
	Phases       []Phase `yaml:"phases" json:"phases"`
	DefaultPhase PhaseID `yaml:"default_phase" json:"defaultPhase"`
	Productivity []Rate  `yaml:"productivity" json:"productivity"`
	DefaultRate  Rate    `yaml:"default_rate" json:"defaultRate"`
}

// Estimate explains how a duration was derived.
type Estimate struct {
	Rate    Rate    `json:"rate"`
	Matched bool    `json:"matched"` // false when DefaultRate was used
	Raw     float64 `json:"raw"`     // quantity / rate before rounding and clamping
	Days    int     `json:"days"`
}
