package rules

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for keyword matching. NFC keeps composed and
// decomposed Arabic letters (e.g. hamza forms) comparable.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, Normalize(kw)) {
			return true
		}
	}
	return false
}

// Classify returns the first phase, in declared order, with a keyword
// contained in description. Unmatched descriptions get DefaultPhase.
func (r *Ruleset) Classify(description string) PhaseID {
	id, _ := r.Match(description)
	return id
}

// Match is Classify that also reports whether a keyword matched.
func (r *Ruleset) Match(description string) (id PhaseID, matched bool) {
	text := Normalize(description)
	for _, p := range r.Phases {
		if containsAny(text, p.Keywords) {
			return p.ID, true
		}
	}
	return r.DefaultPhase, false
}

// Rate returns the first productivity entry whose keyword occurs in
// description, or DefaultRate with matched=false.
func (r *Ruleset) Rate(description string) (rate Rate, matched bool) {
	text := Normalize(description)
	for _, pr := range r.Productivity {
		if pr.Keyword == "" {
			continue
		}
		if strings.Contains(text, Normalize(pr.Keyword)) {
			return pr, true
		}
	}
	return r.DefaultRate, false
}

// Estimate sizes an activity from its quantity and description.
func (r *Ruleset) Estimate(quantity float64, description string) Estimate {
	rate, matched := r.Rate(description)
	return Estimate{
		Rate:    rate,
		Matched: matched,
		Raw:     quantity / rate.Rate,
		Days:    Duration(quantity, rate.Rate),
	}
}

// Duration returns clamp(ceil(quantity/rate), MinDuration, MaxDuration).
// NaN results (e.g. a zero quantity over a zero rate) clamp to MinDuration.
func Duration(quantity, rate float64) int {
	raw := math.Ceil(quantity / rate)
	switch {
	case math.IsNaN(raw), raw < MinDuration:
		return MinDuration
	case raw > MaxDuration:
		return MaxDuration
	default:
		return int(raw)
	}
}

// Phase returns the phase with the given id.
func (r *Ruleset) Phase(id PhaseID) (Phase, bool) {
	for _, p := range r.Phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}

// Order returns the phase ids in scheduling order.
func (r *Ruleset) Order() []PhaseID {
	ids := make([]PhaseID, len(r.Phases))
	for i, p := range r.Phases {
		ids[i] = p.ID
	}
	return ids
}

// PhaseName returns the display name for id, falling back to the id itself.
func (r *Ruleset) PhaseName(id PhaseID) string {
	if p, ok := r.Phase(id); ok && p.Name != "" {
		return p.Name
	}
	return string(id)
}
