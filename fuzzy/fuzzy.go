// Package fuzzy resolves a typed name against a list of known names using an
// exact, then substring, then edit-distance cascade.
package fuzzy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Mode selects the edit-distance policy of the last tier.
type Mode int

const (
	// ModeWindow scores candidates longer than the query by their best
	// equal-length window, with a threshold of max(1, len(query)/3).
	ModeWindow Mode = iota
	// ModeFlat scores whole names with a threshold of 2.
	ModeFlat
)

const flatThreshold = 2

// ParseMode maps a config value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "window":
		return ModeWindow, nil
	case "flat":
		return ModeFlat, nil
	}
	return 0, fmt.Errorf("fuzzy: unknown mode %q", s)
}

func (m Mode) String() string {
	if m == ModeFlat {
		return "flat"
	}
	return "window"
}

// Candidate is a searchable name with an opaque payload, usually a division.
type Candidate struct {
	Name string `json:"name"`
	Meta string `json:"meta,omitempty"`
}

// Matcher runs the three-tier search.
type Matcher struct {
	Mode Mode
	// Threshold overrides the mode's default maximum edit distance when > 0.
	Threshold int
}

// New returns a Matcher for the given mode and threshold override.
func New(mode Mode, threshold int) *Matcher {
	return &Matcher{Mode: mode, Threshold: threshold}
}

type scored struct {
	dist int
	c    Candidate
}

// Search returns the candidates matching query. An exact match (ignoring
// case) short-circuits the other tiers; substring matches come back sorted
// by name; edit-distance matches come back nearest first.
func (m *Matcher) Search(query string, candidates []Candidate) []Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	pool := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Name != "" {
			pool = append(pool, c)
		}
	}

	var exact []Candidate
	for _, c := range pool {
		if strings.ToLower(c.Name) == q {
			exact = append(exact, c)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var partial []Candidate
	for _, c := range pool {
		if strings.Contains(strings.ToLower(c.Name), q) {
			partial = append(partial, c)
		}
	}
	if len(partial) > 0 {
		sort.SliceStable(partial, func(i, j int) bool {
			if partial[i].Name != partial[j].Name {
				return partial[i].Name < partial[j].Name
			}
			return partial[i].Meta < partial[j].Meta
		})
		return partial
	}

	limit := m.threshold(q)
	var hits []scored
	for _, c := range pool {
		d := m.distance(q, strings.ToLower(c.Name))
		if d <= limit {
			hits = append(hits, scored{d, c})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]Candidate, len(hits))
	for i, h := range hits {
		out[i] = h.c
	}
	return out
}

func (m *Matcher) threshold(q string) int {
	if m.Threshold > 0 {
		return m.Threshold
	}
	if m.Mode == ModeFlat {
		return flatThreshold
	}
	return max(1, len([]rune(q))/3)
}

func (m *Matcher) distance(q, name string) int {
	if m.Mode == ModeFlat {
		return levenshtein.ComputeDistance(q, name)
	}
	return windowDistance(q, name)
}

// windowDistance is the smallest edit distance between q and any substring of
// name with the same rune length as q. Names shorter than q are compared
// whole.
func windowDistance(q, name string) int {
	qr, nr := []rune(q), []rune(name)
	if len(nr) < len(qr) {
		return levenshtein.ComputeDistance(q, name)
	}
	best := -1
	for i := 0; i+len(qr) <= len(nr); i++ {
		d := levenshtein.ComputeDistance(q, string(nr[i:i+len(qr)]))
		if best < 0 || d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	return best
}

// Names is a convenience for building candidates from plain names.
func Names(names ...string) []Candidate {
	out := make([]Candidate, len(names))
	for i, n := range names {
		out[i] = Candidate{Name: n}
	}
	return out
}
