package relay

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/padraicbc/swimtimes/duration"
)

var (
	// ErrNoSolution is returned when no legal lineup exists.
	ErrNoSolution = errors.New("relay: no valid lineup")

	// ErrMissingTime is wrapped by MissingTimeError.
	ErrMissingTime = errors.New("relay: missing time")

	// ErrTooManyCombinations is returned when a medley search would exceed
	// the configured combination limit.
	ErrTooManyCombinations = errors.New("relay: too many combinations")

	// ErrLineupSize is returned when a fixed lineup does not have four swimmers.
	ErrLineupSize = errors.New("relay: lineup needs exactly 4 swimmers")
)

// DefaultMaxCombinations bounds SolveMedley unless overridden.
const DefaultMaxCombinations = 10_000_000

// Kind is the relay type.
type Kind int

const (
	Medley Kind = iota
	Freestyle
)

// ParseKind accepts "medley"/"m"/"1" and "freestyle"/"free"/"f"/"2".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "m", "medley":
		return Medley, nil
	case "2", "f", "free", "freestyle":
		return Freestyle, nil
	}
	return 0, fmt.Errorf("relay: unknown relay type %q", s)
}

func (k Kind) String() string {
	if k == Freestyle {
		return "freestyle"
	}
	return "medley"
}

// Leg is one swimmer on one stroke.
type Leg struct {
	Stroke  Stroke  `json:"stroke"`
	Swimmer string  `json:"swimmer"`
	Seconds float64 `json:"seconds"`
}

// Lineup is a relay in swimming order with its summed time.
type Lineup struct {
	Kind  Kind    `json:"kind"`
	Legs  []Leg   `json:"legs"`
	Total float64 `json:"total"`
}

// TotalDuration formats Total as HH:MM:SS.cc.
func (l Lineup) TotalDuration() string {
	s, err := duration.Format(l.Total)
	if err != nil {
		return "invalid"
	}
	return s
}

// MissingTimeError lists the legs of a fixed lineup that have no time.
type MissingTimeError struct {
	Legs []Leg
}

func (e *MissingTimeError) Error() string {
	parts := make([]string, len(e.Legs))
	for i, l := range e.Legs {
		parts[i] = fmt.Sprintf("%s %s", l.Stroke, l.Swimmer)
	}
	return fmt.Sprintf("%v: %s", ErrMissingTime, strings.Join(parts, ", "))
}

func (e *MissingTimeError) Unwrap() error { return ErrMissingTime }

type options struct {
	maxCombinations int
}

// Option configures SolveMedley.
type Option func(*options)

// WithMaxCombinations bounds the product of per-stroke candidate counts.
// Values <= 0 keep DefaultMaxCombinations.
func WithMaxCombinations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCombinations = n
		}
	}
}

type slotEntry struct {
	idx int
	sec float64
}

type medleySearch struct {
	slots   [4][]slotEntry
	used    []bool
	pick    [4]slotEntry
	best    [4]slotEntry
	bestSum float64
	found   bool
}

func (m *medleySearch) run(slot int, sum float64) {
	if slot == len(m.slots) {
		if !m.found || sum < m.bestSum {
			m.found = true
			m.bestSum = sum
			m.best = m.pick
		}
		return
	}
	for _, e := range m.slots[slot] {
		if m.used[e.idx] {
			continue
		}
		next := sum + e.sec
		// times are non-negative, so this branch cannot beat the incumbent
		if m.found && next >= m.bestSum {
			continue
		}
		m.used[e.idx] = true
		m.pick[slot] = e
		m.run(slot+1, next)
		m.used[e.idx] = false
	}
}

// SolveMedley returns the minimum-total medley lineup in which every stroke
// is swum by a different candidate. Among equal totals the first assignment
// in candidate order wins. Legs are returned back, breast, fly, free.
func SolveMedley(cands []Candidate, opts ...Option) (Lineup, error) {
	o := options{maxCombinations: DefaultMaxCombinations}
	for _, fn := range opts {
		fn(&o)
	}

	var m medleySearch
	combos := 1
	for _, s := range Strokes {
		for i, c := range cands {
			if v, ok := c.Time(s); ok {
				m.slots[s] = append(m.slots[s], slotEntry{idx: i, sec: v})
			}
		}
		n := len(m.slots[s])
		if n == 0 {
			return Lineup{}, fmt.Errorf("%w: nobody has a %s time", ErrNoSolution, s)
		}
		if combos > o.maxCombinations/n {
			return Lineup{}, fmt.Errorf("%w: limit %d", ErrTooManyCombinations, o.maxCombinations)
		}
		combos *= n
	}

	m.used = make([]bool, len(cands))
	m.run(0, 0)
	if !m.found {
		return Lineup{}, fmt.Errorf("%w: no four distinct swimmers cover every stroke", ErrNoSolution)
	}

	l := Lineup{Kind: Medley, Total: m.bestSum}
	for _, s := range MedleyOrder {
		e := m.best[s]
		l.Legs = append(l.Legs, Leg{Stroke: s, Swimmer: cands[e.idx].Name, Seconds: e.sec})
	}
	return l, nil
}

// SolveFreestyle picks the four fastest free times. The fastest of the four
// swims last; the other three lead off in ascending order.
func SolveFreestyle(cands []Candidate) (Lineup, error) {
	var legs []Leg
	for _, c := range cands {
		if v, ok := c.Time(Free); ok {
			legs = append(legs, Leg{Stroke: Free, Swimmer: c.Name, Seconds: v})
		}
	}
	if len(legs) < 4 {
		return Lineup{}, fmt.Errorf("%w: %d swimmers with a free time, need 4", ErrNoSolution, len(legs))
	}
	sort.SliceStable(legs, func(i, j int) bool { return legs[i].Seconds < legs[j].Seconds })

	four := []Leg{legs[1], legs[2], legs[3], legs[0]}
	l := Lineup{Kind: Freestyle, Legs: four}
	for _, leg := range four {
		l.Total += leg.Seconds
	}
	return l, nil
}

// Estimate sums the times of a fixed lineup given in swimming order: for a
// medley the swimmers swim back, breast, fly, free; for freestyle every leg
// is free. Every leg without a time is reported in a *MissingTimeError.
func Estimate(kind Kind, four []Candidate) (Lineup, error) {
	if len(four) != 4 {
		return Lineup{}, fmt.Errorf("%w: got %d", ErrLineupSize, len(four))
	}
	order := MedleyOrder
	if kind == Freestyle {
		order = [4]Stroke{Free, Free, Free, Free}
	}

	l := Lineup{Kind: kind}
	var missing []Leg
	for i, s := range order {
		leg := Leg{Stroke: s, Swimmer: four[i].Name}
		v, ok := four[i].Time(s)
		if !ok {
			missing = append(missing, leg)
			continue
		}
		leg.Seconds = v
		l.Legs = append(l.Legs, leg)
		l.Total += v
	}
	if len(missing) > 0 {
		return Lineup{}, &MissingTimeError{Legs: missing}
	}
	return l, nil
}

// MarshalText renders the relay type in JSON.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
