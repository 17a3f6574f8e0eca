package relay

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// ErrUnknownSwimmer is returned when a requested name has no table row.
var ErrUnknownSwimmer = errors.New("relay: swimmer not in table")

// Stroke indexes a Candidate's times.
type Stroke int

const (
	Fly Stroke = iota
	Back
	Breast
	Free
)

// Strokes lists the strokes in slot order.
var Strokes = [4]Stroke{Fly, Back, Breast, Free}

// MedleyOrder is the swimming order of a medley relay.
var MedleyOrder = [4]Stroke{Back, Breast, Fly, Free}

func (s Stroke) String() string {
	switch s {
	case Fly:
		return "FLY"
	case Back:
		return "BACK"
	case Breast:
		return "BREAST"
	case Free:
		return "FREE"
	}
	return fmt.Sprintf("Stroke(%d)", int(s))
}

// code is the table column suffix for the stroke.
func (s Stroke) code() string {
	return [...]string{"FL", "BK", "BR", "FR"}[s]
}

// Candidate is one swimmer's 50-equivalent seconds per stroke; nil means no
// time is available.
type Candidate struct {
	Name     string      `json:"name"`
	Division string      `json:"division"`
	Times    [4]*float64 `json:"times"`
}

// Time returns the 50-equivalent for s.
func (c Candidate) Time(s Stroke) (float64, bool) {
	if p := c.Times[s]; p != nil {
		return *p, true
	}
	return 0, false
}

// HundredToFifty estimates a 50 time from a 100 time (both in seconds),
// rounded to the centisecond.
func HundredToFifty(hundred float64) float64 {
	return math.Round(0.591428*math.Pow(hundred, 0.931986)*100) / 100
}

// FromRow builds a Candidate from a table row.
func FromRow(r table.Row) (Candidate, error) {
	div, err := swimmer.ParseDivision(r.Division)
	if err != nil {
		return Candidate{}, fmt.Errorf("%s: %w", r.Name, err)
	}
	c := Candidate{Name: r.Name, Division: r.Division}
	for _, s := range Strokes {
		restricted := div.BackBreastRestricted() && (s == Back || s == Breast)
		if fifty := r.Times["50"+s.code()]; fifty != "" && !restricted {
			v, err := duration.Parse(fifty)
			if err != nil {
				return Candidate{}, fmt.Errorf("%s 50%s: %w", r.Name, s.code(), err)
			}
			c.Times[s] = &v
			continue
		}
		if hundred := r.Times["100"+s.code()]; hundred != "" {
			v, err := duration.Parse(hundred)
			if err != nil {
				return Candidate{}, fmt.Errorf("%s 100%s: %w", r.Name, s.code(), err)
			}
			f := HundredToFifty(v)
			c.Times[s] = &f
		}
	}
	return c, nil
}

// ByName builds candidates for names (matched ignoring case). Names that
// cannot be used are reported and skipped; the rest keep their order.
func ByName(t *table.Table, names []string) ([]Candidate, []error) {
	var (
		out  []Candidate
		errs []error
	)
	seen := map[string]bool{}
	for _, n := range names {
		r, ok := t.RowFold(n)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSwimmer, n))
			continue
		}
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		c, err := FromRow(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, c)
	}
	return out, errs
}

// ByDivision builds candidates for every row whose division is in divs, in
// table order.
func ByDivision(t *table.Table, divs []swimmer.Division) ([]Candidate, []error) {
	want := make(map[string]bool, len(divs))
	for _, d := range divs {
		want[d.Code] = true
	}
	var names []string
	for _, r := range t.Rows() {
		if r.Name != "" && want[strings.ToUpper(r.Division)] {
			names = append(names, r.Name)
		}
	}
	return ByName(t, names)
}

// MarshalText renders the stroke name in JSON.
func (s Stroke) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
