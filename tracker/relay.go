package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/relay"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// ErrSelection is returned when a relay request names neither swimmers nor
// divisions, or both.
var ErrSelection = errors.New("tracker: select swimmers by names or by divisions")

// Selection picks the relay pool either by names or by division codes.
type Selection struct {
	Names     []string `json:"names,omitempty"`
	Divisions []string `json:"divisions,omitempty"`
}

// RelayResult is a lineup plus the pool it was chosen from.
type RelayResult struct {
	Lineup     relay.Lineup      `json:"lineup"`
	Candidates []relay.Candidate `json:"candidates"`
	// Skipped describes swimmers that could not join the pool.
	Skipped []string `json:"skipped,omitempty"`
}

// IdealRelay builds the fastest lineup of kind from the selected swimmers.
// Names go through the fuzzy matcher: one match joins the pool, no match is
// skipped and several matches fail with *AmbiguousNameError.
func (s *Service) IdealRelay(ctx context.Context, kind relay.Kind, sel Selection) (RelayResult, error) {
	if (len(sel.Names) == 0) == (len(sel.Divisions) == 0) {
		return RelayResult{}, ErrSelection
	}

	t, err := s.Table(ctx)
	if err != nil {
		return RelayResult{}, err
	}

	var (
		cands   []relay.Candidate
		errs    []error
		unknown []error
	)
	if len(sel.Names) > 0 {
		names := make([]string, 0, len(sel.Names))
		for _, n := range sel.Names {
			name, err := s.matchName(t, n)
			if errors.Is(err, relay.ErrUnknownSwimmer) {
				unknown = append(unknown, err)
				continue
			}
			if err != nil {
				return RelayResult{}, err
			}
			names = append(names, name)
		}
		cands, errs = relay.ByName(t, names)
		errs = append(unknown, errs...)
	} else {
		divs, err := swimmer.ParseDivisions(sel.Divisions)
		if err != nil {
			return RelayResult{}, err
		}
		cands, errs = relay.ByDivision(t, divs)
	}

	res := RelayResult{Candidates: cands}
	for _, e := range errs {
		res.Skipped = append(res.Skipped, e.Error())
		s.log.Warn("relay candidate skipped", zap.Error(e))
	}

	start := time.Now()
	switch kind {
	case relay.Freestyle:
		res.Lineup, err = relay.SolveFreestyle(cands)
	default:
		res.Lineup, err = relay.SolveMedley(cands, relay.WithMaxCombinations(s.maxCombos))
	}
	s.metrics.RecordRelay(kind.String(), relayResult(err), time.Since(start))
	return res, err
}

// EstimateRelay totals a fixed lineup of four names in swimming order. Names
// are resolved like IdealRelay's but any name that matches nobody fails.
func (s *Service) EstimateRelay(ctx context.Context, kind relay.Kind, names []string) (relay.Lineup, error) {
	if len(names) != 4 {
		return relay.Lineup{}, relay.ErrLineupSize
	}
	t, err := s.Table(ctx)
	if err != nil {
		return relay.Lineup{}, err
	}

	// each name is resolved on its own so a repeated name keeps its leg
	four := make([]relay.Candidate, 0, 4)
	for _, n := range names {
		name, err := s.matchName(t, n)
		if err != nil {
			return relay.Lineup{}, err
		}
		c, errs := relay.ByName(t, []string{name})
		if len(errs) > 0 {
			return relay.Lineup{}, errs[0]
		}
		four = append(four, c[0])
	}

	start := time.Now()
	l, err := relay.Estimate(kind, four)
	s.metrics.RecordRelay(kind.String()+"_estimate", relayResult(err), time.Since(start))
	return l, err
}

// matchName resolves a typed name to a row name: an exact row first, then
// the fuzzy matcher, which must find exactly one swimmer.
func (s *Service) matchName(t *table.Table, name string) (string, error) {
	name = strings.TrimSpace(name)
	if r, ok := t.Row(name); ok {
		return r.Name, nil
	}
	switch m := s.matcher.Search(name, t.Candidates()); len(m) {
	case 0:
		return "", fmt.Errorf("%w: %q", relay.ErrUnknownSwimmer, name)
	case 1:
		return m[0].Name, nil
	default:
		return "", &AmbiguousNameError{Query: name, Matches: m}
	}
}

func relayResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, relay.ErrNoSolution), errors.Is(err, relay.ErrMissingTime):
		return "no_solution"
	}
	return "error"
}
