package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/fuzzy"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

var (
	// ErrAmbiguousName is wrapped by AmbiguousNameError.
	ErrAmbiguousName = errors.New("tracker: name matches more than one swimmer")

	// ErrDivisionRequired is returned when a manual entry names an unknown
	// swimmer without a division.
	ErrDivisionRequired = errors.New("tracker: new swimmer needs a division")
)

// AmbiguousNameError lists the swimmers a manual entry name could mean.
type AmbiguousNameError struct {
	Query   string
	Matches []fuzzy.Candidate
}

func (e *AmbiguousNameError) Error() string {
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = m.Name
	}
	return fmt.Sprintf("%v: %q -> %s", ErrAmbiguousName, e.Query, strings.Join(names, ", "))
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousName }

// ManualEntry is one time typed in by hand.
type ManualEntry struct {
	Name string `json:"name"`
	// Division is only used when Name matches nobody.
	Division string `json:"division,omitempty"`
	Event    string `json:"event"`
	Time     string `json:"time"`
}

// ManualResult reports what RecordManual did.
type ManualResult struct {
	Swimmer    swimmer.Swimmer `json:"swimmer"`
	Event      string          `json:"event"`
	Time       string          `json:"time"`
	Previous   string          `json:"previous,omitempty"`
	NewSwimmer bool            `json:"newSwimmer"`
	Written    bool            `json:"written"`
}

// RecordManual stores one hand-entered time. The name is resolved against
// the table (exact, then fuzzy); a single match is used, several matches
// fail with *AmbiguousNameError and no match adds a new swimmer to the
// table and roster, which needs a valid division. The time may be any
// shorthand Normalize accepts. A stored faster time is only replaced when
// d answers Yes to OverwriteSlower; otherwise the write is forced.
func (s *Service) RecordManual(ctx context.Context, d table.Decider, e ManualEntry) (ManualResult, error) {
	event := strings.ToUpper(strings.ReplaceAll(e.Event, " ", ""))
	formatted, err := duration.Normalize(e.Time)
	if err != nil {
		return ManualResult{}, err
	}
	if formatted == duration.Zero {
		return ManualResult{}, fmt.Errorf("%w: zero time", duration.ErrInvalidInput)
	}
	if d == nil {
		d = table.Always(table.Default)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.store.LoadTable(ctx)
	if err != nil {
		return ManualResult{}, err
	}
	if _, err := t.EventIndex(event); err != nil {
		return ManualResult{}, err
	}

	sw, isNew, err := s.resolve(t, e)
	if err != nil {
		return ManualResult{}, err
	}
	res := ManualResult{Swimmer: sw, Event: event, Time: formatted, NewSwimmer: isNew}
	log := s.log.With(zap.String("swimmer", sw.Name), zap.String("event", event))

	work := t.Clone()
	if isNew {
		work.AddSwimmer(sw)
	}

	current, err := work.Cell(sw.Name, event)
	if err != nil {
		return ManualResult{}, err
	}
	res.Previous = current
	if current != "" && slower(formatted, current) {
		ans, err := d.Decide(table.Question{
			Kind: table.OverwriteSlower, Swimmer: sw, Event: event, Current: current, Proposed: formatted,
		})
		if err != nil {
			return ManualResult{}, err
		}
		if ans != table.Yes {
			log.Info("manual entry skipped, stored time is faster", zap.String("stored", current), zap.String("time", formatted))
			return res, nil
		}
	}

	b := table.Batch{Event: event, Entries: []table.Entry{{Name: sw.Name, Time: formatted}}}
	if _, err := table.NewReconciler(d, log).ApplyBatch(work, b, table.WithForce()); err != nil {
		return ManualResult{}, err
	}

	// Table first: the time is kept even if the roster write fails, and the
	// next reconcile offers the unlisted row for removal.
	if err := s.store.SaveTable(ctx, work); err != nil {
		return ManualResult{}, err
	}
	res.Written = true
	if isNew {
		roster, err := s.store.LoadRoster(ctx)
		if err != nil {
			return res, err
		}
		if err := s.store.SaveRoster(ctx, append(roster, sw)); err != nil {
			return res, err
		}
		log.Info("new swimmer added", zap.String("division", sw.Division))
	}
	log.Info("manual time recorded", zap.String("time", formatted), zap.String("previous", current))
	return res, nil
}

// resolve maps the entry's name onto a table row or a new swimmer.
func (s *Service) resolve(t *table.Table, e ManualEntry) (swimmer.Swimmer, bool, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return swimmer.Swimmer{}, false, errors.New("tracker: empty name")
	}
	if r, ok := t.Row(name); ok {
		return swimmer.Swimmer{Name: r.Name, Division: r.Division}, false, nil
	}

	switch matches := s.matcher.Search(name, t.Candidates()); len(matches) {
	case 0:
	case 1:
		return swimmer.Swimmer{Name: matches[0].Name, Division: matches[0].Meta}, false, nil
	default:
		return swimmer.Swimmer{}, false, &AmbiguousNameError{Query: name, Matches: matches}
	}

	if strings.TrimSpace(e.Division) == "" {
		return swimmer.Swimmer{}, false, fmt.Errorf("%w: %q", ErrDivisionRequired, name)
	}
	div, err := swimmer.ParseDivision(e.Division)
	if err != nil {
		return swimmer.Swimmer{}, false, err
	}
	return swimmer.Swimmer{Name: name, Division: div.Code}, true, nil
}

// slower reports whether candidate is a strictly slower time than current.
// An unreadable current value never blocks the write.
func slower(candidate, current string) bool {
	cur, err := duration.Parse(current)
	if err != nil {
		return false
	}
	c, err := duration.Parse(candidate)
	if err != nil {
		return false
	}
	return c > cur
}
