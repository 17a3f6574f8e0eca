package table

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/swimmer"
)

// Entry is one (swimmer, raw time) pair of a batch.
type Entry struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// Batch is the parsed content of one results page for a single event.
type Batch struct {
	Event   string  `json:"event"`
	Entries []Entry `json:"entries"`
}

// FilterRoster returns the batch restricted to names present in roster and
// the entries that were dropped.
func (b Batch) FilterRoster(roster []swimmer.Swimmer) (Batch, []Entry) {
	names := make(map[string]bool, len(roster))
	for _, s := range roster {
		names[s.Name] = true
	}
	out := Batch{Event: b.Event}
	var dropped []Entry
	for _, e := range b.Entries {
		if names[e.Name] {
			out.Entries = append(out.Entries, e)
		} else {
			dropped = append(dropped, e)
		}
	}
	return out, dropped
}

// BatchResult summarises one batch application.
type BatchResult struct {
	Event     string       `json:"event"`
	New       int          `json:"new"`
	Updated   int          `json:"updated"`
	Unchanged int          `json:"unchanged"`
	Misses    []string     `json:"misses"`
	Invalid   []EntryError `json:"invalid"`
}

// Changed reports whether the batch wrote any cell.
func (r BatchResult) Changed() bool { return r.New+r.Updated > 0 }

type applyOptions struct {
	force bool
}

// ApplyOption configures ApplyBatch.
type ApplyOption func(*applyOptions)

// WithForce makes every entry replace the stored time, faster or not. It is
// meant for corrective manual entry.
func WithForce() ApplyOption {
	return func(o *applyOptions) { o.force = true }
}

// ApplyBatch merges b into t. An empty cell takes the new time and counts as
// New; a stored time is replaced only by a strictly faster one (or any time
// under WithForce) and counts as Updated. Entries with unreadable times are
// reported in Invalid. Names without a row go to the decider: continuing
// records them in Misses, declining aborts with ErrMissingSwimmer.
// On error t is left untouched.
func (r *Reconciler) ApplyBatch(t *Table, b Batch, opts ...ApplyOption) (BatchResult, error) {
	var o applyOptions
	for _, fn := range opts {
		fn(&o)
	}

	col, err := t.EventIndex(b.Event)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Event: b.Event}
	work := t.Clone()
	log := r.log.With(zap.String("event", b.Event))

	for _, e := range b.Entries {
		formatted, err := duration.Normalize(e.Time)
		if err == nil && formatted == duration.Zero {
			err = fmt.Errorf("%w: zero time", duration.ErrInvalidInput)
		}
		if err != nil {
			res.Invalid = append(res.Invalid, EntryError{Name: e.Name, Event: b.Event, Value: e.Time, Err: err})
			log.Warn("skipping unreadable time", zap.String("swimmer", e.Name), zap.String("value", e.Time), zap.Error(err))
			continue
		}

		i := work.find(e.Name)
		if i == 0 {
			d, err := r.decider.Decide(Question{Kind: ContinueOnMiss, Swimmer: swimmer.Swimmer{Name: e.Name}, Event: b.Event})
			if err != nil {
				return BatchResult{}, fmt.Errorf("apply %s: %w", b.Event, err)
			}
			if d == No {
				return BatchResult{}, fmt.Errorf("apply %s: %w: %q", b.Event, ErrMissingSwimmer, e.Name)
			}
			res.Misses = append(res.Misses, e.Name)
			log.Warn("entry ignored, swimmer not in table", zap.String("swimmer", e.Name), zap.String("time", formatted))
			continue
		}

		row := work.rows[i]
		current := row[col]
		if current == "" {
			row[col] = formatted
			res.New++
			log.Debug("new time", zap.String("swimmer", e.Name), zap.String("time", formatted))
			continue
		}

		if !o.force && !faster(formatted, current) {
			res.Unchanged++
			continue
		}
		row[col] = formatted
		res.Updated++
		log.Debug("updated time", zap.String("swimmer", e.Name), zap.String("from", current), zap.String("to", formatted))
	}

	t.rows = work.rows
	return res, nil
}

// faster reports whether candidate beats current. A current value that is
// not a readable duration always loses.
func faster(candidate, current string) bool {
	cur, err := duration.Parse(current)
	if err != nil {
		return true
	}
	c, err := duration.Parse(candidate)
	if err != nil {
		return false
	}
	return c < cur
}
