package table

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/duration"
	"github.com/padraicbc/swimtimes/swimmer"
)

// Reconciler merges roster snapshots and event batches into a Table.
// Every operation works on a copy and commits it only when it succeeds.
type Reconciler struct {
	decider Decider
	log     *zap.Logger
}

// NewReconciler returns a Reconciler asking d at decision points. A nil d
// always takes the default answer; a nil log discards output.
func NewReconciler(d Decider, log *zap.Logger) *Reconciler {
	if d == nil {
		d = Always(Default)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{decider: d, log: log}
}

// RosterResult summarises a roster reconciliation.
type RosterResult struct {
	Added   []swimmer.Swimmer `json:"added"`
	Removed []swimmer.Swimmer `json:"removed"`
	Kept    []swimmer.Swimmer `json:"kept"`
	Cleared []EntryError      `json:"cleared"`
	// Merged lists duplicate rows folded into the first row of their name.
	Merged []swimmer.Swimmer `json:"merged"`
}

// ReconcileRoster brings t in line with roster: rows whose (name, division)
// pair is not in the roster are offered for removal, roster names without a
// row get an empty row, rows are sorted by name, every cell is put into
// canonical form with zero times blanked and rows repeating a name are
// merged.
func (r *Reconciler) ReconcileRoster(t *Table, roster []swimmer.Swimmer) (RosterResult, error) {
	var res RosterResult
	work := t.Clone()

	listed := make(map[swimmer.Swimmer]bool, len(roster))
	for _, s := range roster {
		listed[s] = true
	}

	kept := work.rows[:1]
	for _, row := range work.rows[1:] {
		s := swimmer.Swimmer{Name: row[colName], Division: row[colDivision]}
		if listed[s] {
			kept = append(kept, row)
			continue
		}
		d, err := r.decider.Decide(Question{Kind: RemoveSwimmer, Swimmer: s})
		if err != nil {
			return RosterResult{}, fmt.Errorf("reconcile roster: %w", err)
		}
		if d == Yes {
			res.Removed = append(res.Removed, s)
			r.log.Info("swimmer removed from table", zap.String("swimmer", s.Name), zap.String("division", s.Division))
			continue
		}
		res.Kept = append(res.Kept, s)
		r.log.Info("keeping swimmer missing from roster", zap.String("swimmer", s.Name), zap.String("division", s.Division))
		kept = append(kept, row)
	}
	work.rows = kept

	for _, s := range roster {
		if s.Name == "" || work.Has(s.Name) {
			continue
		}
		work.addRow(s)
		res.Added = append(res.Added, s)
		r.log.Info("swimmer added to table", zap.String("swimmer", s.Name), zap.String("division", s.Division))
	}

	work.sortRows()
	res.Cleared = work.normalizeCells()
	for _, c := range res.Cleared {
		r.log.Warn("cleared malformed cell", zap.String("swimmer", c.Name), zap.String("event", c.Event),
			zap.String("value", c.Value), zap.Error(c.Err))
	}

	res.Merged = work.mergeDuplicates()
	for _, s := range res.Merged {
		r.log.Warn("merged duplicate row", zap.String("swimmer", s.Name), zap.String("division", s.Division))
	}

	t.rows = work.rows
	return res, nil
}

// mergeDuplicates folds rows sharing a name into the first of them, keeping
// the faster time per event, and returns the rows it dropped. Rows must be
// sorted by name.
func (t *Table) mergeDuplicates() []swimmer.Swimmer {
	var merged []swimmer.Swimmer
	out := t.rows[:1]
	for _, row := range t.rows[1:] {
		last := out[len(out)-1]
		if len(out) == 1 || last[colName] != row[colName] {
			out = append(out, row)
			continue
		}
		for c := firstEvent; c < len(Header); c++ {
			if row[c] != "" && (last[c] == "" || faster(row[c], last[c])) {
				last[c] = row[c]
			}
		}
		merged = append(merged, swimmer.Swimmer{Name: row[colName], Division: row[colDivision]})
	}
	t.rows = out
	return merged
}

// normalizeCells rewrites every event cell in canonical form. Zero times are
// blanked; cells that cannot be read as a time are blanked and reported.
func (t *Table) normalizeCells() []EntryError {
	var cleared []EntryError
	for _, row := range t.rows[1:] {
		for c := firstEvent; c < len(Header); c++ {
			v := row[c]
			if duration.IsZero(v) {
				row[c] = ""
				continue
			}
			norm, err := duration.Normalize(v)
			if err != nil {
				cleared = append(cleared, EntryError{Name: row[colName], Event: Header[c], Value: v, Err: err})
				row[c] = ""
				continue
			}
			if norm == duration.Zero {
				norm = ""
			}
			row[c] = norm
		}
	}
	return cleared
}

// AddSwimmer inserts an empty row for s if no row has its name. It reports
// whether a row was added.
func (t *Table) AddSwimmer(s swimmer.Swimmer) bool {
	if s.Name == "" || t.Has(s.Name) {
		return false
	}
	t.addRow(s)
	t.sortRows()
	return true
}
