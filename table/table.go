// Package table owns the master best-time table: one header row followed by
// one row per swimmer, with a canonical duration (or nothing) per event.
package table

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/padraicbc/swimtimes/fuzzy"
	"github.com/padraicbc/swimtimes/swimmer"
)

// Header is the fixed first row of every master table.
var Header = []string{"Name", "Div.", "100IM", "200IM", "50FL", "100FL", "50BK", "100BK", "50BR", "100BR", "50FR", "100FR"}

const (
	colName     = 0
	colDivision = 1
	firstEvent  = 2
)

// Events returns the event column names in header order.
func Events() []string {
	return append([]string(nil), Header[firstEvent:]...)
}

// Table is the swimmer x event grid. Row 0 is always Header.
type Table struct {
	rows [][]string
}

// Row is a read-only view of one swimmer row.
type Row struct {
	Name     string            `json:"name"`
	Division string            `json:"division"`
	Times    map[string]string `json:"times"`
}

// New returns a table holding only the header.
func New() *Table {
	return &Table{rows: [][]string{append([]string(nil), Header...)}}
}

// FromRecords builds a table from raw tabular records such as a CSV file.
// Row 0 is replaced by Header, blank records are dropped and short records
// are padded with empty cells. Records are copied.
func FromRecords(records [][]string) *Table {
	t := New()
	for i, rec := range records {
		if i == 0 || blank(rec) {
			continue
		}
		row := make([]string, max(len(rec), len(Header)))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Records returns a copy of every row including the header.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return &Table{rows: t.Records()}
}

// Len returns the number of swimmer rows.
func (t *Table) Len() int { return len(t.rows) - 1 }

// EventIndex returns the column index of event.
func (t *Table) EventIndex(event string) (int, error) {
	for i := firstEvent; i < len(t.rows[0]); i++ {
		if t.rows[0][i] == event {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
}

// find returns the row index of name, or 0 when absent.
func (t *Table) find(name string) int {
	for i := 1; i < len(t.rows); i++ {
		if t.rows[i][colName] == name {
			return i
		}
	}
	return 0
}

// Has reports whether a row exists for name (exact match).
func (t *Table) Has(name string) bool { return t.find(name) > 0 }

// Row returns the row for name (exact match).
func (t *Table) Row(name string) (Row, bool) {
	i := t.find(name)
	if i == 0 {
		return Row{}, false
	}
	return t.view(i), true
}

// RowFold returns the row whose name equals name ignoring case.
func (t *Table) RowFold(name string) (Row, bool) {
	for i := 1; i < len(t.rows); i++ {
		if strings.EqualFold(t.rows[i][colName], name) {
			return t.view(i), true
		}
	}
	return Row{}, false
}

func (t *Table) view(i int) Row {
	r := t.rows[i]
	times := make(map[string]string, len(Header)-firstEvent)
	for c := firstEvent; c < len(Header); c++ {
		times[Header[c]] = r[c]
	}
	return Row{Name: r[colName], Division: r[colDivision], Times: times}
}

// Rows returns every swimmer row in table order.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, t.Len())
	for i := 1; i < len(t.rows); i++ {
		out = append(out, t.view(i))
	}
	return out
}

// Cell returns the raw cell for name and event.
func (t *Table) Cell(name, event string) (string, error) {
	col, err := t.EventIndex(event)
	if err != nil {
		return "", err
	}
	i := t.find(name)
	if i == 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingSwimmer, name)
	}
	return t.rows[i][col], nil
}

// Swimmers returns (name, division) for every row with a name.
func (t *Table) Swimmers() []swimmer.Swimmer {
	out := make([]swimmer.Swimmer, 0, t.Len())
	for i := 1; i < len(t.rows); i++ {
		if t.rows[i][colName] == "" || t.rows[i][colDivision] == "" {
			continue
		}
		out = append(out, swimmer.Swimmer{Name: t.rows[i][colName], Division: t.rows[i][colDivision]})
	}
	return out
}

// Candidates returns the rows as fuzzy search candidates with the division
// as payload.
func (t *Table) Candidates() []fuzzy.Candidate {
	out := make([]fuzzy.Candidate, 0, t.Len())
	for i := 1; i < len(t.rows); i++ {
		out = append(out, fuzzy.Candidate{Name: t.rows[i][colName], Meta: t.rows[i][colDivision]})
	}
	return out
}

// addRow appends an empty row for s. The caller re-sorts.
func (t *Table) addRow(s swimmer.Swimmer) {
	row := make([]string, len(Header))
	row[colName] = s.Name
	row[colDivision] = s.Division
	t.rows = append(t.rows, row)
}

func (t *Table) sortRows() {
	body := t.rows[1:]
	sort.SliceStable(body, func(i, j int) bool { return body[i][colName] < body[j][colName] })
}

// Fingerprint hashes the full grid. Two tables with the same fingerprint
// serialise to the same bytes.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	for _, r := range t.rows {
		for _, c := range r {
			_, _ = h.WriteString(c)
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
	return h.Sum64()
}

// EventFromFilename derives an event column from a batch file name, e.g.
// "M_100_FR.csv" -> "100FR". Names without an underscore use the whole stem.
func EventFromFilename(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "_")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToUpper(strings.Join(parts, ""))
}
