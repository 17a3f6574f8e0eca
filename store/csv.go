package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// CSV stores the master table and roster as two CSV files. A missing file
// reads as empty. Writes go through a temp file and a rename and keep the
// line endings the file was read with; new files get CRLF.
type CSV struct {
	masterPath string
	rosterPath string
	log        *zap.Logger

	mu     sync.Mutex
	loaded uint64 // fingerprint of the last table read or written
	known  bool
	lf     map[string]bool // paths read with bare LF line endings
}

// NewCSV returns a CSV store over the two paths.
func NewCSV(masterPath, rosterPath string, log *zap.Logger) *CSV {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSV{masterPath: masterPath, rosterPath: rosterPath, log: log, lf: map[string]bool{}}
}

func (c *CSV) LoadTable(ctx context.Context) (*table.Table, error) {
	records, err := c.read(ctx, c.masterPath)
	if err != nil {
		return nil, err
	}
	t := table.FromRecords(records)

	c.mu.Lock()
	c.loaded, c.known = t.Fingerprint(), true
	c.mu.Unlock()
	return t, nil
}

// SaveTable writes t unless it is identical to what was last read or
// written through this store.
func (c *CSV) SaveTable(ctx context.Context, t *table.Table) error {
	fp := t.Fingerprint()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known && c.loaded == fp {
		c.log.Debug("master table unchanged, skipping write", zap.String("path", c.masterPath))
		return nil
	}
	if err := writeCSVFile(ctx, c.masterPath, t.Records(), !c.lf[c.masterPath]); err != nil {
		return err
	}
	c.loaded, c.known = fp, true
	c.log.Info("master table written", zap.String("path", c.masterPath), zap.Int("swimmers", t.Len()))
	return nil
}

func (c *CSV) LoadRoster(ctx context.Context) ([]swimmer.Swimmer, error) {
	records, err := c.read(ctx, c.rosterPath)
	if err != nil {
		return nil, err
	}
	return rosterFromRecords(records), nil
}

func (c *CSV) SaveRoster(ctx context.Context, roster []swimmer.Swimmer) error {
	c.mu.Lock()
	crlf := !c.lf[c.rosterPath]
	c.mu.Unlock()
	return writeCSVFile(ctx, c.rosterPath, rosterRecords(roster), crlf)
}

func (c *CSV) Close() error { return nil }

// read loads path and remembers its line endings for the next write.
func (c *CSV) read(ctx context.Context, path string) ([][]string, error) {
	records, lf, err := readCSVFile(ctx, path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.lf[path] = lf
	c.mu.Unlock()
	return records, nil
}

// readCSVFile returns the records of path and whether its first line ends
// in a bare LF.
func readCSVFile(ctx context.Context, path string) ([][]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}

	records, err := readRecords(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	i := bytes.IndexByte(data, '\n')
	return records, i >= 0 && (i == 0 || data[i-1] != '\r'), nil
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func writeCSVFile(ctx context.Context, path string, records [][]string, crlf bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	w.UseCRLF = crlf
	if err := w.WriteAll(records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadBatch parses one results file for event. Each record is either
// (name, time) or (name, division, time, ...); a leading "Name" header row
// and records without a name are skipped.
func ReadBatch(r io.Reader, event string) (table.Batch, error) {
	records, err := readRecords(r)
	if err != nil {
		return table.Batch{}, fmt.Errorf("read batch %s: %w", event, err)
	}
	b := table.Batch{Event: event}
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		name := trim(rec[0])
		if name == "" || (i == 0 && strings.EqualFold(name, "name")) {
			continue
		}
		t := rec[1]
		if len(rec) > 2 {
			t = rec[2]
		}
		b.Entries = append(b.Entries, table.Entry{Name: name, Time: trim(t)})
	}
	return b, nil
}

// ReadBatchFile reads path with ReadBatch. An empty event is derived from
// the file name.
func ReadBatchFile(path, event string) (table.Batch, error) {
	if event == "" {
		event = table.EventFromFilename(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return table.Batch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBatch(f, event)
}

func trim(s string) string { return strings.TrimSpace(s) }
