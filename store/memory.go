package store

import (
	"context"
	"sync"

	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// Memory keeps the table and roster in process. Saves and loads copy.
type Memory struct {
	mu      sync.Mutex
	records [][]string
	roster  []swimmer.Swimmer
	saves   int
}

// NewMemory returns a store seeded with t (nil for an empty table) and roster.
func NewMemory(t *table.Table, roster []swimmer.Swimmer) *Memory {
	if t == nil {
		t = table.New()
	}
	return &Memory{records: t.Records(), roster: append([]swimmer.Swimmer(nil), roster...)}
}

func (m *Memory) LoadTable(context.Context) (*table.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return table.FromRecords(m.records), nil
}

func (m *Memory) SaveTable(_ context.Context, t *table.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = t.Records()
	m.saves++
	return nil
}

func (m *Memory) LoadRoster(context.Context) ([]swimmer.Swimmer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]swimmer.Swimmer(nil), m.roster...), nil
}

func (m *Memory) SaveRoster(_ context.Context, roster []swimmer.Swimmer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roster = append([]swimmer.Swimmer(nil), roster...)
	return nil
}

// Saves counts SaveTable calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }
