// Package tracker runs the best-time workflows against a store: roster
// reconciliation, batch imports, manual entry, name search and relays.
// One Service serialises every operation so a load-modify-save cycle never
// interleaves with another.
package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padraicbc/swimtimes/fuzzy"
	"github.com/padraicbc/swimtimes/metrics"
	"github.com/padraicbc/swimtimes/relay"
	"github.com/padraicbc/swimtimes/store"
	"github.com/padraicbc/swimtimes/swimmer"
	"github.com/padraicbc/swimtimes/table"
)

// Service is safe for concurrent use.
type Service struct {
	mu sync.Mutex

	store     store.Store
	matcher   *fuzzy.Matcher
	metrics   metrics.Recorder
	log       *zap.Logger
	maxCombos int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMatcher sets the name matcher used by Search and RecordManual.
func WithMatcher(m *fuzzy.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithMaxCombinations bounds ideal medley searches.
func WithMaxCombinations(n int) Option {
	return func(s *Service) { s.maxCombos = n }
}

// New returns a Service over st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		matcher:   fuzzy.New(fuzzy.ModeWindow, 0),
		metrics:   metrics.NewNop(),
		log:       zap.NewNop(),
		maxCombos: relay.DefaultMaxCombinations,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Table returns the stored master table.
func (s *Service) Table(ctx context.Context) (*table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadTable(ctx)
}

// Roster returns the stored roster.
func (s *Service) Roster(ctx context.Context) ([]swimmer.Swimmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.LoadRoster(ctx)
}

// Search fuzzy-matches query against the table's swimmer names.
func (s *Service) Search(ctx context.Context, query string) ([]fuzzy.Candidate, error) {
	t, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Search(query, t.Candidates()), nil
}

// Reconcile brings the stored table in line with the stored roster.
func (s *Service) Reconcile(ctx context.Context, d table.Decider) (table.RosterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.store.LoadRoster(ctx)
	if err != nil {
		return table.RosterResult{}, err
	}
	return s.reconcile(ctx, d, roster)
}

// SetRoster replaces the roster and reconciles the table against it.
// Division codes are validated and stored in canonical form.
func (s *Service) SetRoster(ctx context.Context, roster []swimmer.Swimmer, d table.Decider) (table.RosterResult, error) {
	clean := make([]swimmer.Swimmer, 0, len(roster))
	for _, sw := range roster {
		div, err := swimmer.ParseDivision(sw.Division)
		if err != nil {
			return table.RosterResult{}, fmt.Errorf("%s: %w", sw.Name, err)
		}
		clean = append(clean, swimmer.Swimmer{Name: sw.Name, Division: div.Code})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.reconcile(ctx, d, clean)
	if err != nil {
		return table.RosterResult{}, err
	}
	if err := s.store.SaveRoster(ctx, clean); err != nil {
		return table.RosterResult{}, err
	}
	return res, nil
}

func (s *Service) reconcile(ctx context.Context, d table.Decider, roster []swimmer.Swimmer) (table.RosterResult, error) {
	t, err := s.store.LoadTable(ctx)
	if err != nil {
		return table.RosterResult{}, err
	}
	res, err := table.NewReconciler(d, s.log).ReconcileRoster(t, roster)
	if err != nil {
		return table.RosterResult{}, err
	}
	if err := s.store.SaveTable(ctx, t); err != nil {
		return table.RosterResult{}, err
	}
	s.metrics.RecordRoster(len(res.Added), len(res.Removed))
	s.log.Info("roster reconciled",
		zap.Int("added", len(res.Added)),
		zap.Int("removed", len(res.Removed)),
		zap.Int("kept", len(res.Kept)),
		zap.Int("cleared", len(res.Cleared)),
	)
	return res, nil
}

// BatchReport is the outcome of one batch of an import.
type BatchReport struct {
	table.BatchResult
	// Dropped lists entries whose swimmer is not on the roster.
	Dropped []table.Entry `json:"dropped,omitempty"`
}

// ImportReport summarises an Import call.
type ImportReport struct {
	RunID   string        `json:"runId"`
	Batches []BatchReport `json:"batches"`
	New     int           `json:"new"`
	Updated int           `json:"updated"`
	Saved   bool          `json:"saved"`
}

// Import applies batches in order to the stored table and saves it once at
// the end. Entries for swimmers not on the roster are dropped first (unless
// the roster is empty). If any batch fails nothing is saved.
func (s *Service) Import(ctx context.Context, d table.Decider, batches []table.Batch, opts ...table.ApplyOption) (ImportReport, error) {
	rep := ImportReport{RunID: uuid.NewString()}
	log := s.log.With(zap.String("run", rep.RunID))

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.store.LoadRoster(ctx)
	if err != nil {
		return rep, err
	}
	if len(roster) == 0 {
		log.Warn("roster is empty, importing entries unfiltered")
	}
	t, err := s.store.LoadTable(ctx)
	if err != nil {
		return rep, err
	}

	r := table.NewReconciler(d, log)
	for _, b := range batches {
		var dropped []table.Entry
		if len(roster) > 0 {
			b, dropped = b.FilterRoster(roster)
		}
		res, err := r.ApplyBatch(t, b, opts...)
		if err != nil {
			return rep, err
		}
		s.metrics.RecordBatch(res.Event, res.New, res.Updated, res.Unchanged, len(res.Misses), len(res.Invalid))
		log.Info("batch applied",
			zap.String("event", res.Event),
			zap.Int("new", res.New),
			zap.Int("updated", res.Updated),
			zap.Int("unchanged", res.Unchanged),
			zap.Int("misses", len(res.Misses)),
			zap.Int("invalid", len(res.Invalid)),
			zap.Int("dropped", len(dropped)),
		)
		rep.Batches = append(rep.Batches, BatchReport{BatchResult: res, Dropped: dropped})
		rep.New += res.New
		rep.Updated += res.Updated
	}

	if rep.New+rep.Updated == 0 {
		return rep, nil
	}
	if err := s.store.SaveTable(ctx, t); err != nil {
		return rep, err
	}
	rep.Saved = true
	return rep, nil
}

// PolicyDecider answers every question from configuration alone, for
// callers that cannot ask a person. "prompt" falls back to each question's
// default.
func PolicyDecider(removal, missing string) (table.Router, error) {
	r := table.Router{}
	if removal != "prompt" {
		d, err := table.RemovalPolicy(removal)
		if err != nil {
			return nil, err
		}
		r[table.RemoveSwimmer] = d
	}
	if missing != "prompt" {
		d, err := table.MissPolicy(missing)
		if err != nil {
			return nil, err
		}
		r[table.ContinueOnMiss] = d
	}
	return r, nil
}
