package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/cache"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"golang.org/x/sync/singleflight"
)

const loadKey = "load"

// TableSource produces a freshly parsed table on every call.
type TableSource interface {
	Load(ctx context.Context) (*model.Table, error)
	Source() string
}

// DatasetService serves the current table from the cache and reloads it from
// the workbook when the cache is stale or a refresh is requested.
type DatasetService struct {
	source TableSource
	store  cache.Store
	group  singleflight.Group
	log    zerolog.Logger

	// gen is bumped by every Refresh. A load only stores its table when
	// no refresh happened while it was reading.
	mu  sync.Mutex
	gen uint64
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(source TableSource, store cache.Store, log zerolog.Logger) *DatasetService {
	return &DatasetService{
		source: source,
		store:  store,
		log:    log.With().Str("component", "dataset_service").Logger(),
	}
}

// Table returns the cached table while it is within the TTL, loading it otherwise.
func (s *DatasetService) Table(ctx context.Context) (*model.Table, error) {
	t, ok, err := s.store.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Dataset cache read failed, loading from file")
	}
	if ok {
		return t, nil
	}
	return s.load(ctx)
}

// Refresh drops the cached table and re-reads the workbook.
func (s *DatasetService) Refresh(ctx context.Context) (*model.Table, error) {
	s.mu.Lock()
	s.gen++
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Dataset cache clear failed")
	}
	s.mu.Unlock()

	// Do not join a load that started before the refresh.
	s.group.Forget(loadKey)

	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("version", t.Version).
		Msg("Dataset refreshed")
	return t, nil
}

func (s *DatasetService) load(ctx context.Context) (*model.Table, error) {
	v, err, _ := s.group.Do(loadKey, func() (interface{}, error) {
		start := time.Now()
		gen := s.generation()
		t, err := s.source.Load(ctx)
		if err != nil {
			s.log.Error().Err(err).Str("source", s.source.Source()).Msg("Dataset load failed")
			return nil, err
		}
		s.keep(ctx, t, gen)
		s.log.Info().
			Str("source", t.Source).
			Str("layout", string(t.Layout)).
			Int("records", len(t.Records)).
			Int("students", len(t.Students)).
			Int("weeks", len(t.Weeks)).
			Dur("took", time.Since(start)).
			Msg("Dataset loaded")
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Table), nil
}

func (s *DatasetService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// keep caches t unless a refresh started after the load that produced it.
func (s *DatasetService) keep(ctx context.Context, t *model.Table, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug().Str("version", t.Version).Msg("Dataset load superseded by refresh, not cached")
		return
	}
	if err := s.store.Put(ctx, t); err != nil {
		s.log.Warn().Err(err).Msg("Dataset cache write failed")
	}
}
