package infra_memory_catalog

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
)

var ErrNoLoader = errors.New("catalog has no loader")

//go:generate mockery --name=Loader --output=./mocks --filename=loader.go
type Loader interface {
	Load(ctx context.Context) ([]model.Candidate, error)
}

// Catalog is a read-mostly snapshot of candidates ordered by id.
// Refresh swaps the snapshot wholesale; readers never see a partial one.
type Catalog struct {
	mu     sync.RWMutex
	ids    []model.CandidateID
	byID   map[model.CandidateID]model.Candidate
	loader Loader
	logger *slog.Logger
}

type Option func(*Catalog)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

func WithLoader(loader Loader) Option {
	return func(c *Catalog) {
		c.loader = loader
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		byID:   map[model.CandidateID]model.Candidate{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Replace(candidates []model.Candidate) {
	byID := make(map[model.CandidateID]model.Candidate, len(candidates))
	for _, cand := range candidates {
		cand.Availability = cand.Availability.Clone()
		byID[cand.ID] = cand
	}

	ids := make([]model.CandidateID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	c.mu.Lock()
	c.ids = ids
	c.byID = byID
	c.mu.Unlock()
}

func (c *Catalog) Refresh(ctx context.Context) error {
	if c.loader == nil {
		return ErrNoLoader
	}

	candidates, err := c.loader.Load(ctx)
	if err != nil {
		return err
	}
	c.Replace(candidates)

	c.logger.Info("catalog refreshed", slog.Int("candidates", len(candidates)))
	return nil
}

func (c *Catalog) AllIDs(ctx context.Context) ([]model.CandidateID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.ids), nil
}

func (c *Catalog) Get(ctx context.Context, id model.CandidateID) (model.Candidate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cand, ok := c.byID[id]
	if !ok {
		return model.Candidate{}, usecase_session.ErrCandidateNotFound
	}
	cand.Availability = cand.Availability.Clone()
	return cand, nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ids)
}
