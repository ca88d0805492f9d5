package infra_memory_session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
)

// Driver keeps sessions in process memory. Every write holds the lock for
// the whole read-modify-write, so Update never reports a conflict.
type Driver struct {
	sync.RWMutex
	data map[model.SessionID]*model.Session
}

func New() *Driver {
	return &Driver{data: map[model.SessionID]*model.Session{}}
}

func (d *Driver) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	d.RLock()
	defer d.RUnlock()

	s, ok := d.data[id]
	if !ok {
		return nil, usecase_session.ErrResourceNotFound
	}
	return s.Clone(), nil
}

func (d *Driver) Create(ctx context.Context, s *model.Session) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.data[s.ID]; ok {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	d.data[s.ID] = s.Clone()
	return nil
}

func (d *Driver) Update(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	d.Lock()
	defer d.Unlock()

	current, ok := d.data[id]
	if !ok {
		return nil, usecase_session.ErrResourceNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Version = current.Version + 1
	d.data[id] = next

	return next.Clone(), nil
}

// DeleteExpired drops sessions created before cutoff.
func (d *Driver) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	d.Lock()
	defer d.Unlock()

	var n int64
	for id, s := range d.data {
		if s.CreatedAt.Before(cutoff) {
			delete(d.data, id)
			n++
		}
	}
	return n, nil
}
