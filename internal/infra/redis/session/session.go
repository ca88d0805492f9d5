package infra_redis_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
)

var ErrAlreadyExists = errors.New("session already exists")

// Driver stores each session as one JSON value. Updates run inside
// WATCH/MULTI/EXEC, so a concurrent writer surfaces as ErrConflict.
type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (d *Driver) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := d.client.Get(d.getFullKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, usecase_session.ErrResourceNotFound
		}
		return nil, err
	}
	return decode(data)
}

func (d *Driver) Create(ctx context.Context, s *model.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	ok, err := d.client.SetNX(d.getFullKey(s.ID), data, d.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, s.ID)
	}
	return nil
}

// Update refreshes the TTL on every successful write.
func (d *Driver) Update(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	fullKey := d.getFullKey(id)

	var updated *model.Session
	err := d.client.Watch(func(tx *redis.Tx) error {
		data, err := tx.Get(fullKey).Bytes()
		if err != nil {
			if err == redis.Nil {
				return usecase_session.ErrResourceNotFound
			}
			return err
		}

		s, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		s.Version++

		next, err := json.Marshal(s)
		if err != nil {
			return err
		}

		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(fullKey, next, d.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = s
		return nil
	}, fullKey)

	if err == redis.TxFailedErr {
		return nil, usecase_session.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *Driver) getFullKey(id model.SessionID) string {
	if d.key != "" {
		return d.key + ":" + id
	}
	return id
}

func decode(data []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}
	if s.Votes.First == nil {
		s.Votes.First = model.Votes{}
	}
	if s.Votes.Second == nil {
		s.Votes.Second = model.Votes{}
	}
	return &s, nil
}
