// Package cache holds short-lived copies of computed read models such as
// task statistics.
package cache

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Store is a byte-oriented key value cache with a store-wide TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)

	Set(ctx context.Context, key string, value []byte) error

	Delete(ctx context.Context, keys ...string) error
}

// Remember returns the cached value for key, calling load and caching its
// result on a miss. Cache failures are logged and fall back to load.
func Remember[T any](ctx context.Context, s Store, key string, log logrus.FieldLogger, load func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := s.Get(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache read failed")
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.WithField("key", key).Warn("discarding undecodable cache entry")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := s.Set(ctx, key, raw); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return value, nil
}

// Noop never stores anything. It is used when Redis is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
