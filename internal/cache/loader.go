package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Loader reads through a Store with per-key request coalescing: when several
// requests miss on the same key at once, exactly one runs the compute function
// and the rest share its result. The flight entry is released as soon as the
// computation resolves.
type Loader[T any] struct {
	name  string
	store Store
	ttl   time.Duration
	group singleflight.Group
}

// NewLoader creates a Loader over store with a fixed entry TTL. name tags the
// loader's log lines.
func NewLoader[T any](name string, store Store, ttl time.Duration) *Loader[T] {
	return &Loader[T]{name: name, store: store, ttl: ttl}
}

// Load returns the value for key, computing and storing it on a miss. hit
// reports whether the value was read from the store; callers coalesced into a
// shared computation all report a miss. Store failures never fail the request,
// they degrade to recomputation.
func (l *Loader[T]) Load(ctx context.Context, key string, compute func(ctx context.Context) (T, error)) (value T, hit bool, err error) {
	if v, ok := l.lookup(ctx, key); ok {
		return v, true, nil
	}

	result, err, _ := l.group.Do(key, func() (any, error) {
		// An earlier flight may have stored the value between this caller's
		// lookup and its turn in the group.
		if v, ok := l.lookup(ctx, key); ok {
			return v, nil
		}

		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.store.Set(ctx, key, v, l.ttl); err != nil {
			log.Printf("[cache] %s: set %s failed: %v", l.name, key, err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return result.(T), false, nil
}

// lookup reads and decodes key, dropping entries that can no longer be decoded.
func (l *Loader[T]) lookup(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, found, err := l.store.Get(ctx, key)
	if err != nil {
		log.Printf("[cache] %s: get %s failed: %v", l.name, key, err)
		return zero, false
	}
	if !found {
		return zero, false
	}

	value, err := decode[T](raw)
	if err != nil {
		log.Printf("[cache] %s: dropping undecodable entry %s: %v", l.name, key, err)
		if err := l.store.Delete(ctx, key); err != nil {
			log.Printf("[cache] %s: delete %s failed: %v", l.name, key, err)
		}
		return zero, false
	}
	return value, true
}

// decode converts a stored value back to T: in-memory stores hold the value
// itself, Redis hands back msgpack bytes.
func decode[T any](raw any) (T, error) {
	if value, ok := raw.(T); ok {
		return value, nil
	}

	var value T
	encoded, ok := raw.([]byte)
	if !ok {
		return value, fmt.Errorf("unexpected cached type %T", raw)
	}
	if err := msgpack.Unmarshal(encoded, &value); err != nil {
		return value, err
	}
	return value, nil
}
