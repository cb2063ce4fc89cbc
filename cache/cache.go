// Package cache keeps solver answers for the length of a run. Input groups
// often share positions; a position already expanded for one group is not
// sent to the solver again.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/domino14/mategen/board"
	"github.com/domino14/mategen/record"
)

type loadFunc[K comparable, V any] func(key K) (V, error)

// cache holds its lock only around the map. Loads run unlocked so that
// distinct keys load in parallel; concurrent loads of one key share a
// single call.
type cache[K comparable, V any] struct {
	sync.Mutex
	objects map[K]V
	hits    int
	flight  singleflight.Group
}

func newCache[K comparable, V any]() *cache[K, V] {
	return &cache[K, V]{objects: make(map[K]V)}
}

func (c *cache[K, V]) lookup(key K) (V, bool) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	if ok {
		c.hits++
	}
	return obj, ok
}

// get returns the object for key, loading it on a miss. Failed loads are
// not remembered.
func (c *cache[K, V]) get(key K, load loadFunc[K, V]) (V, error) {
	if obj, ok := c.lookup(key); ok {
		log.Debug().Interface("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	v, err, _ := c.flight.Do(fmt.Sprint(key), func() (any, error) {
		// another caller may have stored it between lookup and Do
		c.Lock()
		obj, ok := c.objects[key]
		c.Unlock()
		if ok {
			return obj, nil
		}
		obj, err := load(key)
		if err != nil {
			return obj, err
		}
		c.Lock()
		c.objects[key] = obj
		c.Unlock()
		return obj, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// A Source labels the children of a position.
type Source interface {
	Children(ctx context.Context, b board.Board) ([]record.Record, error)
}

// Solutions remembers the children a Source returned for each position.
// It is safe for concurrent use.
type Solutions struct {
	src   Source
	cache *cache[board.Board, []record.Record]
}

func NewSolutions(src Source) *Solutions {
	return &Solutions{src: src, cache: newCache[board.Board, []record.Record]()}
}

// Children returns a copy of the remembered children of b, asking the
// underlying source on the first request.
func (s *Solutions) Children(ctx context.Context, b board.Board) ([]record.Record, error) {
	recs, err := s.cache.get(b, func(b board.Board) ([]record.Record, error) {
		return s.src.Children(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	out := make([]record.Record, len(recs))
	copy(out, recs)
	return out, nil
}

// Hits is the number of requests answered from the map without a load.
func (s *Solutions) Hits() int {
	s.cache.Lock()
	defer s.cache.Unlock()
	return s.cache.hits
}

func (s *Solutions) Len() int {
	s.cache.Lock()
	defer s.cache.Unlock()
	return len(s.cache.objects)
}
