package redisbloom

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jimexist/redis-bloom-filter/bloom"
	"github.com/jimexist/redis-bloom-filter/codec"
)

// Filter is a Bloom filter over items of type T whose bits and configuration
// live in Redis under the filter's name. Any number of Filter instances, in
// any number of processes, may operate on the same named filter
// concurrently; all durable state is in the store.
//
// An instance caches the filter geometry (size, hash iterations) after its
// first successful load and never invalidates it remotely: the stored
// configuration is immutable for the life of the filter. Only Delete on this
// instance resets the cache.
//
// On a Redis cluster the two keys land in one slot only when the name is
// brace-tagged, for example "{jobs}"; single-node and Ring deployments need
// no tagging.
type Filter[T any] struct {
	store filterStore
	codec codec.Codec
	log   *zap.SugaredLogger

	size           atomic.Int64
	hashIterations atomic.Int64
}

// New builds a Filter over the caller's client. Connection management,
// pooling, retries and auth all belong to the client; the filter only issues
// commands. The default item encoding is canonical CBOR.
func New[T any](rdb redis.UniversalClient, name string, opts ...Option) (*Filter[T], error) {
	if name == "" {
		return nil, ErrNoName
	}
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.TTL < 0 {
		return nil, ErrNegativeTTL
	}
	if options.Codec == nil {
		c, err := codec.NewCBORCodec()
		if err != nil {
			return nil, err
		}
		options.Codec = c
	}
	if options.Log == nil {
		options.Log = zap.NewNop().Sugar()
	}
	return &Filter[T]{
		store: filterStore{rdb: rdb, name: name, ttl: options.TTL},
		codec: options.Codec,
		log:   options.Log,
	}, nil
}

// Name returns the filter's current name in the store.
func (f *Filter[T]) Name() string {
	return f.store.name
}

// TryInit sizes and atomically creates the filter for expectedInsertions
// items at the target falseProbability, unless someone already initialized
// it. It reports whether this call performed the initialization; on false
// the winner's configuration is loaded and cached, whatever parameters this
// call carried. Parameters are validated before any round trip.
func (f *Filter[T]) TryInit(ctx context.Context, expectedInsertions int64, falseProbability float64) (bool, error) {
	size, err := bloom.OptimalBits(expectedInsertions, falseProbability)
	if err != nil {
		return false, err
	}
	cfg := filterConfig{
		Size:               size,
		HashIterations:     bloom.OptimalHashIterations(expectedInsertions, size),
		ExpectedInsertions: expectedInsertions,
		FalseProbability:   falseProbability,
	}
	performed, err := f.store.tryInit(ctx, cfg)
	if err != nil {
		return false, err
	}
	if !performed {
		if cfg, err = f.store.loadConfig(ctx); err != nil {
			return false, err
		}
	}
	// hashIterations is published before size: readers gate on size > 0 and
	// must never observe the geometry half written.
	f.hashIterations.Store(cfg.HashIterations)
	f.size.Store(cfg.Size)
	f.log.Debugf("filter %q: init performed=%v size=%d hashIterations=%d",
		f.store.name, performed, cfg.Size, cfg.HashIterations)
	return performed, nil
}

// Add inserts one item and reports whether it was newly added: whether any
// of its bits flipped 0 -> 1 during this call. See AddAll for what that
// heuristic can and cannot tell you.
func (f *Filter[T]) Add(ctx context.Context, item T) (bool, error) {
	n, err := f.AddAll(ctx, []T{item})
	return n == 1, err
}

// AddAll inserts items in one pipelined round trip and returns how many were
// newly added, always within [0, len(items)]. An empty input returns 0
// without touching the store.
//
// "Newly added" means at least one of the item's bits flipped 0 -> 1 in this
// call. That is a heuristic, inherent to the structure rather than a defect:
// an item whose bits are already all set (a genuine earlier insertion, or
// collisions with other items' bit sets) is not counted even on its true
// first insertion, and two distinct items hashing to the same index set look
// like duplicates of each other.
func (f *Filter[T]) AddAll(ctx context.Context, items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	indexes, k, err := f.indexesFor(ctx, items)
	if err != nil {
		return 0, err
	}
	return f.store.setBits(ctx, indexes, k)
}

// Contains reports whether item is in the filter: true may be a false
// positive at the configured rate, false is always authoritative.
func (f *Filter[T]) Contains(ctx context.Context, item T) (bool, error) {
	n, err := f.ContainsAll(ctx, []T{item})
	return n == 1, err
}

// ContainsAll tests items in one pipelined round trip and returns how many
// are present, an item being present only when all of its bits are set. An
// empty input returns 0 without touching the store.
func (f *Filter[T]) ContainsAll(ctx context.Context, items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	indexes, k, err := f.indexesFor(ctx, items)
	if err != nil {
		return 0, err
	}
	return f.store.getBits(ctx, indexes, k)
}

// Count estimates the number of inserted items from the bit population.
func (f *Filter[T]) Count(ctx context.Context) (int64, error) {
	if err := f.ensureConfig(ctx); err != nil {
		return 0, err
	}
	ones, err := f.store.bitCount(ctx)
	if err != nil {
		return 0, err
	}
	return bloom.EstimateCardinality(f.size.Load(), f.hashIterations.Load(), ones), nil
}

// Delete removes the bit array and the configuration together and resets
// this instance's cached geometry. It reports whether anything existed to
// remove. Other instances keep their warm caches; they observe the deletion
// only through the store.
func (f *Filter[T]) Delete(ctx context.Context) (bool, error) {
	removed, err := f.store.drop(ctx)
	if err != nil {
		return false, err
	}
	f.size.Store(0)
	f.hashIterations.Store(0)
	f.log.Debugf("filter %q: deleted=%v", f.store.name, removed)
	return removed, nil
}

// Exists reports whether the filter is initialized in the store. It never
// reads or changes the local cache.
func (f *Filter[T]) Exists(ctx context.Context) (bool, error) {
	return f.store.exists(ctx)
}

// ExpectedInsertions returns the capacity the filter was sized for, read
// fresh from the store. The stored configuration is authoritative so this
// always round-trips; use Size for the cached geometry.
func (f *Filter[T]) ExpectedInsertions(ctx context.Context) (int64, error) {
	v, err := f.store.configField(ctx, fieldExpectedInsertions)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, fieldExpectedInsertions, err)
	}
	return n, nil
}

// FalseProbability returns the target false positive probability the filter
// was sized for, read fresh from the store.
func (f *Filter[T]) FalseProbability(ctx context.Context) (float64, error) {
	v, err := f.store.configField(ctx, fieldFalseProbability)
	if err != nil {
		return 0, err
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, fieldFalseProbability, err)
	}
	return p, nil
}

// Size returns the cached bit array length, 0 until the configuration has
// been loaded. No round trip.
func (f *Filter[T]) Size() int64 {
	return f.size.Load()
}

// HashIterations returns the cached number of bit positions per item, 0
// until the configuration has been loaded. No round trip.
func (f *Filter[T]) HashIterations() int64 {
	return f.hashIterations.Load()
}

// Rename atomically moves both of the filter's keys to newName and repoints
// this instance at it. Any existing filter under newName is overwritten.
// Other instances still watching the old name observe ErrNotInitialized.
//
// Rename rewrites the name every other operation derives its keys from, so
// it must not run concurrently with other operations on the same instance;
// only cross-instance coordination lives in the store.
func (f *Filter[T]) Rename(ctx context.Context, newName string) error {
	if newName == "" {
		return ErrNoName
	}
	if err := f.store.rename(ctx, newName); err != nil {
		return err
	}
	f.log.Debugf("filter renamed to %q", newName)
	return nil
}

// TTL returns the remaining time to live of the filter, 0 when it has no
// expiry.
func (f *Filter[T]) TTL(ctx context.Context) (time.Duration, error) {
	return f.store.remainingTTL(ctx)
}

// ensureConfig lazily populates the cached geometry from the store. The
// cache is write-once-then-read-only for the life of the instance, so a
// racing duplicate load stores the same values.
func (f *Filter[T]) ensureConfig(ctx context.Context) error {
	if f.size.Load() > 0 {
		return nil
	}
	cfg, err := f.store.loadConfig(ctx)
	if err != nil {
		return err
	}
	// Same publication order as TryInit: size is the guard, so it goes last.
	f.hashIterations.Store(cfg.HashIterations)
	f.size.Store(cfg.Size)
	f.log.Debugf("filter %q: loaded size=%d hashIterations=%d",
		f.store.name, cfg.Size, cfg.HashIterations)
	return nil
}

// indexesFor encodes and hashes every item and expands the flat index batch:
// hashIterations consecutive positions per item, items in call order, so the
// store layer can regroup the flat result array per item.
func (f *Filter[T]) indexesFor(ctx context.Context, items []T) ([]int64, int64, error) {
	if err := f.ensureConfig(ctx); err != nil {
		return nil, 0, err
	}
	size, k := f.size.Load(), f.hashIterations.Load()
	indexes := make([]int64, 0, int64(len(items))*k)
	for _, item := range items {
		data, err := f.codec.Marshal(item)
		if err != nil {
			return nil, 0, err
		}
		hash1, hash2 := bloom.Sum128(data)
		indexes = bloom.AppendIndexes(indexes, hash1, hash2, k, size)
	}
	return indexes, k, nil
}
