package redisbloom

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Field names of the configuration hash. All values are store-encoded as
// strings: the integers in decimal, the probability in plain decimal form.
const (
	fieldSize               = "size"
	fieldHashIterations     = "hashIterations"
	fieldExpectedInsertions = "expectedInsertions"
	fieldFalseProbability   = "falseProbability"
)

// filterConfig is the immutable geometry persisted under the configuration
// key. It exists in the store if and only if the bit array has been
// initialized.
type filterConfig struct {
	Size               int64
	HashIterations     int64
	ExpectedInsertions int64
	FalseProbability   float64
}

// initScript performs the atomic check-then-initialize. KEYS[1] is the bit
// array, KEYS[2] the configuration hash; ARGV carries the four field values
// and the TTL in seconds. Touching bit 0 with a no-op write materializes the
// bit array key so both keys exist together from the moment of creation.
var initScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('HSET', KEYS[2],
	'size', ARGV[1],
	'hashIterations', ARGV[2],
	'expectedInsertions', ARGV[3],
	'falseProbability', ARGV[4])
redis.call('SETBIT', KEYS[1], 0, 0)
local ttl = tonumber(ARGV[5])
if ttl > 0 then
	redis.call('EXPIRE', KEYS[1], ttl)
	redis.call('EXPIRE', KEYS[2], ttl)
end
return 1
`)

// renameScript moves both keys to the new name in one step. KEYS[1..2] are
// the current bit array and configuration keys, KEYS[3..4] the destination
// pair. Destinations are overwritten, as the store's RENAME does.
var renameScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
	return 0
end
redis.call('RENAME', KEYS[1], KEYS[3])
redis.call('RENAME', KEYS[2], KEYS[4])
return 1
`)

// filterStore owns the wire protocol for one named filter: key naming, the
// atomic initialization script, the pipelined bit batches, and the
// housekeeping commands. It holds no filter state of its own.
type filterStore struct {
	rdb  redis.UniversalClient
	name string
	ttl  time.Duration
}

func (s *filterStore) bitsKey() string   { return s.name }
func (s *filterStore) configKey() string { return s.name + ":config" }

// tryInit atomically creates the configuration hash and the bit array unless
// the configuration already exists. It reports whether this call performed
// the initialization; under concurrent calls for the same name exactly one
// caller observes true.
func (s *filterStore) tryInit(ctx context.Context, cfg filterConfig) (bool, error) {
	res, err := initScript.Run(ctx, s.rdb,
		[]string{s.bitsKey(), s.configKey()},
		strconv.FormatInt(cfg.Size, 10),
		strconv.FormatInt(cfg.HashIterations, 10),
		strconv.FormatInt(cfg.ExpectedInsertions, 10),
		strconv.FormatFloat(cfg.FalseProbability, 'f', -1, 64),
		strconv.FormatInt(ttlSeconds(s.ttl), 10),
	).Int()
	if err != nil {
		return false, fmt.Errorf("initializing filter %q: %w", s.name, err)
	}
	return res == 1, nil
}

// ttlSeconds converts a TTL to the whole seconds the store expects, rounding
// any sub-second remainder up so a positive TTL never truncates to zero.
func ttlSeconds(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return int64((ttl + time.Second - 1) / time.Second)
}

// loadConfig reads the configuration hash. An absent key fails with
// ErrNotInitialized; a present hash with missing or unparseable fields fails
// with ErrInvalidConfig.
func (s *filterStore) loadConfig(ctx context.Context) (filterConfig, error) {
	fields, err := s.rdb.HGetAll(ctx, s.configKey()).Result()
	if err != nil {
		return filterConfig{}, fmt.Errorf("loading configuration for %q: %w", s.name, err)
	}
	if len(fields) == 0 {
		return filterConfig{}, fmt.Errorf("%w: %q", ErrNotInitialized, s.name)
	}
	var cfg filterConfig
	for _, f := range []struct {
		name string
		dst  *int64
	}{
		{fieldSize, &cfg.Size},
		{fieldHashIterations, &cfg.HashIterations},
		{fieldExpectedInsertions, &cfg.ExpectedInsertions},
	} {
		v, ok := fields[f.name]
		if !ok {
			return filterConfig{}, fmt.Errorf("%w: %q has no field %s", ErrInvalidConfig, s.name, f.name)
		}
		if *f.dst, err = strconv.ParseInt(v, 10, 64); err != nil {
			return filterConfig{}, fmt.Errorf("%w: %q field %s: %v", ErrInvalidConfig, s.name, f.name, err)
		}
	}
	v, ok := fields[fieldFalseProbability]
	if !ok {
		return filterConfig{}, fmt.Errorf("%w: %q has no field %s", ErrInvalidConfig, s.name, fieldFalseProbability)
	}
	if cfg.FalseProbability, err = strconv.ParseFloat(v, 64); err != nil {
		return filterConfig{}, fmt.Errorf("%w: %q field %s: %v", ErrInvalidConfig, s.name, fieldFalseProbability, err)
	}
	return cfg, nil
}

// configField reads one configuration field from the store. The
// configuration is authoritative, so the explicit getters always round-trip
// through here rather than serving the local cache.
func (s *filterStore) configField(ctx context.Context, field string) (string, error) {
	v, err := s.rdb.HGet(ctx, s.configKey(), field).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("%w: %q", ErrNotInitialized, s.name)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s for %q: %w", field, s.name, err)
	}
	return v, nil
}

// setBits issues one SETBIT per index as a single pipelined batch. indexes
// is flat and grouped: hashIterations consecutive positions per item, items
// in call order. An item counts as newly added when any of its bits flipped
// 0 -> 1 during this call. The pipeline is not a transaction; interleaving
// with concurrent calls at bit granularity is sound because bits only ever
// go 0 -> 1.
func (s *filterStore) setBits(ctx context.Context, indexes []int64, hashIterations int64) (int, error) {
	cmds := make([]*redis.IntCmd, len(indexes))
	pipe := s.rdb.Pipeline()
	for i, idx := range indexes {
		cmds[i] = pipe.SetBit(ctx, s.bitsKey(), idx, 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("setting bits for %q: %w", s.name, err)
	}
	newlyAdded := 0
	err := s.eachItem(cmds, hashIterations, func(item []*redis.IntCmd) {
		for _, c := range item {
			if c.Val() == 0 {
				newlyAdded++
				return
			}
		}
	})
	return newlyAdded, err
}

// getBits issues one GETBIT per index as a single pipelined batch, with the
// same flat grouping as setBits. An item counts as present only when all of
// its bits are 1.
func (s *filterStore) getBits(ctx context.Context, indexes []int64, hashIterations int64) (int, error) {
	cmds := make([]*redis.IntCmd, len(indexes))
	pipe := s.rdb.Pipeline()
	for i, idx := range indexes {
		cmds[i] = pipe.GetBit(ctx, s.bitsKey(), idx)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("getting bits for %q: %w", s.name, err)
	}
	present := 0
	err := s.eachItem(cmds, hashIterations, func(item []*redis.IntCmd) {
		for _, c := range item {
			if c.Val() == 0 {
				return
			}
		}
		present++
	})
	return present, err
}

// eachItem regroups the flat batch results back into per-item windows of
// hashIterations commands. A cardinality mismatch between what was issued
// and what came back is ErrBatchFailure; the first per-command error aborts
// the whole call with no partial aggregate.
func (s *filterStore) eachItem(cmds []*redis.IntCmd, hashIterations int64, fn func([]*redis.IntCmd)) error {
	k := int(hashIterations)
	if k <= 0 || len(cmds)%k != 0 {
		return fmt.Errorf("%w: %d results for batches of %d", ErrBatchFailure, len(cmds), k)
	}
	for _, c := range cmds {
		if err := c.Err(); err != nil {
			return fmt.Errorf("bit operation on %q: %w", s.name, err)
		}
	}
	for i := 0; i < len(cmds); i += k {
		fn(cmds[i : i+k])
	}
	return nil
}

// bitCount returns the population count over the whole bit array.
func (s *filterStore) bitCount(ctx context.Context) (int64, error) {
	n, err := s.rdb.BitCount(ctx, s.bitsKey(), nil).Result()
	if err != nil {
		return 0, fmt.Errorf("counting bits for %q: %w", s.name, err)
	}
	return n, nil
}

// drop removes both keys and reports whether at least one existed.
func (s *filterStore) drop(ctx context.Context) (bool, error) {
	n, err := s.rdb.Del(ctx, s.bitsKey(), s.configKey()).Result()
	if err != nil {
		return false, fmt.Errorf("deleting filter %q: %w", s.name, err)
	}
	return n > 0, nil
}

// exists reports whether the configuration key exists. The bit array is not
// separately observable; the two keys share a lifecycle.
func (s *filterStore) exists(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.configKey()).Result()
	if err != nil {
		return false, fmt.Errorf("checking filter %q: %w", s.name, err)
	}
	return n == 1, nil
}

// rename moves both keys to the pair derived from newName and repoints this
// store at it. An uninitialized filter cannot be renamed.
func (s *filterStore) rename(ctx context.Context, newName string) error {
	next := filterStore{name: newName}
	res, err := renameScript.Run(ctx, s.rdb,
		[]string{s.bitsKey(), s.configKey(), next.bitsKey(), next.configKey()},
	).Int()
	if err != nil {
		return fmt.Errorf("renaming filter %q to %q: %w", s.name, newName, err)
	}
	if res == 0 {
		return fmt.Errorf("%w: %q", ErrNotInitialized, s.name)
	}
	s.name = newName
	return nil
}

// remainingTTL returns the time until the filter expires, 0 when no expiry
// is set, ErrNotInitialized when the configuration key is gone.
func (s *filterStore) remainingTTL(ctx context.Context) (time.Duration, error) {
	d, err := s.rdb.PTTL(ctx, s.configKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("reading ttl for %q: %w", s.name, err)
	}
	// PTTL signals a missing key as -2 and a key without expiry as -1; the
	// client passes both through undecoded.
	if d == -2 {
		return 0, fmt.Errorf("%w: %q", ErrNotInitialized, s.name)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}
