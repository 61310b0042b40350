// Package redisbloom provides a Bloom filter whose bit array and
// configuration live in Redis, so any number of processes can test and
// update membership against the same logical filter.
package redisbloom

/*

# A Bloom filter with store-resident bits

The filter itself holds no durable state. For a filter named `jobs` two keys
exist in the store:

	jobs           -> the bit array, a plain string value addressed with
	                  SETBIT/GETBIT/BITCOUNT
	jobs:config    -> a hash with the immutable geometry and sizing inputs:
	                  size, hashIterations, expectedInsertions (decimal
	                  integers) and falseProbability (plain decimal)

Configuration exists if and only if the bit array has been initialized; both
keys are created together by one atomic script and destroyed together by
Delete. Bits only ever transition 0 -> 1.

## Atomicity

TryInit is the single operation needing cross-process atomicity, and it gets
it from a server-side script: under concurrent initialization of the same
name exactly one caller writes the configuration, materializes the bit array
key (bit 0 is touched with a no-op write purely so the key exists), applies
the optional TTL to both keys, and observes true. Everyone else observes
false and adopts the winner's geometry.

AddAll and ContainsAll batch all of one call's bit operations into a single
pipelined round trip. The pipeline is not a transaction: bit writes from
concurrent calls may interleave bit-by-bit, which is sound for monotonic
bits and approximate membership.

## Local caching

Each Filter instance caches the geometry (size, hashIterations) after its
first successful load and treats it as final: the stored configuration is
immutable for the life of the filter, so nothing ever invalidates the cache
remotely. Only Delete on the same instance resets it. Instances constructed
after a delete or an expiry observe ErrNotInitialized until someone
initializes again.

## Failure model

No operation retries. Parameter validation happens before any round trip;
a missing configuration where one is required fails with ErrNotInitialized;
a batch whose result cardinality does not match what was issued fails with
ErrBatchFailure; any command error aborts the whole call and surfaces
wrapped, never swallowed.

## Cluster

The two keys hash to the same cluster slot only when the filter name is
brace-tagged, for example "{jobs}". Single-node and Ring deployments need
no tagging.

*/
