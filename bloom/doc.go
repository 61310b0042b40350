package bloom

/*

# Bloom filter mathematics for store-resident bit arrays

This package provides the pure arithmetic of a Bloom filter whose bit array
lives somewhere else, typically in a shared remote store. It is built from
small composable functions:

- deterministic functions over explicit integer domains
- no allocation beyond what the caller asks for
- a burden of knowledge on the caller for hot paths

There is deliberately no bit storage here. Callers derive the filter geometry
with OptimalBits and OptimalHashIterations, hash each item once with Sum128,
expand the two seeds into bit positions with Indexes or AppendIndexes, and
apply those positions to whatever holds the bits. The sibling redisbloom
package keeps the bits in Redis.

## What Bloom filters are (and are not)

Bloom filters provide a *probabilistic set membership* test:

- If the filter says "definitely not present", the element is not present.
- If the filter says "maybe present", the element may or may not be present
  (false positives are possible, at a rate tuned by the sizing functions).

Bits only ever transition 0 -> 1. There is no removal, and no resizing after
creation: the geometry (m bits, k positions per item) is fixed by the target
capacity n and false positive probability p.

## Index derivation

Items are hashed exactly once, with a 128 bit murmur3 computation over the
item's canonical serialization. The digest halves seed an extended double
hashing sequence:

	acc = hash1
	for i in 0..k-1:
	    index[i] = (acc with the top bit cleared) mod m
	    acc += hash2   when i is even
	    acc += hash1   when i is odd

The accumulator wraps with ordinary 64 bit arithmetic; clearing the top bit
before the modulo keeps every index a non-negative magnitude in [0, m). The
alternating addend decorrelates successive indexes better than the plain
(h1 + i*h2) ladder at the cost of one extra addition per round.

## Cardinality

EstimateCardinality inverts the expected fill rate of the bit array to
recover an approximate count of inserted items from a bit population count.
The estimate degrades as the filter saturates and is unbounded when every
bit is set.

*/
