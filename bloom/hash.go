package bloom

import "github.com/spaolacci/murmur3"

// Sum128 hashes data with one 128 bit murmur3 (x64) computation and returns
// the two 64 bit halves of the digest. Both double hashing seeds come from
// the single pass over the data; no second hash function is involved.
func Sum128(data []byte) (hash1, hash2 uint64) {
	return murmur3.Sum128(data)
}
