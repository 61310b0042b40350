package bloom

import "math"

// Indexes expands the two seed hashes of one item into hashIterations bit
// positions in [0, bits) using the extended double hashing sequence
// described in doc.go.
func Indexes(hash1, hash2 uint64, hashIterations, bits int64) []int64 {
	return AppendIndexes(make([]int64, 0, hashIterations), hash1, hash2, hashIterations, bits)
}

// AppendIndexes appends the hashIterations bit positions for one item to dst
// and returns the extended slice. Batches built by repeated appends are flat
// and ordered: k consecutive positions per item, items in call order, which
// lets a store layer regroup per-item results positionally from a flat
// result array.
//
// The caller is responsible for ensuring bits > 0 and hashIterations > 0.
func AppendIndexes(dst []int64, hash1, hash2 uint64, hashIterations, bits int64) []int64 {
	acc := hash1
	for i := int64(0); i < hashIterations; i++ {
		// The accumulator wraps modulo 2^64; masking the top bit makes it a
		// non-negative magnitude before the reduction to [0, bits).
		dst = append(dst, int64((acc&math.MaxInt64)%uint64(bits)))
		if i%2 == 0 {
			acc += hash2
		} else {
			acc += hash1
		}
	}
	return dst
}
