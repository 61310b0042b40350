package bloom

import (
	"fmt"
	"math"
)

// OptimalBits returns the bit array length m satisfying falseProbability for
// expectedInsertions items:
//
//	m = floor(-n * ln(p) / ln(2)^2)
//
// A falseProbability of exactly 0 is substituted with the smallest positive
// float64 before taking the logarithm, so the effective domain of p is
// (0, 1]. Probabilities below 0 or above 1 fail with ErrFalseProbability. A
// result of zero bits (including any expectedInsertions <= 0) fails with
// ErrZeroBits, and a result beyond MaxBits fails with ErrBitsOverflow.
func OptimalBits(expectedInsertions int64, falseProbability float64) (int64, error) {
	if falseProbability < 0 || falseProbability > 1 {
		return 0, fmt.Errorf("%w: got %v", ErrFalseProbability, falseProbability)
	}
	p := falseProbability
	if p == 0 {
		p = math.SmallestNonzeroFloat64
	}
	m := math.Floor(-float64(expectedInsertions) * math.Log(p) / (math.Ln2 * math.Ln2))
	if m <= 0 {
		return 0, fmt.Errorf(
			"%w: expectedInsertions=%d falseProbability=%v",
			ErrZeroBits, expectedInsertions, falseProbability)
	}
	if m > float64(MaxBits) {
		return 0, fmt.Errorf(
			"%w: need %.0f bits for expectedInsertions=%d falseProbability=%v",
			ErrBitsOverflow, m, expectedInsertions, falseProbability)
	}
	return int64(m), nil
}

// OptimalHashIterations returns the number of bit positions k derived per
// item for a filter of bits length sized for expectedInsertions items:
//
//	k = max(1, round(m/n * ln 2))
//
// The caller is responsible for ensuring expectedInsertions > 0 and
// bits > 0; OptimalBits enforces both.
func OptimalHashIterations(expectedInsertions, bits int64) int64 {
	if expectedInsertions <= 0 {
		return 1
	}
	k := int64(math.Round(float64(bits) / float64(expectedInsertions) * math.Ln2))
	if k < 1 {
		return 1
	}
	return k
}

// EstimateCardinality recovers an approximate count of inserted items from
// the population count of a filter with bits total bits and hashIterations
// positions per item:
//
//	round(-(m/k) * ln(1 - ones/m))
//
// Zero set bits estimate zero items. A saturated filter (every bit set)
// has an unbounded estimate and returns math.MaxInt64.
func EstimateCardinality(bits, hashIterations, bitsSet int64) int64 {
	if bitsSet <= 0 {
		return 0
	}
	if bitsSet >= bits {
		return math.MaxInt64
	}
	fill := float64(bitsSet) / float64(bits)
	est := -(float64(bits) / float64(hashIterations)) * math.Log(1-fill)
	return int64(math.Round(est))
}
