package bloom

import "errors"

// MaxBits is the largest supported bit array length. A Redis string value
// holds at most 512MB, so bit offsets address at most 2^32 bits; any store
// with a wider addressable range still satisfies filters sized within this
// ceiling.
const MaxBits = int64(1) << 32

var (
	ErrFalseProbability = errors.New("bloom: false probability must be in [0, 1]")
	ErrZeroBits         = errors.New("bloom: calculated bit length is zero")
	ErrBitsOverflow     = errors.New("bloom: calculated bit length exceeds MaxBits")
)
