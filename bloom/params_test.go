package bloom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimalBits(t *testing.T) {
	type args struct {
		n int64
		p float64
	}
	tests := []struct {
		name string
		args args
		want int64
	}{
		{"n=1 p=0.03", args{1, 0.03}, 7},
		{"n=100 p=0.03", args{100, 0.03}, 729},
		{"n=500 p=0.01", args{500, 0.01}, 4792},
		{"n=1000 p=0.01", args{1000, 0.01}, 9585},
		{"n=10M p=0.03", args{10_000_000, 0.03}, 72_984_408},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OptimalBits(tt.args.n, tt.args.p)
			if err != nil {
				t.Errorf("OptimalBits() err = %v", err)
			}
			if got != tt.want {
				t.Errorf("OptimalBits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptimalBitsRejectsBadParameters(t *testing.T) {
	_, err := OptimalBits(100, -0.01)
	require.ErrorIs(t, err, ErrFalseProbability)

	_, err = OptimalBits(100, 1.0001)
	require.ErrorIs(t, err, ErrFalseProbability)

	// p=1 sizes to zero bits, as does any n <= 0.
	_, err = OptimalBits(100, 1)
	require.ErrorIs(t, err, ErrZeroBits)

	_, err = OptimalBits(0, 0.03)
	require.ErrorIs(t, err, ErrZeroBits)

	_, err = OptimalBits(-10, 0.03)
	require.ErrorIs(t, err, ErrZeroBits)

	_, err = OptimalBits(10_000_000_000, 0.03)
	require.ErrorIs(t, err, ErrBitsOverflow)
}

func TestOptimalBitsZeroProbability(t *testing.T) {
	// p == 0 is substituted with the smallest positive float64 rather than
	// rejected, matching the substitution in the sizing formula.
	m, err := OptimalBits(100, 0)
	require.NoError(t, err)
	require.Greater(t, m, int64(0))
	require.LessOrEqual(t, m, MaxBits)
	require.GreaterOrEqual(t, OptimalHashIterations(100, m), int64(1))
}

func TestOptimalHashIterations(t *testing.T) {
	type args struct {
		n int64
		m int64
	}
	tests := []struct {
		name string
		args args
		want int64
	}{
		{"n=1 m=7", args{1, 7}, 5},
		{"n=100 m=729", args{100, 729}, 5},
		{"n=500 m=4792", args{500, 4792}, 7},
		{"n=1000 m=9585", args{1000, 9585}, 7},
		{"n=10M m=72984408", args{10_000_000, 72_984_408}, 5},
		{"clamped to 1", args{100, 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OptimalHashIterations(tt.args.n, tt.args.m); got != tt.want {
				t.Errorf("OptimalHashIterations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateCardinality(t *testing.T) {
	type args struct {
		m    int64
		k    int64
		ones int64
	}
	tests := []struct {
		name string
		args args
		want int64
	}{
		{"empty", args{1000, 5, 0}, 0},
		{"negative popcount", args{1000, 5, -1}, 0},
		{"fifth full", args{1000, 5, 200}, 45},
		{"half full", args{1000, 5, 500}, 139},
		{"saturated", args{1000, 5, 1000}, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateCardinality(tt.args.m, tt.args.k, tt.args.ones); got != tt.want {
				t.Errorf("EstimateCardinality() = %v, want %v", got, tt.want)
			}
		})
	}
}
