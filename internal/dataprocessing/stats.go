package dataprocessing

import (
	"math"
	"sort"
)

// Median returns the median of x, averaging the two middle values when the
// length is even. An empty slice yields NaN. x is not modified.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	mid := n / 2
	if n%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

// observedValues returns the values whose observed flag is set
func observedValues(values []float64, observed []bool) []float64 {
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if observed[i] {
			out = append(out, v)
		}
	}
	return out
}

// maxAbs returns the largest absolute value of x, or 0 for an empty slice
func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// infNormDiff is the infinity norm of a-b: the largest absolute row sum of
// the element-wise difference.
func infNormDiff(a, b [][]float64) float64 {
	norm := 0.0
	for i := range a {
		sum := 0.0
		for j := range a[i] {
			sum += math.Abs(a[i][j] - b[i][j])
		}
		if sum > norm {
			norm = sum
		}
	}
	return norm
}
