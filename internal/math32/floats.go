// Package math32 provides float32 vector kernels for the distance package.
// This is an internal package - external users should use the distance package.
package math32

// Manhattan calculates the L1 (city-block) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Manhattan(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		distance += d
	}

	return distance
}

// SquaredL2 calculates the squared L2 (Euclidean) distance.
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// AbsSum returns the sum of absolute values of a.
func AbsSum(a []float32) float32 {
	var sum float32
	for _, v := range a {
		if v < 0 {
			v = -v
		}
		sum += v
	}

	return sum
}
