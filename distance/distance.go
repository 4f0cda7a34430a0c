package distance

import (
	"fmt"

	"github.com/hupe1980/kmedgo/internal/math32"
)

// Manhattan calculates the L1 (city-block) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Manhattan(a, b []float32) float32 {
	return math32.Manhattan(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// Metric represents the distance metric used for cluster assignment.
type Metric int

const (
	MetricManhattan Metric = iota
	MetricSquaredL2
)

func (m Metric) String() string {
	switch m {
	case MetricManhattan:
		return "Manhattan"
	case MetricSquaredL2:
		return "SquaredL2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricManhattan:
		return Manhattan, nil
	case MetricSquaredL2:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
