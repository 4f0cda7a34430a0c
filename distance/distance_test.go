package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManhattan(t *testing.T) {
	assert.InDelta(t, 7.0, Manhattan([]float32{1, 2, 3}, []float32{3, 0, 0}), 1e-6)
}

func TestSquaredL2(t *testing.T) {
	assert.InDelta(t, 25.0, SquaredL2([]float32{0, 0}, []float32{3, 4}), 1e-6)
}

func TestProvider(t *testing.T) {
	fn, err := Provider(MetricManhattan)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fn([]float32{1, 1}, []float32{0, 0}), 1e-6)

	fn, err = Provider(MetricSquaredL2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fn([]float32{1, 1}, []float32{0, 0}), 1e-6)

	_, err = Provider(Metric(999))
	assert.Error(t, err)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "Manhattan", MetricManhattan.String())
	assert.Equal(t, "SquaredL2", MetricSquaredL2.String())
	assert.Equal(t, "Unknown(999)", Metric(999).String())
}
