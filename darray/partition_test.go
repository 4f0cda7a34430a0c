package darray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPartition(t *testing.T) {
	p := NewPartition(10, 4)
	assert.Equal(t, []int{3, 3, 2, 2}, p.counts)
	assert.Equal(t, []int{0, 3, 6, 8}, p.displs)
	assert.Equal(t, 10, p.Rows())
	assert.Equal(t, 4, p.Size())
}

func TestNewPartitionFewerRowsThanWorkers(t *testing.T) {
	p := NewPartition(2, 4)
	assert.Equal(t, []int{1, 1, 0, 0}, p.counts)
	assert.Equal(t, 2, p.Rows())
}

func TestPartitionOwner(t *testing.T) {
	p := NewPartition(10, 4)

	cases := map[int]int{0: 0, 2: 0, 3: 1, 5: 1, 6: 2, 7: 2, 8: 3, 9: 3}
	for global, want := range cases {
		got, err := p.Owner(global)
		require.NoError(t, err)
		assert.Equal(t, want, got, "row %d", global)
	}

	_, err := p.Owner(-1)
	assert.Error(t, err)
	_, err = p.Owner(10)
	assert.Error(t, err)
}

func TestPartitionOwnerSkipsEmptyRanks(t *testing.T) {
	p := newPartitionFromCounts([]int{0, 2, 0, 1})

	owner, err := p.Owner(0)
	require.NoError(t, err)
	assert.Equal(t, 1, owner)

	owner, err = p.Owner(2)
	require.NoError(t, err)
	assert.Equal(t, 3, owner)
}

func TestPartitionEqual(t *testing.T) {
	assert.True(t, NewPartition(10, 4).equal(NewPartition(10, 4)))
	assert.False(t, NewPartition(10, 4).equal(NewPartition(10, 2)))
	assert.False(t, NewPartition(10, 4).equal(newPartitionFromCounts([]int{4, 2, 2, 2})))
}
