package comm

import (
	"context"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// Group is the shared state of a worker group. All communicators of a
// group exchange data through the group's rendezvous slots.
type Group struct {
	size    int
	barrier *barrier
	slots   []any
}

// NewGroup creates a worker group of the given size.
func NewGroup(size int) (*Group, error) {
	if size < 1 {
		return nil, fmt.Errorf("group size must be positive, got %d", size)
	}
	return &Group{
		size:    size,
		barrier: newBarrier(size),
		slots:   make([]any, size),
	}, nil
}

// Size returns the number of workers in the group.
func (g *Group) Size() int { return g.size }

// Communicator returns the communicator for the given rank.
func (g *Group) Communicator(rank int) (*Communicator, error) {
	if rank < 0 || rank >= g.size {
		return nil, fmt.Errorf("rank %d out of range [0,%d)", rank, g.size)
	}
	return &Communicator{g: g, rank: rank}, nil
}

// Run executes fn once per rank, each on its own goroutine, and blocks
// until all workers return. The first non-nil error is returned.
//
// ctx is passed through to fn; it does not interrupt collectives that
// are already in flight.
func Run(ctx context.Context, size int, fn func(ctx context.Context, c *Communicator) error) error {
	g, err := NewGroup(size)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < size; rank++ {
		c := &Communicator{g: g, rank: rank}
		eg.Go(func() error {
			return fn(ctx, c)
		})
	}
	return eg.Wait()
}

// Communicator is one worker's handle on the group. It is not safe for
// concurrent use by multiple goroutines.
type Communicator struct {
	g    *Group
	rank int
}

// Rank returns this worker's rank in [0, Size).
func (c *Communicator) Rank() int { return c.rank }

// Size returns the number of workers in the group.
func (c *Communicator) Size() int { return c.g.size }

// Barrier blocks until every worker in the group has reached it.
func (c *Communicator) Barrier() {
	c.g.barrier.await()
}

// exchange deposits in into this worker's slot and returns a snapshot
// of all slots. The trailing barrier makes the slots reusable by the
// next collective.
func (c *Communicator) exchange(in any) []any {
	g := c.g
	g.slots[c.rank] = in
	g.barrier.await()

	out := make([]any, g.size)
	copy(out, g.slots)
	g.barrier.await()

	return out
}

// BcastFloat32s replicates root's buffer to every worker. Each worker
// (including root) receives an independent copy.
func (c *Communicator) BcastFloat32s(buf []float32, root int) []float32 {
	var in any
	if c.rank == root {
		in = buf
	}
	out := c.exchange(in)

	src, _ := out[root].([]float32)
	dst := make([]float32, len(src))
	copy(dst, src)
	return dst
}

// BcastInt replicates root's value to every worker.
func (c *Communicator) BcastInt(v int, root int) int {
	var in any
	if c.rank == root {
		in = v
	}
	out := c.exchange(in)
	return out[root].(int)
}

// BcastFloat64 replicates root's value to every worker.
func (c *Communicator) BcastFloat64(v float64, root int) float64 {
	var in any
	if c.rank == root {
		in = v
	}
	out := c.exchange(in)
	return out[root].(float64)
}

// AllgatherInt gathers one int per worker, ordered by rank.
func (c *Communicator) AllgatherInt(v int) []int {
	out := c.exchange(v)

	res := make([]int, len(out))
	for i, o := range out {
		res[i] = o.(int)
	}
	return res
}

// AllgatherFloat32s gathers each worker's local buffer, ordered by
// rank. The returned slices are independent copies.
func (c *Communicator) AllgatherFloat32s(local []float32) [][]float32 {
	out := c.exchange(local)

	res := make([][]float32, len(out))
	for i, o := range out {
		src, _ := o.([]float32)
		dst := make([]float32, len(src))
		copy(dst, src)
		res[i] = dst
	}
	return res
}

// AllgatherFloat64 gathers one float64 per worker, ordered by rank.
func (c *Communicator) AllgatherFloat64(v float64) []float64 {
	out := c.exchange(v)

	res := make([]float64, len(out))
	for i, o := range out {
		res[i] = o.(float64)
	}
	return res
}

// AllreduceSum returns the sum of every worker's contribution.
func (c *Communicator) AllreduceSum(v float64) float64 {
	out := c.exchange(v)

	var sum float64
	for _, o := range out {
		sum += o.(float64)
	}
	return sum
}

// AllreduceOr returns the union of every worker's bitmap. The result
// is a fresh bitmap on every worker; bm is not modified.
func (c *Communicator) AllreduceOr(bm *roaring.Bitmap) *roaring.Bitmap {
	out := c.exchange(bm)

	res := roaring.New()
	for _, o := range out {
		if b, ok := o.(*roaring.Bitmap); ok && b != nil {
			res.Or(b)
		}
	}
	return res
}

// barrier is a cyclic rendezvous for a fixed number of participants.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	gen     uint64
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) await() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.gen++
		b.cond.Broadcast()
		return
	}

	gen := b.gen
	for gen == b.gen {
		b.cond.Wait()
	}
}
