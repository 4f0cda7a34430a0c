package darray

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/kmedgo/comm"
	"github.com/hupe1980/kmedgo/internal/mmap"
)

// LoadDense builds a partitioned matrix from a raw matrix file:
// row-major little-endian float32 values, rows*cols*4 bytes. Every
// worker maps the file read-only and decodes only its own row range.
// Collective.
func LoadDense(c *comm.Communicator, path string, cols int) (*Matrix, error) {
	if cols <= 0 {
		return nil, fmt.Errorf("cols must be positive, got %d", cols)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	data := m.Bytes()
	if len(data)%(4*cols) != 0 {
		return nil, fmt.Errorf("file size %d is not a multiple of row size %d", len(data), 4*cols)
	}
	rows := len(data) / (4 * cols)

	part := NewPartition(rows, c.Size())
	off := part.Offset(c.Rank()) * cols
	n := part.Count(c.Rank()) * cols

	local := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[(off+i)*4:])
		local[i] = math.Float32frombits(bits)
	}

	return &Matrix{c: c, cols: cols, part: part, local: local}, nil
}
