package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Model is the persisted form of a fitted clustering model.
type Model struct {
	K          int
	Dim        int
	Iterations int
	Inertia    float64
	Centers    []float32 // k*dim, row-major
}

// Validate checks internal consistency.
func (m *Model) Validate() error {
	if m.K < 1 || m.Dim < 1 {
		return fmt.Errorf("invalid model shape %dx%d", m.K, m.Dim)
	}
	if len(m.Centers) != m.K*m.Dim {
		return fmt.Errorf("center buffer length %d does not match %dx%d", len(m.Centers), m.K, m.Dim)
	}
	return nil
}

// Write encodes the model to w using the given compression codec.
func Write(w io.Writer, m *Model, codec Codec) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !codec.valid() {
		return fmt.Errorf("unknown codec %d", uint8(codec))
	}

	payload, err := compress(encodePayload(m), codec)
	if err != nil {
		return err
	}

	header := make([]byte, 16)
	copy(header[0:4], Magic[:])
	binary.LittleEndian.PutUint16(header[4:6], Version)
	header[6] = byte(codec)
	binary.LittleEndian.PutUint64(header[8:16], uint64(len(payload)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}

	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], checksum(payload))
	_, err = w.Write(crc[:])
	return err
}

// Read decodes a model from r, verifying version and checksum.
func Read(r io.Reader) (*Model, error) {
	header := make([]byte, 16)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	if !bytes.Equal(header[0:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v > Version {
		return nil, &ErrUnsupportedVersion{Version: v}
	}
	codec := Codec(header[6])
	if !codec.valid() {
		return nil, fmt.Errorf("unknown codec %d", header[6])
	}

	payloadLen := binary.LittleEndian.Uint64(header[8:16])
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	var crc [4]byte
	if _, err := io.ReadFull(r, crc[:]); err != nil {
		return nil, err
	}
	if err := verifyChecksum(payload, binary.LittleEndian.Uint32(crc[:])); err != nil {
		return nil, err
	}

	raw, err := decompress(payload, codec)
	if err != nil {
		return nil, err
	}

	return decodePayload(raw)
}

// Save writes the model to path atomically (temp file + rename).
func Save(path string, m *Model, codec Codec) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, m, codec); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Load reads a model from path.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

func encodePayload(m *Model) []byte {
	buf := make([]byte, 20+4*len(m.Centers))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(m.K))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(m.Dim))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(m.Iterations))
	binary.LittleEndian.PutUint64(buf[12:20], math.Float64bits(m.Inertia))
	for i, v := range m.Centers {
		binary.LittleEndian.PutUint32(buf[20+i*4:], math.Float32bits(v))
	}
	return buf
}

func decodePayload(buf []byte) (*Model, error) {
	if len(buf) < 20 {
		return nil, fmt.Errorf("snapshot payload truncated: %d bytes", len(buf))
	}

	m := &Model{
		K:          int(binary.LittleEndian.Uint32(buf[0:4])),
		Dim:        int(binary.LittleEndian.Uint32(buf[4:8])),
		Iterations: int(binary.LittleEndian.Uint32(buf[8:12])),
		Inertia:    math.Float64frombits(binary.LittleEndian.Uint64(buf[12:20])),
	}

	want := m.K * m.Dim
	if len(buf) != 20+4*want {
		return nil, fmt.Errorf("snapshot payload length %d does not match %dx%d centers", len(buf), m.K, m.Dim)
	}

	m.Centers = make([]float32, want)
	for i := range m.Centers {
		m.Centers[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[20+i*4:]))
	}

	return m, m.Validate()
}

func compress(raw []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return raw, nil

	case CodecZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil

	case CodecLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown codec %d", uint8(codec))
	}
}

func decompress(payload []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return payload, nil

	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(payload, nil)

	case CodecLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))

	default:
		return nil, fmt.Errorf("unknown codec %d", uint8(codec))
	}
}
