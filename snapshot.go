package kmedgo

import (
	"bytes"
	"context"
	"errors"

	"github.com/hupe1980/kmedgo/blobstore"
	"github.com/hupe1980/kmedgo/comm"
	"github.com/hupe1980/kmedgo/persistence"
)

// ErrPublishFailed is returned on every worker when rank 0 could not
// write the snapshot.
var ErrPublishFailed = errors.New("snapshot publish failed")

// Model converts a fit result into its persisted form.
func (r *Result) Model() *persistence.Model {
	centers := make([]float32, len(r.Centers.Data()))
	copy(centers, r.Centers.Data())

	return &persistence.Model{
		K:          r.Centers.Rows(),
		Dim:        r.Centers.Cols(),
		Iterations: r.Iterations,
		Inertia:    r.Inertia,
		Centers:    centers,
	}
}

// SaveSnapshot encodes a fit result and writes it to a blob store.
func SaveSnapshot(ctx context.Context, store blobstore.Store, name string, r *Result, codec persistence.Codec) error {
	var buf bytes.Buffer
	if err := persistence.Write(&buf, r.Model(), codec); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// LoadSnapshot reads a model back from a blob store.
func LoadSnapshot(ctx context.Context, store blobstore.Store, name string) (*persistence.Model, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}
	return persistence.Read(bytes.NewReader(data))
}

// PublishSnapshot writes a fit result to a blob store from inside a
// worker group. Centers are replicated, so only rank 0 uploads; the
// outcome is broadcast so every worker agrees on success or failure.
//
// All workers must call PublishSnapshot. It is a collective operation.
func PublishSnapshot(ctx context.Context, c *comm.Communicator, store blobstore.Store, name string, r *Result, codec persistence.Codec) error {
	var rootErr error
	if c.Rank() == 0 {
		rootErr = SaveSnapshot(ctx, store, name, r, codec)
	}

	status := 0
	if rootErr != nil {
		status = 1
	}
	if c.BcastInt(status, 0) != 0 {
		if rootErr != nil {
			return rootErr
		}
		return ErrPublishFailed
	}
	return nil
}
