// Package persistence provides durable snapshots of fitted models.
//
// A snapshot is a small binary blob holding the cluster centers and
// fit statistics, protected by a CRC32 integrity checksum and
// optionally compressed. Snapshots are written by rank 0 after a fit
// and can warm-start a later fit on any group size, since centers are
// fully replicated.
package persistence
