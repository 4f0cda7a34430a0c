// Package mmap provides read-only memory-mapped file access.
//
// Data matrices are immutable for the duration of a fit, so loading
// them through a read-only mapping avoids copying multi-gigabyte
// training sets through kernel buffers on every worker.
//
// On unix platforms the mapping uses mmap(2); elsewhere the file is
// read into memory behind the same API.
package mmap
