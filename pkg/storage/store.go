// Copyright © 2026 TreeCAS Authors

package storage

import (
	"context"
	"io"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrNotFound is reported when a key has no object in the store
	ErrNotFound errString = "not found"

	// ErrExists is reported on exclusive writes over an existing key
	ErrExists errString = "exists already"

	// ErrNotSupported is reported for operations a backend cannot carry out
	ErrNotSupported errString = "not supported"

	// ErrObjectTooBig is reported when an object exceeds the in-memory read limit
	ErrObjectTooBig errString = "object too big to be read into memory"
)

// Put flags: an exclusive Put fails with ErrExists when the key is already present.
const (
	OverWrite    = false
	IfNotPresent = true
)

// Store implementations know how to write entries to a K/V model store.
//
// Typically this is something file system-like. Examples are local FS, NFS,
// in-memory maps for testing, ...
// Implementations of this interface are assumed to be fairly simple.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// PipeIO copies a reader out to a writer with a fixed intermediate buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	buf := make([]byte, 32*1024)
	return io.CopyBuffer(writer, reader, buf)
}
