// Package status exports errors produced by the core package.
package status

import (
	"github.com/treecas/treecas/pkg/errors"
)

var (
	// ErrContentMissing indicates a referenced object is absent from the
	// object store: data corruption or an incomplete transfer
	ErrContentMissing = errors.New("content object missing from store")

	// ErrCorrupt indicates an object failed integrity verification on read
	ErrCorrupt = errors.New("content object failed integrity verification")

	// ErrIOFailure indicates the destination filesystem rejected a write
	ErrIOFailure = errors.New("destination filesystem rejected write")

	// ErrFilterFailed indicates the caller-supplied checkout filter failed
	ErrFilterFailed = errors.New("checkout filter failed")

	// ErrCancelled indicates a caller-requested abort was observed at a checkpoint
	ErrCancelled = errors.New("checkout cancelled")

	// ErrNoObjectStore indicates the checkout was built without an object store
	ErrNoObjectStore = errors.New("no object store configured")
)
