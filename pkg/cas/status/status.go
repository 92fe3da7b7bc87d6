// Package status exports errors produced by the cas package.
package status

import (
	"github.com/treecas/treecas/pkg/errors"
)

var (
	// ErrNotFound indicates the referenced object is absent from the store
	ErrNotFound = errors.New("object not found in store")

	// ErrCorrupt indicates stored data failed integrity verification
	ErrCorrupt = errors.New("object failed integrity verification")

	// ErrInvalidObject indicates stored data does not parse as a known object kind
	ErrInvalidObject = errors.New("object is not of a known kind")
)
