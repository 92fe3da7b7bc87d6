// Copyright © 2026 TreeCAS Authors

package core

import (
	"fmt"

	casstatus "github.com/treecas/treecas/pkg/cas/status"
	"github.com/treecas/treecas/pkg/core/status"
	"github.com/treecas/treecas/pkg/errors"
)

// Error reports a checkout failure, identifying the relative path being
// processed when the failure occurred. It matches the status sentinels
// with errors.Is.
type Error struct {
	// Path of the entry relative to the checkout root
	Path string

	// Kind is one of the status package sentinels
	Kind error

	// Cause is the underlying failure, when there is one
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("checkout %q: %v: %v", e.Path, e.Kind, e.Cause)
	}
	return fmt.Sprintf("checkout %q: %v", e.Path, e.Kind)
}

// Is matches the error kind
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap yields the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

func pathError(rel string, kind, cause error) *Error {
	return &Error{Path: rel, Kind: kind, Cause: cause}
}

// storeError translates object store failures into checkout errors at a path.
func storeError(rel string, err error) *Error {
	switch {
	case errors.Is(err, casstatus.ErrNotFound):
		return pathError(rel, status.ErrContentMissing, err)
	case errors.Is(err, casstatus.ErrCorrupt), errors.Is(err, casstatus.ErrInvalidObject):
		return pathError(rel, status.ErrCorrupt, err)
	default:
		return pathError(rel, status.ErrIOFailure, err)
	}
}
