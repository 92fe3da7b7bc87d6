// Copyright © 2026 TreeCAS Authors

// Package storage provides an interface to handle backend storage objects.
//
// This package supports the following backends:
//   - local file system
//   - any afero file system (in particular, in-memory maps for testing)
package storage
