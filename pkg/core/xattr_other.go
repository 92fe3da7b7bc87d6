// Copyright © 2026 TreeCAS Authors

//go:build !linux

package core

// applyXattrs is a no-op where extended attribute syscalls are not wired.
func applyXattrs(fd int, xattrs map[string]string) error {
	return nil
}
