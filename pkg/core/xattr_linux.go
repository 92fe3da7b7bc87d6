// Copyright © 2026 TreeCAS Authors

//go:build linux

package core

import (
	"encoding/base64"
	"fmt"

	"golang.org/x/sys/unix"
)

// applyXattrs sets extended attributes on an open file or directory.
// Values are stored base64-encoded in tree entries.
func applyXattrs(fd int, xattrs map[string]string) error {
	for name, encoded := range xattrs {
		value, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("xattr %q: %v", name, err)
		}
		if err := unix.Fsetxattr(fd, name, value, 0); err != nil {
			return fmt.Errorf("xattr %q: %w", name, err)
		}
	}
	return nil
}
