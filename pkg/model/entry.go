// Copyright © 2026 TreeCAS Authors

package model

import (
	"fmt"
	"os"
	"strings"
)

// EntryKind tells what a tree entry points to.
type EntryKind string

const (
	// KindFile is a regular file entry, Hash refers to a file object
	KindFile EntryKind = "file"

	// KindDir is a directory entry, Hash refers to a child tree object
	KindDir EntryKind = "dir"

	// KindSymlink is a symbolic link entry, LinkTarget holds the target
	KindSymlink EntryKind = "symlink"
)

// Entry is one item in a directory listing: a name, its metadata, and either
// a content checksum (files), a child tree checksum (directories) or a link
// target (symlinks).
type Entry struct {
	Name       string            `json:"name" yaml:"name"`
	Kind       EntryKind         `json:"kind" yaml:"kind"`
	Mode       os.FileMode       `json:"mode" yaml:"mode"`
	UID        int               `json:"uid" yaml:"uid"`
	GID        int               `json:"gid" yaml:"gid"`
	Size       int64             `json:"size,omitempty" yaml:"size,omitempty"`
	Hash       string            `json:"hash,omitempty" yaml:"hash,omitempty"`
	LinkTarget string            `json:"target,omitempty" yaml:"target,omitempty"`
	Xattrs     map[string]string `json:"xattrs,omitempty" yaml:"xattrs,omitempty"`
	_          struct{}
}

// Validate checks that an entry is well-formed on its own.
func (e *Entry) Validate() error {
	if e.Name == "" || e.Name == "." || e.Name == ".." {
		return fmt.Errorf("invalid entry name %q", e.Name)
	}
	if strings.ContainsAny(e.Name, "/\x00") {
		return fmt.Errorf("entry name %q must be a single path component", e.Name)
	}
	switch e.Kind {
	case KindFile, KindDir:
		if e.Hash == "" {
			return fmt.Errorf("entry %q: %s entries require a hash", e.Name, e.Kind)
		}
	case KindSymlink:
		if e.LinkTarget == "" {
			return fmt.Errorf("entry %q: symlink entries require a target", e.Name)
		}
	default:
		return fmt.Errorf("entry %q: unknown kind %q", e.Name, e.Kind)
	}
	return nil
}

// FileEntry builds a regular file entry.
func FileEntry(name string, mode os.FileMode, hash string, size int64) Entry {
	return Entry{Name: name, Kind: KindFile, Mode: mode, Hash: hash, Size: size}
}

// DirEntry builds a directory entry pointing to a child tree.
func DirEntry(name string, mode os.FileMode, hash string) Entry {
	return Entry{Name: name, Kind: KindDir, Mode: mode, Hash: hash}
}

// SymlinkEntry builds a symbolic link entry.
func SymlinkEntry(name, target string) Entry {
	return Entry{Name: name, Kind: KindSymlink, Mode: 0777, LinkTarget: target}
}
