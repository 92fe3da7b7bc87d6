// Copyright © 2026 TreeCAS Authors

package model

import (
	"fmt"
	"sort"

	yaml "gopkg.in/yaml.v2"
)

// CurrentTreeVersion is the version written by this release for tree objects.
const CurrentTreeVersion = 1

// Tree is the listing of one directory: an ordered sequence of entries.
type Tree struct {
	Version uint64  `json:"version" yaml:"version"`
	Entries []Entry `json:"entries" yaml:"entries"`
	_       struct{}
}

// Validate checks entry well-formedness, ordering and name uniqueness.
func (t *Tree) Validate() error {
	if t.Version == 0 || t.Version > CurrentTreeVersion {
		return fmt.Errorf("unsupported tree version %d", t.Version)
	}
	prev := ""
	for i := range t.Entries {
		e := &t.Entries[i]
		if err := e.Validate(); err != nil {
			return err
		}
		if i > 0 && e.Name <= prev {
			return fmt.Errorf("tree entries out of order at %q", e.Name)
		}
		prev = e.Name
	}
	return nil
}

// Lookup returns the entry with the given name, or nil.
func (t *Tree) Lookup(name string) *Entry {
	i := sort.Search(len(t.Entries), func(i int) bool { return t.Entries[i].Name >= name })
	if i < len(t.Entries) && t.Entries[i].Name == name {
		return &t.Entries[i]
	}
	return nil
}

// NewTree builds a tree from entries, sorting them by name.
func NewTree(entries []Entry) *Tree {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Tree{Version: CurrentTreeVersion, Entries: sorted}
}

// MarshalTree serializes a tree after validating it.
func MarshalTree(t *Tree) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(t)
}

// UnmarshalTree deserializes and validates a tree object payload.
func UnmarshalTree(data []byte) (*Tree, error) {
	var t Tree
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
