// Copyright © 2026 TreeCAS Authors

// Package model describes the objects stored in a treecas repository:
// directory trees and commits, and the entries trees are made of.
//
// Objects are serialized as YAML documents. A tree's entries are kept
// sorted by name so that the serialized form, and therefore the content
// checksum, is deterministic.
package model
