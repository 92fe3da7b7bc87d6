// Copyright © 2026 TreeCAS Authors

// Package core implements the checkout engine: materializing a commit or
// tree from a content-addressed object store into a directory on disk.
//
// The engine walks the tree depth-first and writes through an already-open
// destination directory handle, using handle-relative filesystem operations
// only. Paths are computed solely for filter decisions and error reporting,
// never resolved independently, which keeps a concurrent symlink swap in
// the destination from redirecting writes.
//
// A checkout is single-threaded and synchronous. Independent checkouts over
// disjoint destinations may run concurrently; a DevInoCache shared between
// them must be serialized by the caller.
package core
