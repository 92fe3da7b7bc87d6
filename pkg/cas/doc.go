// Copyright © 2026 TreeCAS Authors

// Package cas implements the read side of a content-addressed object store.
//
// Objects are addressed by the blake2b hash of their stored bytes. Three
// kinds of objects exist: file contents, directory trees and commits. The
// store resolves a key to a typed view of the object, verifying integrity
// on every read.
//
// The implementation of the Blake hash we use (https://github.com/minio/blake2b-simd)
// is 3 to 5 times faster than usual hashes such as MD5 or SHA's.
package cas
