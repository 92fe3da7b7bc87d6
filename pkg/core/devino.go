// Copyright © 2026 TreeCAS Authors

package core

import (
	"github.com/treecas/treecas/pkg/cas"
)

// DevIno identifies a file on disk by device and inode number.
type DevIno struct {
	Dev uint64
	Ino uint64
}

type devinoEntry struct {
	key  cas.Key
	path string
}

// DevInoCache maps files already materialized on disk to their content
// checksum, so checkouts sharing the cache can hardlink instead of copying
// content again, and can recognize that an existing destination file is
// already identical.
//
// Entries are added, never evicted, for the cache's lifetime: callers
// needing bounded memory create a fresh cache per logical batch of
// checkouts. The cache has no internal synchronization: concurrent checkout
// calls sharing one instance must serialize access externally.
type DevInoCache struct {
	byDevIno map[DevIno]devinoEntry
	byKey    map[cas.Key]DevIno
}

// NewDevInoCache creates an empty cache, to be shared across checkout calls.
func NewDevInoCache() *DevInoCache {
	return &DevInoCache{
		byDevIno: make(map[DevIno]devinoEntry),
		byKey:    make(map[cas.Key]DevIno),
	}
}

// Lookup returns the content checksum recorded for a (device, inode) pair.
func (c *DevInoCache) Lookup(dev, ino uint64) (cas.Key, bool) {
	e, ok := c.byDevIno[DevIno{Dev: dev, Ino: ino}]
	if !ok {
		return cas.Key{}, false
	}
	return e.key, true
}

// Insert records that the file at (dev, ino) holds the content addressed by
// key. The path names one on-disk instance of that content, kept so later
// checkouts can hardlink from it.
func (c *DevInoCache) Insert(dev, ino uint64, key cas.Key, path string) {
	di := DevIno{Dev: dev, Ino: ino}
	c.byDevIno[di] = devinoEntry{key: key, path: path}
	if _, ok := c.byKey[key]; !ok {
		c.byKey[key] = di
	}
}

// Source returns the path of a known on-disk file holding the content
// addressed by key, if any was recorded.
func (c *DevInoCache) Source(key cas.Key) (string, bool) {
	di, ok := c.byKey[key]
	if !ok {
		return "", false
	}
	return c.byDevIno[di].path, true
}

// Len reports the number of (device, inode) pairs recorded.
func (c *DevInoCache) Len() int {
	return len(c.byDevIno)
}
