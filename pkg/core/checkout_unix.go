// Copyright © 2026 TreeCAS Authors

//go:build linux || darwin

package core

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/core/status"
	"github.com/treecas/treecas/pkg/model"
)

// defaultRootMode is applied to the checkout root and to destination path
// components created on the way to it.
const defaultRootMode = os.FileMode(0755)

// CheckoutAt materializes the tree addressed by root under destPath,
// relative to an already-open destination directory handle.
//
// root may name a commit, which is resolved to its tree, or a tree. destPath
// may span several components; missing ones are created. The first
// unrecoverable error aborts the walk and is returned; a failed checkout may
// leave a partially populated destination behind.
func CheckoutAt(ctx context.Context, c *Checkout, dest Dir, destPath string, root cas.Key) (err error) {
	defer func(t0 time.Time) {
		if c.MetricsEnabled() {
			c.m.Usage.IO(t0, "CheckoutAt")
			if err != nil {
				c.m.Usage.Failed("CheckoutAt")
			}
		}
	}(time.Now())

	if c.store == nil {
		return status.ErrNoObjectStore
	}

	treeKey, err := c.rootTree(ctx, root)
	if err != nil {
		return err
	}

	c.l.Info("starting checkout",
		zap.Stringer("root", root),
		zap.String("destination", dest.pathOf(destPath)),
		zap.Stringer("mode", c.mode),
		zap.Stringer("overwrite", c.overwrite),
	)

	// the root is subject to filtering like any directory
	rootEntry := model.Entry{Name: ".", Kind: model.KindDir, Mode: defaultRootMode, Hash: treeKey.String()}
	res, ferr := c.decide(".", &rootEntry)
	if ferr != nil {
		return pathError(".", status.ErrFilterFailed, ferr)
	}
	if res == FilterSkip {
		return nil
	}

	d, err := c.prepareDest(dest, destPath)
	if err != nil {
		return err
	}
	defer d.Close()

	if err = c.checkoutTree(ctx, treeKey, d, "."); err != nil {
		return err
	}

	if c.enableFsync {
		if serr := d.sync(); serr != nil {
			return pathError(".", status.ErrIOFailure, serr)
		}
	}
	return nil
}

// rootTree resolves the checkout root to a tree key, following one level of
// commit indirection.
func (c *Checkout) rootTree(ctx context.Context, root cas.Key) (cas.Key, error) {
	view, err := c.store.Resolve(ctx, root)
	if err != nil {
		return cas.Key{}, storeError(".", err)
	}
	switch view.Kind {
	case cas.KindTree:
		return root, nil
	case cas.KindCommit:
		treeKey, err := cas.KeyFromString(view.Commit.Tree)
		if err != nil {
			return cas.Key{}, pathError(".", status.ErrCorrupt, err)
		}
		return treeKey, nil
	default:
		return cas.Key{}, pathError(".", status.ErrCorrupt,
			&cas.WrongKindError{Key: root, Want: cas.KindTree, Got: view.Kind})
	}
}

// prepareDest creates the destination path components under the handle and
// returns a handle on the innermost directory. Existing directories on the
// way are reused regardless of the overwrite mode; only entries inside the
// checked-out tree are subject to conflict policy.
func (c *Checkout) prepareDest(dest Dir, destPath string) (Dir, error) {
	cleaned := path.Clean(destPath)
	if cleaned == "." || cleaned == "" {
		d, err := dest.dup()
		if err != nil {
			return Dir{}, pathError(".", status.ErrIOFailure, err)
		}
		return d, nil
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return Dir{}, pathError(destPath, status.ErrIOFailure,
			&os.PathError{Op: "checkout", Path: destPath, Err: unix.EINVAL})
	}

	cur, err := dest.dup()
	if err != nil {
		return Dir{}, pathError(".", status.ErrIOFailure, err)
	}
	for _, comp := range strings.Split(cleaned, "/") {
		created := true
		if err := cur.mkdir(comp, defaultRootMode); err != nil {
			if err != unix.EEXIST {
				cur.Close()
				return Dir{}, pathError(comp, status.ErrIOFailure, err)
			}
			created = false
		}
		next, err := cur.openSub(comp)
		cur.Close()
		if err != nil {
			return Dir{}, pathError(comp, status.ErrIOFailure, err)
		}
		cur = next
		// creation goes through the umask; pre-existing directories keep
		// whatever mode the caller gave them
		if created {
			if err := cur.chmod(defaultRootMode); err != nil {
				cur.Close()
				return Dir{}, pathError(comp, status.ErrIOFailure, err)
			}
		}
	}
	return cur, nil
}

// checkoutTree materializes the entries of one tree into an open directory.
func (c *Checkout) checkoutTree(ctx context.Context, key cas.Key, d Dir, rel string) error {
	tree, err := c.store.GetTree(ctx, key)
	if err != nil {
		return storeError(rel, err)
	}

	for i := range tree.Entries {
		e := &tree.Entries[i]
		relChild := joinRel(rel, e.Name)

		// cancellation checkpoint at every entry boundary
		if cerr := ctx.Err(); cerr != nil {
			return pathError(relChild, status.ErrCancelled, cerr)
		}

		res, ferr := c.decide(relChild, e)
		if ferr != nil {
			return pathError(relChild, status.ErrFilterFailed, ferr)
		}
		if res == FilterSkip {
			c.l.Debug("filter skipped entry", zap.String("path", relChild))
			if c.MetricsEnabled() {
				c.m.Entries.Inc("skip")
			}
			continue
		}

		switch e.Kind {
		case model.KindDir:
			err = c.checkoutDir(ctx, e, d, relChild)
		case model.KindFile:
			err = c.checkoutFile(ctx, e, d, relChild)
		case model.KindSymlink:
			err = c.checkoutSymlink(e, d, relChild)
		default:
			err = pathError(relChild, status.ErrCorrupt, nil)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Checkout) checkoutDir(ctx context.Context, e *model.Entry, d Dir, rel string) error {
	childKey, err := cas.KeyFromString(e.Hash)
	if err != nil {
		return pathError(rel, status.ErrCorrupt, err)
	}

	if err := d.mkdir(e.Name, e.Mode); err != nil {
		if err != unix.EEXIST {
			return pathError(rel, status.ErrIOFailure, err)
		}
		if c.overwrite == OverwriteNone {
			return pathError(rel, status.ErrIOFailure, err)
		}
		// AddFiles merges into an existing directory, but never through
		// an existing non-directory
		st, found, serr := d.lstat(e.Name)
		if serr != nil {
			return pathError(rel, status.ErrIOFailure, serr)
		}
		if !found || !isDirectory(&st) {
			return pathError(rel, status.ErrIOFailure, unix.ENOTDIR)
		}
	}

	sub, err := d.openSub(e.Name)
	if err != nil {
		return pathError(rel, status.ErrIOFailure, err)
	}
	defer sub.Close()

	if err := sub.chmod(c.effectiveMode(e)); err != nil {
		return pathError(rel, status.ErrIOFailure, err)
	}
	if c.applyOwnership() {
		if err := sub.chown(e.UID, e.GID); err != nil {
			return pathError(rel, status.ErrIOFailure, err)
		}
	}
	if !c.mode.userSemantics() {
		if err := applyXattrs(sub.fd, e.Xattrs); err != nil {
			return pathError(rel, status.ErrIOFailure, err)
		}
	}

	if c.MetricsEnabled() {
		c.m.Entries.Inc("dir")
	}

	if err := c.checkoutTree(ctx, childKey, sub, rel); err != nil {
		return err
	}

	if c.enableFsync {
		if err := sub.sync(); err != nil {
			return pathError(rel, status.ErrIOFailure, err)
		}
	}
	return nil
}

func (c *Checkout) checkoutFile(ctx context.Context, e *model.Entry, d Dir, rel string) error {
	key, err := cas.KeyFromString(e.Hash)
	if err != nil {
		return pathError(rel, status.ErrCorrupt, err)
	}

	st, found, serr := d.lstat(e.Name)
	if serr != nil {
		return pathError(rel, status.ErrIOFailure, serr)
	}
	if found {
		if c.overwrite == OverwriteNone {
			return pathError(rel, status.ErrIOFailure, unix.EEXIST)
		}
		// the destination already holds this exact content: leave it alone
		if c.devino != nil && isRegular(&st) {
			if cached, ok := c.devino.Lookup(uint64(st.Dev), uint64(st.Ino)); ok && cached == key {
				c.l.Debug("existing file already identical", zap.String("path", rel))
				return nil
			}
		}
		if err := d.unlink(e.Name, isDirectory(&st)); err != nil {
			return pathError(rel, status.ErrIOFailure, err)
		}
	}

	if c.canHardlink(e) {
		if src, ok := c.devino.Source(key); ok {
			if err := d.link(src, e.Name); err == nil {
				c.l.Debug("hardlinked from devino cache",
					zap.String("path", rel),
					zap.String("source", src),
				)
				if c.MetricsEnabled() {
					c.m.Entries.Inc("hardlink")
				}
				return nil
			}
			// cross-device links cannot work: fall back to a copy
			c.l.Debug("hardlink failed, copying instead", zap.String("path", rel))
		}
	}

	return c.copyFile(ctx, e, d, rel, key)
}

func (c *Checkout) copyFile(ctx context.Context, e *model.Entry, d Dir, rel string, key cas.Key) error {
	rdr, err := c.store.GetFile(ctx, key)
	if err != nil {
		return storeError(rel, err)
	}
	defer rdr.Close()

	f, err := d.create(e.Name, c.effectiveMode(e))
	if err != nil {
		return pathError(rel, status.ErrIOFailure, err)
	}

	written, err := io.Copy(f, rdr)
	if err != nil {
		f.Close()
		return pathError(rel, status.ErrIOFailure, err)
	}
	if err := f.Chmod(c.effectiveMode(e)); err != nil {
		f.Close()
		return pathError(rel, status.ErrIOFailure, err)
	}
	if c.applyOwnership() {
		if err := f.Chown(e.UID, e.GID); err != nil {
			f.Close()
			return pathError(rel, status.ErrIOFailure, err)
		}
	}
	if !c.mode.userSemantics() {
		if err := applyXattrs(int(f.Fd()), e.Xattrs); err != nil {
			f.Close()
			return pathError(rel, status.ErrIOFailure, err)
		}
	}
	if c.enableFsync {
		if err := f.Sync(); err != nil {
			f.Close()
			return pathError(rel, status.ErrIOFailure, err)
		}
	}

	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		f.Close()
		return pathError(rel, status.ErrIOFailure, err)
	}
	if err := f.Close(); err != nil {
		return pathError(rel, status.ErrIOFailure, err)
	}

	if c.devino != nil {
		c.devino.Insert(uint64(st.Dev), uint64(st.Ino), key, d.pathOf(e.Name))
	}
	if c.MetricsEnabled() {
		c.m.Entries.Inc("copy")
		c.m.Entries.Size(written, "copy")
	}
	return nil
}

func (c *Checkout) checkoutSymlink(e *model.Entry, d Dir, rel string) error {
	err := d.symlink(e.LinkTarget, e.Name)
	if err == unix.EEXIST && c.overwrite == OverwriteAddFiles {
		st, found, serr := d.lstat(e.Name)
		if serr != nil {
			return pathError(rel, status.ErrIOFailure, serr)
		}
		if found {
			if err := d.unlink(e.Name, isDirectory(&st)); err != nil {
				return pathError(rel, status.ErrIOFailure, err)
			}
		}
		err = d.symlink(e.LinkTarget, e.Name)
	}
	if err != nil {
		return pathError(rel, status.ErrIOFailure, err)
	}

	if c.applyOwnership() {
		if err := d.lchown(e.Name, e.UID, e.GID); err != nil {
			return pathError(rel, status.ErrIOFailure, err)
		}
	}
	if c.MetricsEnabled() {
		c.m.Entries.Inc("symlink")
	}
	return nil
}

// canHardlink gates hardlinking: the mode must allow it, a cache must be
// attached, and no force-copy flag may apply. force_copy wins over a cache
// hit; force_copy_zerosized only affects zero-length files.
func (c *Checkout) canHardlink(e *model.Entry) bool {
	if c.devino == nil || !c.mode.allowsHardlink() {
		return false
	}
	if c.forceCopy {
		return false
	}
	if c.forceCopyZerosized && e.Size == 0 {
		return false
	}
	return true
}

// effectiveMode is the mode actually applied on disk: user semantics strip
// the privileged bits.
func (c *Checkout) effectiveMode(e *model.Entry) os.FileMode {
	if c.mode.userSemantics() {
		return e.Mode.Perm()
	}
	return e.Mode & (os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky)
}

// applyOwnership tells whether source ownership is applied: never under
// user semantics, and only when running privileged.
func (c *Checkout) applyOwnership() bool {
	return !c.mode.userSemantics() && os.Geteuid() == 0
}

func joinRel(rel, name string) string {
	if rel == "." || rel == "" {
		return name
	}
	return rel + "/" + name
}
