// Copyright © 2026 TreeCAS Authors

//go:build linux || darwin

package core

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Dir is an open handle on a directory. All engine filesystem operations go
// through handle-relative syscalls on it, so a hostile rename or symlink
// swap in the destination cannot redirect writes outside the checkout.
//
// The recorded path is used for error reporting and for hardlink
// bookkeeping in the devino cache only, never to reach the directory.
type Dir struct {
	fd   int
	path string
}

// OpenDir opens an existing directory as a destination handle.
func OpenDir(path string) (Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Dir{}, err
	}
	fd, err := unix.Open(abs, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return Dir{}, &os.PathError{Op: "open", Path: abs, Err: err}
	}
	return Dir{fd: fd, path: abs}, nil
}

// Close releases the handle.
func (d Dir) Close() error {
	return unix.Close(d.fd)
}

// Fd exposes the raw descriptor.
func (d Dir) Fd() int {
	return d.fd
}

// Path reports where the handle was opened. Informational only.
func (d Dir) Path() string {
	return d.path
}

// dup clones the handle so the clone can be closed independently.
func (d Dir) dup() (Dir, error) {
	fd, err := unix.Dup(d.fd)
	if err != nil {
		return Dir{}, err
	}
	unix.CloseOnExec(fd)
	return Dir{fd: fd, path: d.path}, nil
}

// pathOf names a direct child. Informational only.
func (d Dir) pathOf(name string) string {
	return filepath.Join(d.path, name)
}

// openSub opens a direct subdirectory, refusing to follow symlinks.
func (d Dir) openSub(name string) (Dir, error) {
	fd, err := unix.Openat(d.fd, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
	if err != nil {
		return Dir{}, &os.PathError{Op: "openat", Path: d.pathOf(name), Err: err}
	}
	return Dir{fd: fd, path: d.pathOf(name)}, nil
}

// mkdir creates a direct subdirectory.
func (d Dir) mkdir(name string, mode os.FileMode) error {
	return unix.Mkdirat(d.fd, name, unixMode(mode))
}

// create opens a new regular file under the handle, exclusively.
func (d Dir) create(name string, mode os.FileMode) (*os.File, error) {
	fd, err := unix.Openat(d.fd, name,
		unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW|unix.O_CLOEXEC, unixMode(mode))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), d.pathOf(name)), nil
}

// symlink creates a symbolic link under the handle.
func (d Dir) symlink(target, name string) error {
	return unix.Symlinkat(target, d.fd, name)
}

// link hardlinks an existing file (named by absolute path) under the handle.
func (d Dir) link(srcAbs, name string) error {
	return unix.Linkat(unix.AT_FDCWD, srcAbs, d.fd, name, 0)
}

// lstat stats a direct child without following symlinks.
func (d Dir) lstat(name string) (unix.Stat_t, bool, error) {
	var st unix.Stat_t
	err := unix.Fstatat(d.fd, name, &st, unix.AT_SYMLINK_NOFOLLOW)
	if err == unix.ENOENT {
		return st, false, nil
	}
	if err != nil {
		return st, false, err
	}
	return st, true, nil
}

// unlink removes a direct child entry.
func (d Dir) unlink(name string, isDir bool) error {
	flags := 0
	if isDir {
		flags = unix.AT_REMOVEDIR
	}
	return unix.Unlinkat(d.fd, name, flags)
}

// chmod applies exact permission bits to the directory itself. Creation
// goes through the umask, so modes are always fixed up afterwards.
func (d Dir) chmod(mode os.FileMode) error {
	return unix.Fchmod(d.fd, unixMode(mode))
}

// chown changes ownership of the directory itself.
func (d Dir) chown(uid, gid int) error {
	return unix.Fchown(d.fd, uid, gid)
}

// lchown changes ownership of a direct child without following symlinks.
func (d Dir) lchown(name string, uid, gid int) error {
	return unix.Fchownat(d.fd, name, uid, gid, unix.AT_SYMLINK_NOFOLLOW)
}

// sync flushes the directory entries to stable storage.
func (d Dir) sync() error {
	return unix.Fsync(d.fd)
}

// unixMode maps an os.FileMode onto syscall mode bits, keeping the
// privileged bits.
func unixMode(m os.FileMode) uint32 {
	mode := uint32(m.Perm())
	if m&os.ModeSetuid != 0 {
		mode |= unix.S_ISUID
	}
	if m&os.ModeSetgid != 0 {
		mode |= unix.S_ISGID
	}
	if m&os.ModeSticky != 0 {
		mode |= unix.S_ISVTX
	}
	return mode
}

func isRegular(st *unix.Stat_t) bool {
	return uint32(st.Mode)&unix.S_IFMT == unix.S_IFREG
}

func isDirectory(st *unix.Stat_t) bool {
	return uint32(st.Mode)&unix.S_IFMT == unix.S_IFDIR
}
