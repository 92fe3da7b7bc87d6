// Copyright © 2026 TreeCAS Authors

// Package localfs implements the storage.Store interface on top of a local
// file system, through afero.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/treecas/treecas/pkg/storage"
)

// New creates a new local file system backed storage model.
//
// When fs is nil, objects live under .treecas/objects in the current
// directory.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".treecas", "objects"))
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) String() string {
	return "localfs"
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

type localReader struct {
	objectReader io.ReadCloser
}

func (r localReader) WriteTo(writer io.Writer) (n int64, err error) {
	return storage.PipeIO(writer, r.objectReader)
}

func (r localReader) Close() error {
	return r.objectReader.Close()
}

func (r localReader) Read(p []byte) (n int, err error) {
	return r.objectReader.Read(p)
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, storage.ErrNotFound
	}
	t, err := l.fs.Open(key)
	if err != nil {
		return nil, err
	}
	return localReader{objectReader: t}, nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %v", key, err)
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if exclusive {
		if has, err := l.Has(ctx, key); err != nil {
			return err
		} else if has {
			return storage.ErrExists
		}
		flag |= os.O_EXCL
	}
	target, err := l.fs.OpenFile(key, flag, 0600)
	if err != nil {
		return fmt.Errorf("create record for %q: %v", key, err)
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		target.Close()
		return fmt.Errorf("write record for %q: %v", key, err)
	}
	return target.Close()
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %v", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		res = append(res, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *localFS) Clear(ctx context.Context) error {
	keys, err := l.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := l.fs.Remove(key); err != nil {
			return err
		}
	}
	return nil
}
