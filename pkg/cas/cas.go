package cas

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/docker/go-units"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/treecas/treecas/pkg/cas/status"
	"github.com/treecas/treecas/pkg/errors"
	"github.com/treecas/treecas/pkg/metrics"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage"
	"github.com/treecas/treecas/pkg/storage/localfs"
)

const (
	// DefaultPrefix is the key namespace used on the backing store
	DefaultPrefix = "objects"

	// DefaultTreeCacheSize is the default size of the cache of decoded
	// directory listings, in number of trees
	DefaultTreeCacheSize = 10000

	// MaxObjectSize is the largest object read into memory
	MaxObjectSize = 2 * units.GiB
)

// Store implementations resolve content checksums to typed, verified views
// of the stored objects. The store is read-only: treecas consumes the object
// format, it does not own its production.
type Store interface {
	Resolve(context.Context, Key) (*ObjectView, error)
	GetFile(context.Context, Key) (io.ReadCloser, error)
	GetTree(context.Context, Key) (*model.Tree, error)
	GetCommit(context.Context, Key) (*model.CommitDescriptor, error)
	Has(context.Context, Key) (bool, error)
}

var _ Store = &objectStore{}

func defaultsForStore() *objectStore {
	return &objectStore{
		backend:        localfs.New(nil),
		prefix:         DefaultPrefix,
		treeCacheSize:  DefaultTreeCacheSize,
		withVerifyHash: true,
		l:              zap.NewNop(),
	}
}

// New creates a new read-side view over a content-addressed object store
func New(opts ...Option) (Store, error) {
	s := defaultsForStore()
	for _, apply := range opts {
		apply(s)
	}

	var err error
	s.treeCache, err = lru.New(s.treeCacheSize)
	if err != nil {
		return nil, err
	}

	s.pather = func(k Key) string { return k.StringWithPrefix(s.prefix) }

	if s.MetricsEnabled() {
		s.m = metrics.EnsureMetrics("cas", &M{}).(*M)
	}

	return s, nil
}

type objectStore struct {
	backend storage.Store
	prefix  string
	pather  func(Key) string
	l       *zap.Logger

	// cache of decoded directory listings
	treeCache     *lru.Cache
	treeCacheSize int

	withVerifyHash bool

	metrics.Enable
	m *M
}

// object fetches, verifies and splits a stored object.
func (s *objectStore) object(ctx context.Context, key Key) (Kind, []byte, error) {
	rdr, err := s.backend.Get(ctx, s.pather(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, status.ErrNotFound.Wrap(err)
		}
		return "", nil, err
	}
	defer rdr.Close()

	data, err := io.ReadAll(io.LimitReader(rdr, MaxObjectSize+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(data)) > MaxObjectSize {
		return "", nil, storage.ErrObjectTooBig
	}

	if s.withVerifyHash {
		if verify := KeyFromBytes(data); verify != key {
			s.l.Error("object integrity check failed",
				zap.Stringer("key", key),
				zap.Stringer("computed", verify),
			)
			return "", nil, status.ErrCorrupt
		}
	}

	kind, payload, err := decodeObject(data)
	if err != nil {
		return "", nil, status.ErrInvalidObject.Wrap(err)
	}
	return kind, payload, nil
}

func (s *objectStore) Resolve(ctx context.Context, key Key) (view *ObjectView, err error) {
	defer func(t0 time.Time) {
		if s.MetricsEnabled() {
			s.m.Usage.IO(t0, "Resolve")
			if err != nil {
				s.m.Usage.Failed("Resolve")
			}
		}
	}(time.Now())

	s.l.Debug("cas resolve", zap.Stringer("key", key))

	kind, payload, err := s.object(ctx, key)
	if err != nil {
		return nil, err
	}

	view = &ObjectView{Kind: kind, Size: int64(len(payload))}
	if s.MetricsEnabled() {
		s.m.Objects.Inc("Resolve")
		s.m.Objects.Size(view.Size, "Resolve")
	}
	switch kind {
	case KindFile:
		view.File = io.NopCloser(bytes.NewReader(payload))
	case KindTree:
		view.Tree, err = s.decodeTree(key, payload)
		if err != nil {
			return nil, err
		}
	case KindCommit:
		view.Commit, err = model.UnmarshalCommit(payload)
		if err != nil {
			return nil, status.ErrInvalidObject.Wrap(err)
		}
	}
	return view, nil
}

func (s *objectStore) GetFile(ctx context.Context, key Key) (io.ReadCloser, error) {
	view, err := s.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if view.Kind != KindFile {
		return nil, status.ErrInvalidObject.Wrap(
			&WrongKindError{Key: key, Want: KindFile, Got: view.Kind})
	}
	return view.File, nil
}

func (s *objectStore) GetTree(ctx context.Context, key Key) (*model.Tree, error) {
	if cached, ok := s.treeCache.Get(key); ok {
		return cached.(*model.Tree), nil
	}

	view, err := s.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if view.Kind != KindTree {
		return nil, status.ErrInvalidObject.Wrap(
			&WrongKindError{Key: key, Want: KindTree, Got: view.Kind})
	}
	return view.Tree, nil
}

func (s *objectStore) GetCommit(ctx context.Context, key Key) (*model.CommitDescriptor, error) {
	view, err := s.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	if view.Kind != KindCommit {
		return nil, status.ErrInvalidObject.Wrap(
			&WrongKindError{Key: key, Want: KindCommit, Got: view.Kind})
	}
	return view.Commit, nil
}

func (s *objectStore) Has(ctx context.Context, key Key) (bool, error) {
	return s.backend.Has(ctx, s.pather(key))
}

func (s *objectStore) decodeTree(key Key, payload []byte) (*model.Tree, error) {
	tree, err := model.UnmarshalTree(payload)
	if err != nil {
		return nil, status.ErrInvalidObject.Wrap(err)
	}
	_, _ = s.treeCache.ContainsOrAdd(key, tree)
	return tree, nil
}
