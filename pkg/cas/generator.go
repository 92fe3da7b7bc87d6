package cas

import (
	"bytes"
	"context"

	"github.com/treecas/treecas/pkg/errors"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage"
)

// Builder writes objects into a backend store.
//
// treecas is a read-side consumer of the object format: the Builder exists
// to populate repositories for tests, benchmarks and fixtures, not as a
// public commit-creation API.
type Builder struct {
	backend storage.Store
	prefix  string
}

// NewBuilder creates a Builder over a backend store, writing under the same
// default key namespace the store reads from.
func NewBuilder(backend storage.Store) *Builder {
	return &Builder{backend: backend, prefix: DefaultPrefix}
}

func (b *Builder) put(ctx context.Context, kind Kind, payload []byte) (Key, error) {
	data := encodeObject(kind, payload)
	key := KeyFromBytes(data)

	err := b.backend.Put(ctx, key.StringWithPrefix(b.prefix), bytes.NewReader(data), storage.IfNotPresent)
	if err != nil && !errors.Is(err, storage.ErrExists) {
		// identical content resolves to the same key: an existing object is a no-op
		return Key{}, err
	}
	return key, nil
}

// PutFile stores raw file content and returns its key.
func (b *Builder) PutFile(ctx context.Context, content []byte) (Key, error) {
	return b.put(ctx, KindFile, content)
}

// PutTree stores a directory listing, sorting the entries, and returns its key.
func (b *Builder) PutTree(ctx context.Context, entries []model.Entry) (Key, error) {
	payload, err := model.MarshalTree(model.NewTree(entries))
	if err != nil {
		return Key{}, err
	}
	return b.put(ctx, KindTree, payload)
}

// PutCommit stores a commit descriptor pointing at a root tree and returns its key.
func (b *Builder) PutCommit(ctx context.Context, tree Key, message string) (Key, error) {
	payload, err := model.MarshalCommit(&model.CommitDescriptor{
		Tree:      tree.String(),
		Message:   message,
		Timestamp: model.GetCommitTimeStamp(),
	})
	if err != nil {
		return Key{}, err
	}
	return b.put(ctx, KindCommit, payload)
}
