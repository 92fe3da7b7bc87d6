// Copyright © 2026 TreeCAS Authors

package core

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treecas/treecas/pkg/cas"
	"github.com/treecas/treecas/pkg/core/status"
	"github.com/treecas/treecas/pkg/model"
	"github.com/treecas/treecas/pkg/storage"
	"github.com/treecas/treecas/pkg/storage/localfs"
)

func buildVerifyFixture(t *testing.T) (storage.Store, cas.Store, cas.Key, cas.Key) {
	t.Helper()
	ctx := context.Background()

	backend := localfs.New(afero.NewMemMapFs())
	store, err := cas.New(cas.Backend(backend))
	require.NoError(t, err)
	builder := cas.NewBuilder(backend)

	fileA, err := builder.PutFile(ctx, []byte("alpha"))
	require.NoError(t, err)
	fileB, err := builder.PutFile(ctx, []byte("beta content"))
	require.NoError(t, err)

	subTree, err := builder.PutTree(ctx, []model.Entry{
		model.FileEntry("beta", 0644, fileB.String(), 12),
		model.SymlinkEntry("link", "beta"),
	})
	require.NoError(t, err)

	rootTree, err := builder.PutTree(ctx, []model.Entry{
		model.FileEntry("alpha", 0644, fileA.String(), 5),
		model.DirEntry("sub", 0755, subTree.String()),
	})
	require.NoError(t, err)

	commitKey, err := builder.PutCommit(ctx, rootTree, "verify fixture")
	require.NoError(t, err)

	return backend, store, commitKey, fileB
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	_, store, commitKey, _ := buildVerifyFixture(t)

	res, err := Verify(ctx, store, commitKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Commits)
	assert.Equal(t, int64(2), res.Trees)
	assert.Equal(t, int64(2), res.Files)
	assert.Equal(t, int64(17), res.Bytes)
}

func TestVerify_MissingObject(t *testing.T) {
	ctx := context.Background()
	backend, store, commitKey, fileB := buildVerifyFixture(t)

	require.NoError(t, backend.Delete(ctx, fileB.StringWithPrefix(cas.DefaultPrefix)))

	_, err := Verify(ctx, store, commitKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrContentMissing)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "sub/beta", cerr.Path)
}

func TestVerify_CorruptObject(t *testing.T) {
	ctx := context.Background()
	backend, store, commitKey, fileB := buildVerifyFixture(t)

	require.NoError(t, backend.Delete(ctx, fileB.StringWithPrefix(cas.DefaultPrefix)))
	require.NoError(t, backend.Put(ctx,
		fileB.StringWithPrefix(cas.DefaultPrefix),
		bytes.NewReader([]byte("not the original object")),
		storage.OverWrite,
	))

	_, err := Verify(ctx, store, commitKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCorrupt)
}

func TestVerify_Cancelled(t *testing.T) {
	_, store, commitKey, _ := buildVerifyFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Verify(ctx, store, commitKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCancelled)
}

func TestVerify_NilStore(t *testing.T) {
	_, err := Verify(context.Background(), nil, cas.Key{})
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrNoObjectStore)
}
